package converter

import (
	"reflectdoc/internal/frontend"
	"reflectdoc/internal/models"
)

type EventName string

// Lifecycle events, in the order a run fires them.
const (
	EventBegin                  EventName = "begin"
	EventFileBegin              EventName = "fileBegin"
	EventCreateDeclaration      EventName = "createDeclaration"
	EventCreateSignature        EventName = "createSignature"
	EventCreateParameter        EventName = "createParameter"
	EventCreateTypeParameter    EventName = "createTypeParameter"
	EventFunctionImplementation EventName = "functionImplementation"
	EventResolveBegin           EventName = "resolveBegin"
	EventResolveReflection      EventName = "resolveReflection"
	EventResolveEnd             EventName = "resolveEnd"
	EventEnd                    EventName = "end"
)

// Event is the payload passed to subscribers. Only the fields relevant to the
// event are set.
type Event struct {
	Name       EventName
	Reflection *models.Reflection
	Node       frontend.Node
	File       string
}

// Handler reacts to an event by mutating the context or project. Return values
// are not observed by the converter.
type Handler func(c *Context, e Event)

type subscription struct {
	owner   string
	handler Handler
}

// EventBus dispatches named events to subscribers synchronously. Owners are
// called in the order they first subscribed to the bus, so an owner that is
// turned off and back on keeps its place; one owner's handlers run in
// subscription order.
type EventBus struct {
	subs map[EventName][]subscription
	seq  map[string]int
}

func NewEventBus() *EventBus {
	return &EventBus{
		subs: make(map[EventName][]subscription),
		seq:  make(map[string]int),
	}
}

// On subscribes handler to name on behalf of owner.
func (b *EventBus) On(name EventName, owner string, handler Handler) {
	if _, ok := b.seq[owner]; !ok {
		b.seq[owner] = len(b.seq)
	}
	list := b.subs[name]
	at := len(list)
	for at > 0 && b.seq[list[at-1].owner] > b.seq[owner] {
		at--
	}
	list = append(list, subscription{})
	copy(list[at+1:], list[at:])
	list[at] = subscription{owner: owner, handler: handler}
	b.subs[name] = list
}

// Off drops every subscription made on behalf of owner and returns how many
// were removed.
func (b *EventBus) Off(owner string) int {
	removed := 0
	for name, list := range b.subs {
		kept := list[:0:0]
		for _, s := range list {
			if s.owner == owner {
				removed++
				continue
			}
			kept = append(kept, s)
		}
		if len(kept) == 0 {
			delete(b.subs, name)
		} else {
			b.subs[name] = kept
		}
	}
	return removed
}

// Trigger invokes every subscriber of e.Name. Subscriptions added while the
// event is being dispatched are not called for that dispatch.
func (b *EventBus) Trigger(c *Context, e Event) {
	list := b.subs[e.Name]
	if len(list) == 0 {
		return
	}
	snapshot := append([]subscription(nil), list...)
	for _, s := range snapshot {
		s.handler(c, e)
	}
}

// Subscribers returns the number of handlers subscribed to name.
func (b *EventBus) Subscribers(name EventName) int {
	return len(b.subs[name])
}

// Subscriber is the view of the bus handed to a plugin: every subscription it
// makes is owned by that plugin and purged when the plugin is removed.
type Subscriber struct {
	bus   *EventBus
	owner string
}

func (s Subscriber) On(name EventName, handler Handler) {
	s.bus.On(name, s.owner, handler)
}
