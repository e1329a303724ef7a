package plugins

import (
	"sort"

	"reflectdoc/internal/converter"
	"reflectdoc/internal/models"
)

var groupTitles = []struct {
	kind  models.ReflectionKind
	title string
}{
	{models.KindModule, "Modules"},
	{models.KindInterface, "Interfaces"},
	{models.KindStruct, "Structs"},
	{models.KindTypeAlias, "Type Aliases"},
	{models.KindFunction, "Functions"},
	{models.KindConstant, "Constants"},
	{models.KindVariable, "Variables"},
	{models.KindField, "Fields"},
	{models.KindMethod, "Methods"},
	{models.KindTypeParameter, "Type Parameters"},
	{models.KindTypeLiteral, "Type Literals"},
}

// GroupPlugin sorts the children of every container into kind groups once the
// graph is complete.
type GroupPlugin struct{}

func NewGroupPlugin() *GroupPlugin {
	return &GroupPlugin{}
}

func (p *GroupPlugin) Name() string { return "groups" }

func (p *GroupPlugin) Attach(s converter.Subscriber) {
	s.On(converter.EventResolveEnd, func(c *converter.Context, _ converter.Event) {
		for _, r := range c.Project().Ordered() {
			if r.Kind.IsContainer() {
				r.Groups = groupChildren(r)
			}
		}
	})
}

func groupChildren(r *models.Reflection) []models.Group {
	byKind := make(map[models.ReflectionKind][]*models.Reflection)
	for _, child := range r.Children {
		byKind[child.Kind] = append(byKind[child.Kind], child)
	}
	var groups []models.Group
	for _, g := range groupTitles {
		members := byKind[g.kind]
		if len(members) == 0 {
			continue
		}
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].Name < members[j].Name
		})
		ids := make([]int, len(members))
		for i, m := range members {
			ids[i] = m.ID
		}
		groups = append(groups, models.Group{Title: g.title, Children: ids})
	}
	return groups
}
