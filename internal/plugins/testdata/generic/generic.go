package generic

// List is a linked list.
type List[T any] struct {
	head *node[T]
}

type node[T any] struct {
	value T
	next  *node[T]
}

type T struct{}

// Push adds v to l.
func Push[T any](l *List[T], v T) {}

func Use(t T) {}
