package kinds

import "io"

type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

type Number interface {
	~int | ~int64 | float64
}

type Holder struct {
	Ptr     *int
	List    []string
	Fixed   [4]byte
	Lookup  map[string]int
	Events  <-chan int
	Sink    chan<- error
	Both    chan bool
	Handler func(int, ...string) (bool, error)
	Reader  io.Reader
	Pairs   Pair[string, int]
	Nested  struct{ X int }
	Any     interface{}
	Empty   struct{}
	Paren   (int)
}

var Inferred = map[string][]int{}

var Anon = struct{ A int }{}

var Fn = func(a int) string { return "" }

var Ptr = &Holder{}
