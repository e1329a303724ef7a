package decls

import "fmt"

// Early is declared before its receiver type.
func (s *Store) Early() {}

// Store keeps values.
type Store struct {
	items map[string]int
	fmt.Stringer
}

// Get returns a value.
func (s *Store) Get(key string) (value int, ok bool) {
	value, ok = s.items[key]
	return
}

func (Store) unnamed(int, string) {}

// Sum adds numbers.
func Sum(base int, rest ...int) int {
	for _, r := range rest {
		base += r
	}
	return base
}

func Map[T, U any](in []T, fn func(T) U) []U {
	return nil
}

// Reader reads.
type Reader interface {
	fmt.Stringer
	Read(p []byte) (n int, err error)
}

type ID = string

const (
	A, B = 1, 2
	_    = 3
)

var x, y int
