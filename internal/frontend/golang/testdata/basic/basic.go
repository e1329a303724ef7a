package basic

// Add sums two numbers.
func Add(a int, b string) {}

type Number interface {
	~int | float64
}

type Pair[T Number] struct {
	Left, Right T
}

var Default = Pair[int]{Left: 1}
