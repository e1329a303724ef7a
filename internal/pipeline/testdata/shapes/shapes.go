package shapes

// Base holds an identifier.
type Base struct {
	ID int
}

// Circle is a round shape.
type Circle struct {
	Base
	Radius float64
	hidden inner
}

type inner struct{}

// Area returns the area.
func (c *Circle) Area() float64 { return 3 * c.Radius * c.Radius }

// Shape is anything with an area.
type Shape interface {
	Area() float64
}

const Pi = 3.14

var Default = Circle{}
