package embed

type Base struct{}

type Derived struct {
	Base
	Name string
}
