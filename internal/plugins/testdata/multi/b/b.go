package b

type T struct{}

func (T) M() {}

var V T

type Wrapper struct {
	T
}
