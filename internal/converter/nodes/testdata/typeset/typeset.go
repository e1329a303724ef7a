package typeset

type Integer interface {
	~int | ~int64
	~int | ~uint
}

type Single interface {
	~int | ~string
}

type Keyed interface {
	~int | ~int8
	~int | ~int16
	~int | ~int32
}
