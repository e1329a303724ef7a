package a

type T struct{}
