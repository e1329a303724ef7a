package basic

func helper() *Pair[int] { return &Default }
