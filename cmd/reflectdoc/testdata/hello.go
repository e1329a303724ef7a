package hello

// Greet says hello.
func Greet(name string) string { return "hello " + name }
