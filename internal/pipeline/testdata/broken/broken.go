package broken

func Broken() int {
	return missing
}
