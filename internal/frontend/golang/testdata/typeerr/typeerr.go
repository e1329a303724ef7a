package typeerr

var X int = "not an int"
