package repl

import "github.com/ardnew/aprop/props"

var (
	ErrOutOfBounds  = props.NewError("history index out of range")
	ErrEditDeclined = props.NewError("edit declined")
)
