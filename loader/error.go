package loader

import "github.com/ardnew/aprop/props"

// Predefined errors (sentinel values).
var (
	ErrDecode              = props.NewError("failed to decode properties")
	ErrRead                = props.NewError("failed to read location")
	ErrUnsupportedEncoding = props.NewError("unsupported encoding")
)
