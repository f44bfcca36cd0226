// Package pkg holds the aprop identity and its per-user directories.
//
//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
)

const (
	// Name is the command name. It appears in help text, configuration
	// headers and, by default, the per-user directory names.
	Name = "aprop"
	// Description is the one-line summary shown in help output.
	Description = "Layered property placeholder resolver"
)

// Version is the semantic version embedded from the VERSION file.
//
//go:embed VERSION
var Version string

// Ident returns the name and version, as in "aprop 0.1.0".
func Ident() string { return Name + " " + Version }
