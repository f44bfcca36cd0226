package cmd

import "github.com/ardnew/aprop/props"

// Command errors share the structured error type of the props package so
// that main logs every failure the same way.
var (
	ErrJSONMarshal = props.NewError("marshal JSON")
	ErrYAMLMarshal = props.NewError("marshal YAML")
	ErrWriteOutput = props.NewError("write output")
	ErrWriteConfig = props.NewError("write configuration file")
	ErrFileExists  = props.NewError("file exists (use --force to overwrite)")
	ErrNoInput     = props.NewError("no input (pass text arguments or --source)")
	ErrNoComponent = props.NewError("property component not configured")
)
