// Package cmd implements the aprop subcommands: resolve, list, repl and
// init.
//
// Commands receive their [props.Component] and the parsed [kong.Context]
// through the context passed to Run.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file written by init.
	ConfigIdentifier = "config"
)
