// Package cli contains the command line interface for aprop.
//
// # Usage
//
// Without a command, each argument is resolved and printed on its own line.
// An argument containing a placeholder is resolved as text, any other
// argument is taken as a property key:
//
//	aprop -l file:app.properties 'jdbc://{{db.host}}:{{db.port:5432}}' db.user
//
// Without arguments, the files given with --source (or stdin with "-") are
// resolved as a single template.
//
// # Commands
//
//   - resolve: resolve keys or text (the default command)
//   - list: print the merged property set as properties, JSON or YAML
//   - repl: resolve placeholders interactively with completion and history
//   - init: write the current flag values to the configuration file
//
// # Property Options
//
//   - --location (-l): property locations, "[kind:]path[;optional=true]",
//     where kind is classpath, file or ref
//   - --classpath: directories searched for classpath locations
//   - --define (-D): set a system property, also loadable as "ref:define"
//   - --initial, --override: lowest and highest precedence properties
//   - --system-mode, --env-mode: never, fallback or override
//   - --prefix-token, --suffix-token: placeholder delimiters
//   - --property-prefix, --property-suffix: key augmentation
//
// # Configuration File
//
// Flag defaults are read from config.properties in the configuration
// directory (see [pkg.ConfigDir]). Its values may contain placeholders.
// A config.json file in the same directory is also read, using kong's
// JSON loader.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize output on a terminal
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o aprop .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory
package cli
