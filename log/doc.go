// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// The package offers configurable time formatting, caller information,
// and output formats that are applied at logger creation time using
// functional options.
//
// # Basic Usage
//
//	logger := log.Make(os.Stdout)
//	logger.Info("application started", slog.String("version", "1.0.0"))
//	logger.Error("failed to load", slog.Any("error", err))
//
// The zero [Logger] discards all messages, which lets libraries accept a
// Logger without requiring one.
//
// # Configuration
//
// Configure the logger using functional options:
//
//	logger := log.Make(os.Stdout,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// # Package-Level Logger
//
// The functions [Trace], [Debug], [Info], [Warn], and [Error] (and their
// Context variants) write to a package-level logger, which [Config]
// reconfigures in place and [SetDefault] replaces.
//
// # Adding Attributes
//
// Attributes can be added to the logger to be included in all subsequent
// log messages using the [Logger.With] method:
//
//	logger = logger.With(slog.String("component", "loader"))
//	logger.Info("location loaded") // includes component=loader
//
// # Supported Levels
//
// The package supports five log levels: [LevelTrace], [LevelDebug],
// [LevelInfo], [LevelWarn], and [LevelError]. Messages below the configured
// level are discarded.
//
// # Output Formats
//
// Two output formats are supported: [FormatJSON] (default) and
// [FormatText]. Text output is styled with lipgloss when [WithPretty] is
// enabled and the writer is a terminal.
package log
