//go:build !pprof

package profile

// Enabled reports whether profiling support was compiled in.
const Enabled = false

// Modes returns nil when built without the pprof tag.
func Modes() []string { return nil }

func start(Profiler) interface{ Stop() } { return ignore{} }
