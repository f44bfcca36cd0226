package profile

// Tag is the build tag that enables profiling, and the name of the
// subdirectory profiles are written to by default.
const Tag = "pprof"

// Profiler configures a profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty Mode disables profiling.
	Mode string
	// Path is the directory profile data is written to.
	Path string
	// Quiet suppresses the profiler's own log output.
	Quiet bool
}

// Start begins profiling and returns a handle used to stop it.
//
// If the binary was built without the pprof tag, or p.Mode is empty or
// unknown, Start returns a no-op implementation.
// Both Start and Stop are always safely callable.
func (p Profiler) Start() interface{ Stop() } {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
