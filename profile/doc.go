// Package profile starts an optional [github.com/pkg/profile] session.
//
// Profiling is compiled in only with the pprof build tag:
//
//	go build -tags pprof .
//
// Without the tag, [Modes] is empty, [Enabled] is false and every
// [Profiler] is a no-op.
//
// # Modes
//
//   - allocs, heap, mem: memory allocation profiles
//   - block, mutex: synchronization contention
//   - clock: wall-clock time, including time spent blocked
//   - cpu: CPU time
//   - goroutine, thread: goroutine and thread creation stacks
//   - trace: execution trace, with high overhead
//
// # Usage
//
//	p := profile.Profiler{Mode: "cpu", Path: dir, Quiet: true}.Start()
//	defer p.Stop()
//
// The aprop command exposes the same settings as --pprof-mode and
// --pprof-dir. Profiles are written to Path as <mode>.pprof (trace.out for
// trace) and can be inspected with:
//
//	go tool pprof -http=:8080 aprop cpu.pprof
//	go tool trace trace.out
package profile
