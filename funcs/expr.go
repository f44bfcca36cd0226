package funcs

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/aprop/log"
	"github.com/ardnew/aprop/props"
)

// ExprName is the name of the function returned by [Expr].
const ExprName = "expr"

// ExprOption configures the function returned by [Expr].
type ExprOption func(*exprFunc)

// WithEnvironment sets the lookup used by the env() helper.
func WithEnvironment(env props.Lookup) ExprOption {
	return func(f *exprFunc) { f.env = env }
}

// WithSystemProperties sets the lookup used by the sys() helper.
func WithSystemProperties(sys props.Lookup) ExprOption {
	return func(f *exprFunc) { f.sys = sys }
}

// WithVars makes the given variables available to expressions.
func WithVars(vars map[string]any) ExprOption {
	return func(f *exprFunc) {
		for k, v := range vars {
			f.vars[k] = v
		}
	}
}

// WithLogger sets the logger used to report expressions that fail.
func WithLogger(logger log.Logger) ExprOption {
	return func(f *exprFunc) { f.logger = logger }
}

type exprFunc struct {
	env    props.Lookup
	sys    props.Lookup
	vars   map[string]any
	logger log.Logger

	programs sync.Map // string -> *vm.Program
}

// Expr returns the "expr" function, which evaluates its remainder as an
// expr-lang expression and yields the result formatted as a string.
//
// Expressions may call env(name) and sys(name), which return the value of
// an environment variable or system property, or the empty string. Compiled
// programs are cached by expression source. An expression that fails to
// compile or run, or that evaluates to nil, yields no value.
func Expr(opts ...ExprOption) props.Function {
	f := &exprFunc{
		env:  props.Environment(),
		sys:  props.System(),
		vars: make(map[string]any),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}

	return props.FunctionFunc(ExprName, f.apply)
}

func (f *exprFunc) environ() map[string]any {
	env := make(map[string]any, len(f.vars)+2)

	for k, v := range f.vars {
		env[k] = v
	}

	env["env"] = func(name string) string { return get(f.env, name) }
	env["sys"] = func(name string) string { return get(f.sys, name) }

	return env
}

func (f *exprFunc) program(source string) (*vm.Program, error) {
	if p, ok := f.programs.Load(source); ok {
		if prog, ok := p.(*vm.Program); ok {
			return prog, nil
		}
	}

	prog, err := expr.Compile(source, expr.Env(f.environ()))
	if err != nil {
		return nil, err
	}

	f.programs.Store(source, prog)

	return prog, nil
}

func (f *exprFunc) apply(rem string) (string, bool) {
	source := strings.TrimSpace(rem)
	if source == "" {
		return "", false
	}

	prog, err := f.program(source)
	if err != nil {
		f.logger.Debug("expression compile failed",
			slog.String("source", source),
			slog.Any("error", err),
		)

		return "", false
	}

	out, err := expr.Run(prog, f.environ())
	if err != nil {
		f.logger.Debug("expression run failed",
			slog.String("source", source),
			slog.Any("error", err),
		)

		return "", false
	}

	if out == nil {
		return "", false
	}

	return fmt.Sprint(out), true
}

func get(l props.Lookup, name string) string {
	if l == nil {
		return ""
	}

	v, _ := l.Lookup(name)

	return v
}
