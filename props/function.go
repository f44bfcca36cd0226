package props

import (
	"maps"
	"slices"
	"strings"
	"sync"
)

// Function is a named placeholder function. A placeholder of the form
// {{name:remainder}}, where name is a registered Function, resolves to the
// result of applying the Function to remainder.
//
// Apply reports false when it produces no value, which makes the placeholder
// unresolvable.
type Function interface {
	Name() string
	Apply(remainder string) (string, bool)
}

type function struct {
	name  string
	apply func(string) (string, bool)
}

func (f function) Name() string { return f.name }

func (f function) Apply(rem string) (string, bool) { return f.apply(rem) }

// FunctionFunc returns a [Function] with the given name backed by fn.
func FunctionFunc(name string, fn func(remainder string) (string, bool)) Function {
	return function{name: name, apply: fn}
}

// FunctionRegistry is a concurrency-safe set of functions keyed by name.
// Registering a function under an existing name replaces it.
type FunctionRegistry struct {
	fns map[string]Function
	mu  sync.RWMutex
}

// NewFunctionRegistry returns a registry holding the given functions.
func NewFunctionRegistry(fns ...Function) *FunctionRegistry {
	r := &FunctionRegistry{fns: make(map[string]Function, len(fns))}

	for _, fn := range fns {
		r.Register(fn)
	}

	return r
}

// Register adds fn, replacing any function with the same name.
func (r *FunctionRegistry) Register(fn Function) {
	if fn == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fns == nil {
		r.fns = make(map[string]Function)
	}

	r.fns[fn.Name()] = fn
}

// Lookup returns the function registered under name.
func (r *FunctionRegistry) Lookup(name string) (Function, bool) {
	if r == nil {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.fns[name]

	return fn, ok
}

// Has reports whether a function is registered under name.
func (r *FunctionRegistry) Has(name string) bool {
	_, ok := r.Lookup(name)

	return ok
}

// Names returns the registered names in sorted order.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.fns))
}

// Clone returns an independent copy of r.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	c := NewFunctionRegistry()

	if r == nil {
		return c
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	maps.Copy(c.fns, r.fns)

	return c
}

// splitDefault splits "key:default" at the first ':'.
func splitDefault(s string) (key, def string, hasDefault bool) {
	return strings.Cut(s, ":")
}

// EnvFunction returns the "env" function. Its remainder has the form
// NAME[:default]; NAME is looked up as given, then in upper-snake form.
func EnvFunction(env Lookup) Function {
	return FunctionFunc("env", func(rem string) (string, bool) {
		key, def, hasDefault := splitDefault(rem)
		key = strings.TrimSpace(key)

		if v, ok := lookup(env, key); ok {
			return v, true
		}

		if v, ok := lookupEnv(env, key); ok {
			return v, true
		}

		return def, hasDefault
	})
}

// SysFunction returns the "sys" function. Its remainder has the form
// name[:default].
func SysFunction(sys Lookup) Function {
	return FunctionFunc("sys", func(rem string) (string, bool) {
		key, def, hasDefault := splitDefault(rem)

		if v, ok := lookup(sys, strings.TrimSpace(key)); ok {
			return v, true
		}

		return def, hasDefault
	})
}

// serviceVar returns the environment variable naming the given service
// attribute, e.g. MY_APP_SERVICE_HOST for ("my-app", "HOST").
func serviceVar(name, attr string) string {
	return envName.Replace(strings.ToUpper(strings.TrimSpace(name))) +
		"_SERVICE_" + attr
}

// ServiceFunction returns the "service" function. Its remainder has the form
// NAME[:default] and resolves to "host:port" from the NAME_SERVICE_HOST and
// NAME_SERVICE_PORT environment variables, which must both be set.
func ServiceFunction(env Lookup) Function {
	return FunctionFunc("service", func(rem string) (string, bool) {
		name, def, hasDefault := splitDefault(rem)

		host, hok := lookup(env, serviceVar(name, "HOST"))
		port, pok := lookup(env, serviceVar(name, "PORT"))

		if hok && pok {
			return host + ":" + port, true
		}

		return def, hasDefault
	})
}

// ServiceHostFunction returns the "service.host" function, resolving
// NAME[:default] from the NAME_SERVICE_HOST environment variable.
func ServiceHostFunction(env Lookup) Function {
	return serviceAttrFunction("service.host", "HOST", env)
}

// ServicePortFunction returns the "service.port" function, resolving
// NAME[:default] from the NAME_SERVICE_PORT environment variable.
func ServicePortFunction(env Lookup) Function {
	return serviceAttrFunction("service.port", "PORT", env)
}

func serviceAttrFunction(fname, attr string, env Lookup) Function {
	return FunctionFunc(fname, func(rem string) (string, bool) {
		name, def, hasDefault := splitDefault(rem)

		if v, ok := lookup(env, serviceVar(name, attr)); ok {
			return v, true
		}

		return def, hasDefault
	})
}

// BuiltinFunctions returns the functions every [Component] starts with.
func BuiltinFunctions(env, sys Lookup) []Function {
	return []Function{
		EnvFunction(env),
		SysFunction(sys),
		ServiceFunction(env),
		ServiceHostFunction(env),
		ServicePortFunction(env),
	}
}
