package props

import (
	"slices"
	"testing"
)

func TestFunctionRegistry_LastRegistrationWins(t *testing.T) {
	r := NewFunctionRegistry(
		FunctionFunc("f", func(string) (string, bool) { return "first", true }),
	)
	r.Register(FunctionFunc("f", func(string) (string, bool) { return "second", true }))

	fn, ok := r.Lookup("f")
	if !ok {
		t.Fatal("f not registered")
	}

	if v, _ := fn.Apply(""); v != "second" {
		t.Errorf("Apply() = %q, want second", v)
	}
}

func TestFunctionRegistry_CloneIsIndependent(t *testing.T) {
	r := NewFunctionRegistry(BuiltinFunctions(nil, nil)...)
	c := r.Clone()
	c.Register(FunctionFunc("extra", func(s string) (string, bool) { return s, true }))

	if r.Has("extra") {
		t.Error("original registry modified through clone")
	}

	want := []string{"env", "extra", "service", "service.host", "service.port", "sys"}
	if got := c.Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestEnvFunction(t *testing.T) {
	fn := EnvFunction(MapLookup(map[string]string{
		"exact":   "e",
		"MY_HOME": "/home",
	}))

	tests := []struct {
		rem  string
		want string
		ok   bool
	}{
		{"exact", "e", true},
		{"my.home", "/home", true},
		{"my-home", "/home", true},
		{"MY_HOME", "/home", true},
		{"missing", "", false},
		{"missing:dflt", "dflt", true},
	}

	for _, tt := range tests {
		got, ok := fn.Apply(tt.rem)
		if got != tt.want || ok != tt.ok {
			t.Errorf("env:%s = %q, %v; want %q, %v", tt.rem, got, ok, tt.want, tt.ok)
		}
	}
}

func TestServiceFunction_RequiresHostAndPort(t *testing.T) {
	fn := ServiceFunction(MapLookup(map[string]string{
		"WEB_SERVICE_HOST": "localhost",
	}))

	if _, ok := fn.Apply("web"); ok {
		t.Error("service with only a host must not resolve")
	}

	if v, ok := fn.Apply("web:localhost:80"); !ok || v != "localhost:80" {
		t.Errorf("default = %q, %v", v, ok)
	}
}
