package props

import (
	"errors"
	"testing"
)

// testParser returns a parser isolated from the process environment.
func testParser(env, sys map[string]string) *Parser {
	p := NewParser()
	p.Env = MapLookup(env)
	p.Sys = MapLookup(sys)
	p.Functions = NewFunctionRegistry(BuiltinFunctions(p.Env, p.Sys)...)

	return p
}

func TestParser_Parse(t *testing.T) {
	props := PropertiesFrom(
		"greeting", "hello",
		"name", "world",
		"message", "{{greeting}}, {{name}}!",
		"ptr", "name",
		"cool.end", "mock:result",
		"myapp.cool.end", "mock:augmented",
	)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single", "{{greeting}}", "hello"},
		{"embedded", "say {{greeting}} to {{name}}", "say hello to world"},
		{"bare_key", "greeting", "hello"},
		{"missing_prefix", "greeting}}", "hello"},
		{"missing_suffix", "{{greeting", "hello"},
		{"nested_value", "{{message}}", "hello, world!"},
		{"nested_key", "{{{{ptr}}}}", "world"},
		{"default_unused", "{{greeting:hi}}", "hello"},
		{"default_used", "{{missing:fallback}}", "fallback"},
		{"default_empty", "{{missing:}}", ""},
		{"default_with_colon", "{{missing:a:b}}", "a:b"},
		{"literal_colon_value", "{{cool.end}}", "mock:result"},
		{"env_function", "{{env:HOME}}", "/home/test"},
		{"env_function_default", "{{env:NOPE:none}}", "none"},
		{"sys_function", "{{sys:user.name}}", "tester"},
	}

	p := testParser(
		map[string]string{"HOME": "/home/test"},
		map[string]string{"user.name": "tester"},
	)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(t.Context(), tt.in, props)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.in, err)
			}

			if got != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParser_Unresolvable(t *testing.T) {
	p := testParser(nil, nil)

	for _, in := range []string{
		"{{missing}}",
		"ok {{missing}} ok",
		"{{env:NOPE}}",
		"{{sys:nope}}",
	} {
		_, err := p.Parse(t.Context(), in, PropertiesFrom("ok", "yes"))
		if !errors.Is(err, ErrUnresolvablePlaceholder) {
			t.Errorf("Parse(%q) error = %v, want ErrUnresolvablePlaceholder", in, err)
		}
	}
}

func TestParser_DefaultFallbackDisabled(t *testing.T) {
	p := testParser(nil, nil)
	p.DefaultFallback = false

	_, err := p.Parse(t.Context(), "{{missing:fallback}}", nil)
	if !errors.Is(err, ErrUnresolvablePlaceholder) {
		t.Fatalf("expected ErrUnresolvablePlaceholder, got %v", err)
	}
}

func TestParser_Circular(t *testing.T) {
	p := testParser(nil, nil)

	tests := []struct {
		name  string
		props *Properties
	}{
		{"self", PropertiesFrom("a", "{{a}}")},
		{"cycle", PropertiesFrom("a", "{{b}}", "b", "{{a}}")},
		{"growing", PropertiesFrom("a", "x{{a}}")},
		{"doubling", PropertiesFrom("a", "{{a}}{{a}}")},
		{"doubling_cycle", PropertiesFrom("a", "{{b}}", "b", "{{a}}-{{a}}")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse(t.Context(), "{{a}}", tt.props)
			if !errors.Is(err, ErrCircularReference) {
				t.Errorf("expected ErrCircularReference, got %v", err)
			}
		})
	}
}

func TestParser_RepeatedKeyIsNotCircular(t *testing.T) {
	p := testParser(nil, nil)

	props := PropertiesFrom(
		"x", "1",
		"b", "{{x}}{{x}}",
		"a", "{{x}}-{{b}}-{{b}}",
	)

	got, err := p.Parse(t.Context(), "{{a}}", props)
	if err != nil || got != "1-11-11" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestParser_FunctionIgnoresShadowingKey(t *testing.T) {
	props := PropertiesFrom(
		"env:HOME", "shadow",
		"sys:user.name", "shadow",
	)

	p := testParser(
		map[string]string{"HOME": "/home/test"},
		map[string]string{"user.name": "tester"},
	)

	for in, want := range map[string]string{
		"{{env:HOME}}":      "/home/test",
		"{{sys:user.name}}": "tester",
	} {
		got, err := p.Parse(t.Context(), in, props)
		if err != nil || got != want {
			t.Errorf("Parse(%q) = %q, %v, want %q", in, got, err, want)
		}
	}
}

func TestParser_Malformed(t *testing.T) {
	p := testParser(nil, nil)

	_, err := p.Parse(t.Context(), "{{a}} {{b", PropertiesFrom("a", "1", "b", "2"))
	if !errors.Is(err, ErrMalformedPlaceholder) {
		t.Fatalf("expected ErrMalformedPlaceholder, got %v", err)
	}
}

func TestParser_Augmentation(t *testing.T) {
	props := PropertiesFrom(
		"cool.end", "bare",
		"myapp.cool.end", "augmented",
		"only.bare", "bare-only",
	)

	p := testParser(nil, nil)
	p.PropertyPrefix = "myapp."

	got, err := p.Parse(t.Context(), "{{cool.end}}", props)
	if err != nil || got != "augmented" {
		t.Errorf("augmented lookup = %q, %v", got, err)
	}

	got, err = p.Parse(t.Context(), "{{only.bare}}", props)
	if err != nil || got != "bare-only" {
		t.Errorf("fallback lookup = %q, %v", got, err)
	}

	p.FallbackToUnaugmented = false

	_, err = p.Parse(t.Context(), "{{only.bare}}", props)
	if !errors.Is(err, ErrUnresolvablePlaceholder) {
		t.Errorf("expected ErrUnresolvablePlaceholder without fallback, got %v", err)
	}

	p.PropertyPrefix = ""
	p.PropertySuffix = ".dev"

	_, err = p.Parse(t.Context(), "{{cool}}", PropertiesFrom("cool.dev", "suffixed"))
	if err != nil {
		t.Errorf("suffix augmentation: %v", err)
	}
}

func TestParser_Modes(t *testing.T) {
	props := PropertiesFrom("db.host", "from-props", "only.props", "props")
	env := map[string]string{"DB_HOST": "from-env", "ONLY_ENV": "env"}
	sys := map[string]string{"db.host": "from-sys", "only.sys": "sys"}

	tests := []struct {
		name    string
		sysMode Mode
		envMode Mode
		key     string
		want    string
	}{
		{"sys_override_wins", ModeOverride, ModeOverride, "db.host", "from-sys"},
		{"env_override_wins", ModeNever, ModeOverride, "db.host", "from-env"},
		{"props_over_fallback", ModeFallback, ModeFallback, "db.host", "from-props"},
		{"props_when_never", ModeNever, ModeNever, "db.host", "from-props"},
		{"sys_fallback", ModeFallback, ModeNever, "only.sys", "sys"},
		{"env_fallback", ModeNever, ModeFallback, "only.env", "env"},
		{"props_only", ModeOverride, ModeOverride, "only.props", "props"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testParser(env, sys)
			p.SystemMode = tt.sysMode
			p.EnvMode = tt.envMode

			got, err := p.Parse(t.Context(), "{{"+tt.key+"}}", props)
			if err != nil {
				t.Fatal(err)
			}

			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("never_is_unresolvable", func(t *testing.T) {
		p := testParser(env, sys)
		p.SystemMode = ModeNever
		p.EnvMode = ModeNever

		_, err := p.Parse(t.Context(), "{{only.env}}", props)
		if !errors.Is(err, ErrUnresolvablePlaceholder) {
			t.Errorf("expected ErrUnresolvablePlaceholder, got %v", err)
		}
	})
}

func TestParser_CustomTokens(t *testing.T) {
	p := testParser(nil, nil)
	p.PrefixToken = "${"
	p.SuffixToken = "}"

	got, err := p.Parse(t.Context(), "x=${a} y=${b:2}", PropertiesFrom("a", "1"))
	if err != nil {
		t.Fatal(err)
	}

	if got != "x=1 y=2" {
		t.Errorf("got %q", got)
	}
}

func TestParser_FunctionWithoutValue(t *testing.T) {
	p := testParser(nil, nil)
	p.Functions.Register(FunctionFunc("nothing", func(string) (string, bool) {
		return "", false
	}))

	_, err := p.Parse(t.Context(), "{{nothing:x}}", nil)
	if !errors.Is(err, ErrUnresolvablePlaceholder) {
		t.Fatalf("expected ErrUnresolvablePlaceholder, got %v", err)
	}
}

func TestParser_MaxDepth(t *testing.T) {
	p := testParser(nil, nil)
	p.MaxDepth = 2

	props := PropertiesFrom("a", "{{b}}", "b", "{{c}}", "c", "done")

	_, err := p.Parse(t.Context(), "{{a}}", props)
	if !errors.Is(err, ErrCircularReference) {
		t.Fatalf("expected ErrCircularReference, got %v", err)
	}

	p.MaxDepth = 3

	got, err := p.Parse(t.Context(), "{{a}}", props)
	if err != nil || got != "done" {
		t.Fatalf("got %q, %v", got, err)
	}
}
