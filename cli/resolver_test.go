package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/aprop/props"
)

func flagNamed(name string) *kong.Flag {
	return &kong.Flag{Value: &kong.Value{Name: name}}
}

func loadConfig(t *testing.T, content string) kong.Resolver {
	t.Helper()

	r, err := resolve(t.Context())(strings.NewReader(content))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	return r
}

func TestResolve_FlagNameForms(t *testing.T) {
	r := loadConfig(t, "log-level = debug\nlog_format = text\nlog.caller = true\n")

	tests := map[string]string{
		"log-level":  "debug",
		"log-format": "text",
		"log-caller": "true",
	}

	for name, want := range tests {
		val, err := r.Resolve(nil, nil, flagNamed(name))
		if err != nil {
			t.Fatalf("Resolve(%s) failed: %v", name, err)
		}

		if val != want {
			t.Errorf("Resolve(%s) = %v, want %s", name, val, want)
		}
	}
}

func TestResolve_MissingFlagUsesDefault(t *testing.T) {
	r := loadConfig(t, "log-level = debug\n")

	val, err := r.Resolve(nil, nil, flagNamed("source"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if val != nil {
		t.Errorf("Resolve(source) = %v, want nil", val)
	}
}

func TestResolve_Placeholders(t *testing.T) {
	t.Setenv("APROP_TEST_DIR", "/srv/conf")

	props.System().Set("aprop.test.level", "warn")
	t.Cleanup(func() { props.System().Delete("aprop.test.level") })

	r := loadConfig(t, strings.Join([]string{
		"base = {{env:APROP_TEST_DIR}}",
		"classpath = {{base}}/classes",
		"log-level = {{sys:aprop.test.level}}",
		"log-format = {{undefined.key}}",
		"prefix-token = {{",
		"",
	}, "\n"))

	tests := map[string]string{
		"classpath":    "/srv/conf/classes",
		"log-level":    "warn",
		"log-format":   "{{undefined.key}}",
		"prefix-token": "{{",
	}

	for name, want := range tests {
		val, err := r.Resolve(nil, nil, flagNamed(name))
		if err != nil {
			t.Fatalf("Resolve(%s) failed: %v", name, err)
		}

		if val != want {
			t.Errorf("Resolve(%s) = %v, want %s", name, val, want)
		}
	}
}

func TestResolve_ReadError(t *testing.T) {
	r, err := resolve(t.Context())(&errorReader{err: bytes.ErrTooLarge})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	val, err := r.Resolve(nil, nil, flagNamed("log-level"))
	if err != nil || val != nil {
		t.Errorf("Resolve() = (%v, %v), want (nil, nil)", val, err)
	}
}

func TestResolve_Validate(t *testing.T) {
	if err := loadConfig(t, "").Validate(nil); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

// errorReader is a reader that always returns an error.
type errorReader struct {
	err error
}

func (e *errorReader) Read([]byte) (int, error) {
	return 0, e.err
}
