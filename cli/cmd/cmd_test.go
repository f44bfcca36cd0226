package cmd

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
)

// writeFiles creates the named files in a temporary directory and returns
// their paths in the same order.
func writeFiles(t *testing.T, content ...string) (string, []string) {
	t.Helper()

	dir := t.TempDir()
	paths := make([]string, len(content))

	for i, c := range content {
		paths[i] = filepath.Join(dir, "file"+string(rune('a'+i))+".txt")
		if err := os.WriteFile(paths[i], []byte(c), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	return dir, paths
}

func readSources(t *testing.T, sources []string) (string, bool) {
	t.Helper()

	src := sourceFilesFrom(WithSourceFiles(t.Context(), sources))
	if src == nil {
		return "", false
	}

	var buf bytes.Buffer
	if _, err := src.WriteTo(&buf); err != nil {
		t.Fatalf("reading source files: %v", err)
	}

	return buf.String(), true
}

func TestWithSourceFiles(t *testing.T) {
	dir, paths := writeFiles(t, "first", "second")

	link := filepath.Join(dir, "link.txt")
	if err := os.Symlink(paths[0], link); err != nil {
		t.Fatal(err)
	}

	t.Chdir(dir)

	missing := filepath.Join(dir, "missing.txt")

	tests := []struct {
		name    string
		sources []string
		want    string
		wantOK  bool
	}{
		{"nil", nil, "", false},
		{"empty", []string{}, "", false},
		{"single", paths[:1], "first", true},
		{"ordered", []string{paths[1], paths[0]}, "secondfirst", true},
		{"duplicate_path", []string{paths[0], paths[0], paths[1]}, "firstsecond", true},
		{"relative_and_absolute", []string{"filea.txt", paths[0]}, "first", true},
		{"symlink", []string{link, paths[0]}, "first", true},
		{"skips_missing", []string{missing, paths[1]}, "second", true},
		{"all_missing", []string{missing}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := readSources(t, tt.sources)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("sources %v = (%q, %v), want (%q, %v)",
					tt.sources, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

// pipeStdin replaces os.Stdin with a pipe carrying content for the duration
// of the test.
func pipeStdin(t *testing.T, content string) {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	saved := os.Stdin
	os.Stdin = r

	t.Cleanup(func() {
		os.Stdin = saved
		_ = r.Close()
	})

	go func() {
		defer w.Close()

		_, _ = io.WriteString(w, content)
	}()
}

func TestWithSourceFiles_StdinReadLastOnce(t *testing.T) {
	_, paths := writeFiles(t, "file")

	pipeStdin(t, "stdin")

	src := sourceFilesFrom(WithSourceFiles(t.Context(), []string{"-", paths[0], "-"}))
	if src == nil || src.IsZero() || src.Stdin() == nil {
		t.Fatal("stdin source not recorded")
	}

	data, err := io.ReadAll(src)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "filestdin" {
		t.Errorf("got %q, want %q", data, "filestdin")
	}
}

func TestContextValues(t *testing.T) {
	if _, err := componentFrom(t.Context()); !errors.Is(err, ErrNoComponent) {
		t.Errorf("componentFrom() error = %v, want ErrNoComponent", err)
	}

	if w := stdout(t.Context()); w != os.Stdout {
		t.Error("stdout() without a kong context is not os.Stdout")
	}

	var cli struct{}

	var buf bytes.Buffer

	parser, err := kong.New(&cli, kong.Writers(&buf, &buf), kong.Vars{ConfigIdentifier: "/etc/aprop"})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx := WithContext(t.Context(), ktx)

	if v, ok := varFrom(ctx, ConfigIdentifier); !ok || v != "/etc/aprop" {
		t.Errorf("varFrom() = (%q, %v)", v, ok)
	}

	if _, ok := varFrom(ctx, "undefined"); ok {
		t.Error("varFrom() found an undefined variable")
	}

	if stdout(ctx) != &buf {
		t.Error("stdout() does not use the kong writer")
	}
}
