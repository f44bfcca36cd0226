package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/magiconair/properties"
)

func initContext(t *testing.T, confPath string, cli any, args ...string) *kong.Context {
	t.Helper()

	parser, err := kong.New(cli, kong.Vars{ConfigIdentifier: confPath})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	return ktx
}

func TestInitRun(t *testing.T) {
	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{name: "create_new_config"},
		{name: "overwrite_existing_with_force", force: true, exists: true},
		{name: "fail_without_force", exists: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confPath := filepath.Join(t.TempDir(), "config.properties")

			if tt.exists {
				if err := os.WriteFile(confPath, []byte("existing=1\n"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			var cli struct {
				Location []string `sep:","`
			}

			ktx := initContext(t, confPath, &cli, "--location=a.properties,b.yaml")
			ctx := WithContext(t.Context(), ktx)

			err := (&Init{Force: tt.force}).Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Init.Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Init.Run() unexpected error = %v", err)
			}

			p, err := properties.LoadFile(confPath, properties.UTF8)
			if err != nil {
				t.Fatalf("generated config is not a valid properties file: %v", err)
			}

			if v, _ := p.Get("location"); v != "a.properties,b.yaml" {
				t.Errorf("location = %q", v)
			}

			if _, ok := p.Get("existing"); ok {
				t.Error("existing content was not replaced")
			}
		})
	}
}

func TestInitBuildProperties(t *testing.T) {
	var cli struct {
		Verbose bool              `name:"verbose"`
		Output  string            `name:"output"`
		Empty   string            `name:"empty"`
		Count   int               `name:"count"`
		Define  map[string]string `name:"define" short:"D"`
		Mode    string            `name:"pprof-mode"`
	}

	ktx := initContext(t, "unused", &cli,
		"--verbose", "--output=test.txt", "--count=5",
		"-D", "b=2", "-D", "a=1", "--pprof-mode=cpu",
	)

	p := (&Init{}).buildProperties(WithContext(t.Context(), ktx))

	want := map[string]string{
		"verbose": "true",
		"output":  "test.txt",
		"count":   "5",
		"define":  "a=1;b=2",
	}

	for k, v := range want {
		if got, _ := p.Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}

	for _, k := range []string{"empty", "help", "pprof-mode"} {
		if _, ok := p.Get(k); ok {
			t.Errorf("unexpected key %q", k)
		}
	}
}

func TestInitWithInvalidPath(t *testing.T) {
	var cli struct{}

	ktx := initContext(t, "/nonexistent/directory/config.properties", &cli)

	err := (&Init{}).Run(WithContext(t.Context(), ktx))
	if !errors.Is(err, ErrWriteConfig) {
		t.Errorf("Init.Run() error = %v, want ErrWriteConfig", err)
	}
}

func TestInitHeader(t *testing.T) {
	confPath := filepath.Join(t.TempDir(), "config.properties")

	var cli struct{}

	ktx := initContext(t, confPath, &cli)

	if err := (&Init{}).Run(WithContext(t.Context(), ktx)); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(confPath)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(string(data), "# aprop ") {
		t.Errorf("missing header comment: %q", data)
	}
}
