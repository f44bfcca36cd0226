package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/aprop/props"
)

func TestList_Formats(t *testing.T) {
	kv := []string{
		"name", "app",
		"url", "http://{{name}}:{{port:80}}",
		"path", `C:\dir`,
	}

	tests := []struct {
		output  string
		resolve bool
		want    string
	}{
		{
			output:  OutputProperties,
			resolve: true,
			want:    "name = app\nurl = http://app:80\npath = C:\\\\dir\n",
		},
		{
			output:  OutputProperties,
			resolve: false,
			want:    "name = app\nurl = http://{{name}}:{{port:80}}\npath = C:\\\\dir\n",
		},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("resolve=%v", tt.resolve), func(t *testing.T) {
			ctx, out := commandContext(t, kv...)

			l := &List{Output: tt.output, Resolve: tt.resolve}
			if err := l.Run(ctx); err != nil {
				t.Fatal(err)
			}

			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestList_JSONKeepsOrder(t *testing.T) {
	ctx, out := commandContext(t, "z", "1", "a", "{{z}}2")

	if err := (&List{Output: OutputJSON, Resolve: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	want := "{\n  \"z\": \"1\",\n  \"a\": \"12\"\n}\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}

	if !json.Valid(out.Bytes()) {
		t.Error("output is not valid JSON")
	}
}

func TestList_YAML(t *testing.T) {
	ctx, out := commandContext(t, "name", "app", "url", "http://{{name}}:{{port:80}}")

	if err := (&List{Output: OutputYAML, Resolve: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	var doc yaml.MapSlice
	if err := yaml.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("output %q: %v", out.String(), err)
	}

	want := yaml.MapSlice{
		{Key: "name", Value: "app"},
		{Key: "url", Value: "http://app:80"},
	}

	if fmt.Sprint(doc) != fmt.Sprint(want) {
		t.Errorf("document = %v, want %v", doc, want)
	}
}

func TestList_Filter(t *testing.T) {
	ctx, out := commandContext(t,
		"db.host", "localhost",
		"name", "app",
		"db.port", "5432",
	)

	if err := (&List{Filter: "db", Output: OutputProperties}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	// Load order is kept regardless of match rank.
	if want := "db.host = localhost\ndb.port = 5432\n"; out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestList_UnresolvableValue(t *testing.T) {
	ctx, _ := commandContext(t, "a", "{{missing}}")

	err := (&List{Output: OutputProperties, Resolve: true}).Run(ctx)
	if !errors.Is(err, props.ErrUnresolvablePlaceholder) {
		t.Errorf("Run() error = %v, want ErrUnresolvablePlaceholder", err)
	}
}
