package props

import (
	"errors"
	"testing"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Location
	}{
		{"bare", "app.properties", Location{Kind: KindClasspath, Path: "app.properties"}},
		{"classpath", "classpath:app.properties", Location{Kind: KindClasspath, Path: "app.properties"}},
		{"file", "file:/etc/app.properties", Location{Kind: KindFile, Path: "/etc/app.properties"}},
		{"ref", "ref:defaults", Location{Kind: KindRef, Path: "defaults"}},
		{"optional", "file:x.properties;optional=true", Location{Kind: KindFile, Path: "x.properties", Optional: true}},
		{"other_attr", "file:x.properties;optional=false", Location{Kind: KindFile, Path: "x.properties"}},
		{"trimmed", "  file:x.properties ; optional=true  ", Location{Kind: KindFile, Path: "x.properties", Optional: true}},
		{"empty", "", Location{Kind: KindBlank}},
		{"blank", "   ", Location{Kind: KindBlank}},
		{"colon_in_path", "file:a:b", Location{Kind: KindFile, Path: "a:b"}},
		{"optional_any_case", "file:x.properties;Optional=TRUE", Location{Kind: KindFile, Path: "x.properties", Optional: true}},
		{"env_token", "${env:HOME}/app.properties", Location{Kind: KindClasspath, Path: "${env:HOME}/app.properties"}},
		{"env_token_with_kind", "file:${env:HOME}/app.properties", Location{Kind: KindFile, Path: "${env:HOME}/app.properties"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLocation(tt.in)
			if err != nil {
				t.Fatalf("ParseLocation(%q) error: %v", tt.in, err)
			}

			if got != tt.want {
				t.Errorf("ParseLocation(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseLocation_UnknownKind(t *testing.T) {
	_, err := ParseLocation("http://example.com/app.properties")
	if !errors.Is(err, ErrInvalidLocation) {
		t.Fatalf("expected ErrInvalidLocation, got %v", err)
	}
}

func TestParseLocations_CommaSeparated(t *testing.T) {
	locs, err := ParseLocations("a.properties, file:b.properties;optional=true", "ref:c")
	if err != nil {
		t.Fatal(err)
	}

	want := []Location{
		{Kind: KindClasspath, Path: "a.properties"},
		{Kind: KindFile, Path: "b.properties", Optional: true},
		{Kind: KindRef, Path: "c"},
	}

	if len(locs) != len(want) {
		t.Fatalf("got %d locations, want %d", len(locs), len(want))
	}

	for i := range want {
		if locs[i] != want[i] {
			t.Errorf("location %d = %+v, want %+v", i, locs[i], want[i])
		}
	}
}

func TestLocation_StringRoundTrip(t *testing.T) {
	for _, in := range []string{
		"classpath:a.properties",
		"file:/tmp/b.yaml;optional=true",
		"ref:defaults",
	} {
		loc, err := ParseLocation(in)
		if err != nil {
			t.Fatal(err)
		}

		if loc.String() != in {
			t.Errorf("String() = %q, want %q", loc.String(), in)
		}
	}
}

func TestKeyOf_OrderSensitive(t *testing.T) {
	a := Location{Kind: KindFile, Path: "a"}
	b := Location{Kind: KindFile, Path: "b"}

	if KeyOf([]Location{a, b}) == KeyOf([]Location{b, a}) {
		t.Error("permuted location lists must have distinct keys")
	}

	if KeyOf([]Location{a, b}) != KeyOf([]Location{a, b}) {
		t.Error("equal location lists must have equal keys")
	}

	// Paths containing separators must not collide.
	x := []Location{{Kind: KindFile, Path: "a,file:b"}}
	y := []Location{{Kind: KindFile, Path: "a"}, {Kind: KindFile, Path: "b"}}

	if KeyOf(x) == KeyOf(y) {
		t.Error("distinct location lists must have distinct keys")
	}

	opt := b
	opt.Optional = true

	if KeyOf([]Location{opt}) == KeyOf([]Location{b}) {
		t.Error("optional flag must be part of the key")
	}
}
