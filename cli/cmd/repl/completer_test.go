package repl

import (
	"slices"
	"testing"

	"github.com/ardnew/aprop/log"
	"github.com/ardnew/aprop/props"
)

func TestKeyBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
		wantOK    bool
	}{
		{"bare_key", "db.ho", 5, "db.ho", 0, 5, true},
		{"bare_after_space", "a db.ho", 7, "db.ho", 2, 7, true},
		{"open_placeholder", "x {{db.ho", 9, "db.ho", 4, 9, true},
		{"empty_after_prefix", "x {{", 4, "", 4, 4, true},
		{"mid_word_before_suffix", "{{db.host}}", 5, "db.host", 2, 9, true},
		{"hyphenated", "{{log-le", 8, "log-le", 2, 8, true},
		{"nested", "{{expr:{{n", 10, "n", 9, 10, true},
		{"closed_placeholder", "{{a}} b", 7, "", 7, 7, false},
		{"after_function", "{{env:HO", 8, "", 8, 8, false},
		{"after_default", "{{a:de", 6, "", 6, 6, false},
		{"cursor_past_end", "{{ab", 99, "ab", 2, 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end, ok := keyBounds(tt.input, tt.cursor, "{{", "}}")
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd || ok != tt.wantOK {
				t.Errorf("keyBounds(%q, %d) = (%q, %d, %d, %v), want (%q, %d, %d, %v)",
					tt.input, tt.cursor, word, start, end, ok,
					tt.wantWord, tt.wantStart, tt.wantEnd, tt.wantOK)
			}
		})
	}
}

func TestKeyBounds_CustomTokens(t *testing.T) {
	word, start, end, ok := keyBounds("url=${db.ho}", 11, "${", "}")
	if !ok || word != "db.ho" || start != 6 || end != 11 {
		t.Errorf("keyBounds() = (%q, %d, %d, %v)", word, start, end, ok)
	}
}

func TestWordBounds(t *testing.T) {
	tests := []struct {
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"li", 2, "li", 0, 2},
		{"list db", 7, "db", 5, 7},
		{"list db", 2, "list", 0, 4},
		{"list ", 5, "", 5, 5},
	}

	for _, tt := range tests {
		word, start, end := wordBounds(tt.input, tt.cursor)
		if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
			t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
				tt.input, tt.cursor, word, start, end,
				tt.wantWord, tt.wantStart, tt.wantEnd)
		}
	}
}

func TestPlaceholderName(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"{{env:HO", "env", true},
		{"x {{port:80", "port", true},
		{"{{port", "", false},
		{"{{env:HOME}}", "", false},
		{"plain", "", false},
	}

	for _, tt := range tests {
		got, ok := placeholderName(tt.input, len(tt.input), "{{", "}}")
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("placeholderName(%q) = (%q, %v), want (%q, %v)",
				tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestPlaceholderHint(t *testing.T) {
	isFunction := func(name string) bool { return name == "env" || name == "custom" }

	if got := placeholderHint("env", isFunction); got != functionUsage["env"] {
		t.Errorf("env hint = %q", got)
	}

	if got := placeholderHint("custom", isFunction); got != "custom:REMAINDER" {
		t.Errorf("custom hint = %q", got)
	}

	if got := placeholderHint("port", isFunction); got != "port:DEFAULT  (used when port is not found)" {
		t.Errorf("port hint = %q", got)
	}
}

func TestFormatPreview(t *testing.T) {
	if got := formatPreview("a\n  b"); got != "a b" {
		t.Errorf("formatPreview() = %q", got)
	}

	long := "0123456789012345678901234567890123456789012345"

	got := formatPreview(long)
	if want := long[:37] + "..."; got != want {
		t.Errorf("formatPreview() = %q, want %q", got, want)
	}
}

func testModel(t *testing.T, kv ...string) model {
	t.Helper()

	c, err := props.New(
		props.WithInitialProperties(props.PropertiesFrom(kv...)),
		props.WithEnvironment(props.MapLookup(nil)),
		props.WithSystemProperties(props.NewSystemProperties()),
	)
	if err != nil {
		t.Fatal(err)
	}

	keys, err := loadKeys(t.Context(), c)
	if err != nil {
		t.Fatal(err)
	}

	return newModel(t.Context(), c, keys, NewHistory(""), log.Logger{})
}

func TestComputeMatches(t *testing.T) {
	m := testModel(t, "db.host", "localhost", "db.port", "5432", "name", "app")

	tests := []struct {
		name  string
		mode  inputMode
		input string
		want  []string
	}{
		{"bare_key", modeResolve, "dbho", []string{"db.host"}},
		{"in_placeholder", modeResolve, "x {{dbpo", []string{"db.port"}},
		{"function", modeResolve, "{{pathpre", nil},
		{"builtin_function", modeResolve, "{{servicehost", []string{"service.host:"}},
		{"after_function", modeResolve, "{{env:db", nil},
		{"blank_bare", modeResolve, "", nil},
		{"ctrl", modeCtrl, "rel", []string{"reload"}},
		{"ctrl_argument", modeCtrl, "list rel", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.mode = tt.mode
			m.input.SetValue(tt.input)
			m.input.SetCursor(len(tt.input))

			matches, _, _, _ := m.computeMatches()

			var got []string
			for _, match := range matches {
				got = append(got, match.Str)
			}

			if !slices.Equal(got, tt.want) {
				t.Errorf("matches = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeMatches_BrowseAfterPrefix(t *testing.T) {
	m := testModel(t, "a", "1", "b", "2")

	m.input.SetValue("{{")
	m.input.SetCursor(2)

	matches, candidates, start, end := m.computeMatches()
	if len(matches) != len(candidates) || start != 2 || end != 2 {
		t.Fatalf("got %d matches of %d candidates at [%d,%d)",
			len(matches), len(candidates), start, end)
	}

	if matches[0].Str != "a" || matches[1].Str != "b" {
		t.Errorf("property keys must be listed first: %v", matches[:2])
	}
}
