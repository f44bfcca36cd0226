package log

import (
	"bytes"
	"log/slog"
	"testing"
	"time"
)

func TestConfig_Options(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want func(config) bool
	}{
		{
			name: "defaults",
			want: func(c config) bool {
				return c.level == DefaultLevel && c.format == DefaultFormat &&
					c.caller == DefaultCaller && c.pretty == DefaultPretty
			},
		},
		{
			name: "level",
			opts: []Option{WithLevel(LevelTrace)},
			want: func(c config) bool { return c.level == LevelTrace },
		},
		{
			name: "last_wins",
			opts: []Option{WithFormat(FormatText), WithFormat(FormatJSON)},
			want: func(c config) bool { return c.format == FormatJSON },
		},
		{
			name: "caller_and_pretty",
			opts: []Option{WithCaller(true), WithPretty(false)},
			want: func(c config) bool { return c.caller && !c.pretty },
		},
		{
			name: "nil_output_discards",
			opts: []Option{WithOutput(nil)},
			want: func(c config) bool { return c.output != nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if c := makeConfig(nil, tt.opts...); !tt.want(c) {
				t.Errorf("unexpected config %+v", c)
			}
		})
	}
}

func TestConfig_Clone_KeepsOriginal(t *testing.T) {
	orig := makeConfig(nil, WithLevel(LevelWarn))
	clone := orig.clone(WithLevel(LevelDebug))

	if orig.level != LevelWarn || clone.level != LevelDebug {
		t.Errorf("levels = (%v, %v), want (warn, debug)", orig.level, clone.level)
	}

	if orig.mutex == clone.mutex {
		t.Error("clone shares the original lock")
	}
}

func TestConfig_FormatTime(t *testing.T) {
	now := time.Date(2023, 10, 15, 14, 30, 45, 123456789, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2023-10-15T14:30:45Z"},
		{"rfc-3339-nano", "2023-10-15T14:30:45.123456789Z"},
		{"ms", "Oct 15 14:30:45.123"},
		{"2006-01-02 15:04", "2023-10-15 14:30"},
		{"none", ""},
		{"", ""},
		{" \t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			c := WithTimeLayout(tt.layout)(config{})
			if got := c.formatTime(now); got != tt.want {
				t.Errorf("formatTime() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfig_Handler(t *testing.T) {
	var buf bytes.Buffer

	tests := []struct {
		name string
		opts []Option
		want string
	}{
		{"json", []Option{WithFormat(FormatJSON)}, "*slog.JSONHandler"},
		{"text", []Option{WithFormat(FormatText), WithPretty(false)}, "*slog.TextHandler"},
		{"pretty", []Option{WithFormat(FormatText), WithPretty(true)}, "*log.prettyHandler"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := makeConfig(&buf, tt.opts...).handler()
			if got := typeName(h); got != tt.want {
				t.Errorf("handler() = %s, want %s", got, tt.want)
			}
		})
	}
}

func typeName(h slog.Handler) string {
	switch h.(type) {
	case *slog.JSONHandler:
		return "*slog.JSONHandler"
	case *slog.TextHandler:
		return "*slog.TextHandler"
	case *prettyHandler:
		return "*log.prettyHandler"
	default:
		return "unknown"
	}
}

func BenchmarkConfig_FormatTime(b *testing.B) {
	for _, layout := range []string{"RFC3339", "RFC3339Nano"} {
		b.Run(layout, func(b *testing.B) {
			c := WithTimeLayout(layout)(config{})
			now := time.Now()

			for b.Loop() {
				_ = c.formatTime(now)
			}
		})
	}
}
