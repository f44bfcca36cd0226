package log

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestPrettyHandler_PlainWithoutColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	logger := Make(&buf,
		WithFormat(FormatText),
		WithPretty(true),
		WithTimeLayout("none"))

	logger.Info("resolved", slog.String("key", "a"), slog.Int("n", 3))

	got := strings.TrimSpace(buf.String())
	if want := "INFO resolved key=a n=3"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrettyHandler_AttrsAndGroups(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	logger := Make(&buf,
		WithFormat(FormatText),
		WithPretty(true),
		WithTimeLayout("none"))

	logger.
		With(slog.String("component", "props")).
		WithGroup("cache").
		Warn("miss",
			slog.Bool("hit", false),
			slog.Group("key", slog.String("kind", "file")),
			slog.Any("err", errors.New("boom")))

	got := strings.TrimSpace(buf.String())
	want := "WARN miss component=props cache.hit=false cache.key.kind=file cache.err=boom"

	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrettyHandler_DisabledBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithFormat(FormatText), WithLevel(LevelWarn))

	logger.Info("hidden")
	logger.Trace("hidden")

	if buf.Len() != 0 {
		t.Errorf("expected no output, got: %s", buf.String())
	}
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelTrace, "trace"},
		{LevelDebug, "debug"},
		{LevelError, "error"},
		{LevelTrace + 1, "trace1"},
		{LevelInfo + 2, "info+2"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", int(tt.level), got, tt.want)
		}
	}
}

func TestParseLevelAndFormat(t *testing.T) {
	if got := ParseLevel(" Trace "); got != LevelTrace {
		t.Errorf("ParseLevel(trace) = %v", got)
	}

	if got := ParseLevel("bogus"); got != DefaultLevel {
		t.Errorf("ParseLevel(bogus) = %v, want default", got)
	}

	if got := ParseFormat("TEXT"); got != FormatText {
		t.Errorf("ParseFormat(TEXT) = %v", got)
	}
}
