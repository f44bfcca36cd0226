package props

import (
	"log/slog"
	"strconv"
	"strings"
)

// Mode selects when system properties or environment variables are
// consulted relative to the loaded property set.
type Mode int

const (
	ModeNever    Mode = iota // never
	ModeFallback             // fallback
	ModeOverride             // override
)

// Default modes for system properties and environment variables.
const (
	DefaultSystemPropertiesMode    = ModeOverride
	DefaultEnvironmentVariableMode = ModeOverride
)

// String returns the lowercase name of m.
func (m Mode) String() string {
	switch m {
	case ModeNever:
		return "never"
	case ModeFallback:
		return "fallback"
	case ModeOverride:
		return "override"
	default:
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool { return m >= ModeNever && m <= ModeOverride }

// Modes returns the names of all defined modes.
func Modes() []string {
	return []string{
		ModeNever.String(),
		ModeFallback.String(),
		ModeOverride.String(),
	}
}

// ParseMode parses a mode name or its numeric value.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	for _, m := range []Mode{ModeNever, ModeFallback, ModeOverride} {
		if s == m.String() || s == strconv.Itoa(int(m)) {
			return m, nil
		}
	}

	return 0, ErrInvalidConfiguration.With(slog.String("mode", s))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	v, err := ParseMode(string(text))
	if err != nil {
		return err
	}

	*m = v

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func validateMode(name string, m Mode) error {
	if m.Valid() {
		return nil
	}

	return ErrInvalidConfiguration.With(
		slog.String("option", name),
		slog.Int("mode", int(m)),
	)
}
