package props

import (
	"os"
	"slices"
	"strings"
	"sync"
)

// Lookup retrieves named values from an external provider such as the
// process environment or the system-property store.
type Lookup interface {
	Lookup(key string) (string, bool)
}

// LookupFunc adapts an ordinary function to the [Lookup] interface.
type LookupFunc func(key string) (string, bool)

// Lookup implements [Lookup].
func (f LookupFunc) Lookup(key string) (string, bool) { return f(key) }

// MapLookup returns a [Lookup] over a fixed map.
func MapLookup(m map[string]string) Lookup {
	return LookupFunc(func(key string) (string, bool) {
		v, ok := m[key]

		return v, ok
	})
}

// Environment returns a [Lookup] over the process environment.
func Environment() Lookup { return LookupFunc(os.LookupEnv) }

func lookup(l Lookup, key string) (string, bool) {
	if l == nil {
		return "", false
	}

	return l.Lookup(key)
}

// envName replaces the characters that cannot appear in portable
// environment variable names.
var envName = strings.NewReplacer(".", "_", "-", "_")

// lookupEnv resolves key as an environment variable: first the upper-cased
// key, then the upper-cased key with '.' and '-' replaced by '_'.
func lookupEnv(env Lookup, key string) (string, bool) {
	upper := strings.ToUpper(key)

	if v, ok := lookup(env, upper); ok {
		return v, true
	}

	if alt := envName.Replace(upper); alt != upper {
		return lookup(env, alt)
	}

	return "", false
}

// SystemProperties is a concurrency-safe in-process property store,
// consulted by placeholders according to the system-properties [Mode] and by
// the "sys" function.
type SystemProperties struct {
	m sync.Map
}

// NewSystemProperties returns an empty store.
func NewSystemProperties() *SystemProperties { return &SystemProperties{} }

// system is the process-wide store returned by [System].
var system = NewSystemProperties()

// System returns the process-wide system-property store.
func System() *SystemProperties { return system }

// Lookup implements [Lookup].
func (s *SystemProperties) Lookup(key string) (string, bool) {
	if s == nil {
		return "", false
	}

	v, ok := s.m.Load(key)
	if !ok {
		return "", false
	}

	str, ok := v.(string)

	return str, ok
}

// Set stores value for key.
func (s *SystemProperties) Set(key, value string) { s.m.Store(key, value) }

// Delete removes key.
func (s *SystemProperties) Delete(key string) { s.m.Delete(key) }

// Clear removes all keys.
func (s *SystemProperties) Clear() { s.m.Clear() }

// Keys returns the stored keys in sorted order.
func (s *SystemProperties) Keys() []string {
	var keys []string

	s.m.Range(func(k, _ any) bool {
		if key, ok := k.(string); ok {
			keys = append(keys, key)
		}

		return true
	})

	slices.Sort(keys)

	return keys
}
