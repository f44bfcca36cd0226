package props

import (
	"iter"
	"maps"
	"slices"

	"github.com/iancoleman/orderedmap"
)

// Properties is an ordered string-to-string map.
//
// Keys keep the position of their first insertion; setting an existing key
// replaces its value in place. A nil *Properties is a valid empty set for all
// read operations.
//
// Properties is not safe for concurrent mutation. Sets handed to the
// resolution cache are never mutated afterwards; merging always writes into a
// fresh copy.
type Properties struct {
	m *orderedmap.OrderedMap
}

// NewProperties returns an empty property set.
func NewProperties() *Properties {
	return &Properties{m: orderedmap.New()}
}

// PropertiesOf returns a property set holding the given map's entries in
// sorted key order.
func PropertiesOf(m map[string]string) *Properties {
	p := NewProperties()

	for _, k := range slices.Sorted(maps.Keys(m)) {
		p.Set(k, m[k])
	}

	return p
}

// PropertiesFrom returns a property set holding the given key/value pairs in
// order. A trailing key without a value is ignored.
func PropertiesFrom(kv ...string) *Properties {
	p := NewProperties()

	for i := 0; i+1 < len(kv); i += 2 {
		p.Set(kv[i], kv[i+1])
	}

	return p
}

func (p *Properties) init() {
	if p.m == nil {
		p.m = orderedmap.New()
	}
}

// Get returns the value stored for key.
func (p *Properties) Get(key string) (string, bool) {
	if p == nil || p.m == nil {
		return "", false
	}

	v, ok := p.m.Get(key)
	if !ok {
		return "", false
	}

	s, ok := v.(string)

	return s, ok
}

// Has reports whether key is present.
func (p *Properties) Has(key string) bool {
	_, ok := p.Get(key)

	return ok
}

// Set stores value for key.
func (p *Properties) Set(key, value string) {
	p.init()
	p.m.Set(key, value)
}

// Delete removes key.
func (p *Properties) Delete(key string) {
	if p == nil || p.m == nil {
		return
	}

	p.m.Delete(key)
}

// Len returns the number of entries.
func (p *Properties) Len() int {
	if p == nil || p.m == nil {
		return 0
	}

	return len(p.m.Keys())
}

// Keys returns the keys in insertion order.
func (p *Properties) Keys() []string {
	if p == nil || p.m == nil {
		return nil
	}

	return slices.Clone(p.m.Keys())
}

// All returns an iterator over all entries in insertion order.
func (p *Properties) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, k := range p.Keys() {
			v, _ := p.Get(k)
			if !yield(k, v) {
				return
			}
		}
	}
}

// Clone returns an independent copy of p. Cloning nil returns an empty set.
func (p *Properties) Clone() *Properties {
	c := NewProperties()
	c.Merge(p)

	return c
}

// Merge copies all entries of other into p, overwriting existing keys.
func (p *Properties) Merge(other *Properties) *Properties {
	p.init()

	for k, v := range other.All() {
		p.m.Set(k, v)
	}

	return p
}

// Map returns the entries as a plain map.
func (p *Properties) Map() map[string]string {
	m := make(map[string]string, p.Len())

	for k, v := range p.All() {
		m[k] = v
	}

	return m
}

// MarshalJSON encodes p as a JSON object preserving key order.
func (p *Properties) MarshalJSON() ([]byte, error) {
	if p == nil || p.m == nil {
		return []byte("{}"), nil
	}

	return p.m.MarshalJSON()
}
