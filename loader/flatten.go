package loader

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/iancoleman/orderedmap"

	"github.com/ardnew/aprop/props"
)

// flatten stores the leaves of a decoded document in p. Nested mappings
// produce dotted keys ("a.b") and sequences produce indexed keys ("a[0]").
// Mappings that preserve document order keep that order; plain Go maps are
// visited in sorted key order.
func flatten(p *props.Properties, key string, v any) {
	switch v := v.(type) {
	case yaml.MapSlice:
		for _, item := range v {
			flatten(p, join(key, fmt.Sprint(item.Key)), item.Value)
		}

	case orderedmap.OrderedMap:
		flattenOrdered(p, key, &v)

	case *orderedmap.OrderedMap:
		flattenOrdered(p, key, v)

	case map[string]any:
		for _, k := range slices.Sorted(maps.Keys(v)) {
			flatten(p, join(key, k), v[k])
		}

	case []any:
		for i, e := range v {
			flatten(p, key+"["+strconv.Itoa(i)+"]", e)
		}

	case []map[string]any:
		for i, e := range v {
			flatten(p, key+"["+strconv.Itoa(i)+"]", e)
		}

	default:
		p.Set(key, scalar(v))
	}
}

func flattenOrdered(p *props.Properties, key string, m *orderedmap.OrderedMap) {
	for _, k := range m.Keys() {
		e, _ := m.Get(k)
		flatten(p, join(key, k), e)
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}

	return prefix + "." + key
}

// scalar formats a decoded leaf value as a property value.
func scalar(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
