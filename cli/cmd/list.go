package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/magiconair/properties"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/aprop/props"
)

// Output formats supported by list.
const (
	OutputProperties = "properties"
	OutputJSON       = "json"
	OutputYAML       = "yaml"
)

// List prints the merged property set of the configured locations.
type List struct {
	Filter  string `arg:"" help:"Only list keys fuzzily matching filter" optional:""`
	Output  string `       help:"Output format"                          default:"properties" enum:"properties,json,yaml" short:"o"`
	Resolve bool   `       help:"Resolve placeholders in values"         default:"true"                                    negatable:"" short:"r"`
}

// Run executes the list command.
func (l *List) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	c, err := componentFrom(ctx)
	if err != nil {
		return err
	}

	p, err := l.collect(ctx, c)
	if err != nil {
		return err
	}

	return writeProperties(stdout(ctx), p, l.Output)
}

// collect returns the entries to print, in load order.
func (l *List) collect(
	ctx context.Context,
	c *props.Component,
) (*props.Properties, error) {
	p, err := c.LoadProperties(ctx)
	if err != nil {
		return nil, err
	}

	keys := p.Keys()

	if l.Filter != "" {
		matches := fuzzy.Find(l.Filter, keys)

		keep := make(map[string]bool, len(matches))
		for _, m := range matches {
			keep[m.Str] = true
		}

		filtered := keys[:0]
		for _, k := range keys {
			if keep[k] {
				filtered = append(filtered, k)
			}
		}

		keys = filtered
	}

	out := props.NewProperties()

	for _, k := range keys {
		v, _ := p.Get(k)

		if l.Resolve && strings.Contains(v, c.PrefixToken()) {
			v, err = resolveText(ctx, c, v)
			if err != nil {
				return nil, props.WrapError(err).With(slog.String("property", k))
			}
		}

		out.Set(k, v)
	}

	return out, nil
}

// writeProperties encodes p to w in the given output format.
func writeProperties(w io.Writer, p *props.Properties, format string) error {
	switch format {
	case OutputJSON:
		data, err := p.MarshalJSON()
		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		buf.WriteByte('\n')

		if _, err := buf.WriteTo(w); err != nil {
			return ErrWriteOutput.Wrap(err)
		}

	case OutputYAML:
		doc := make(yaml.MapSlice, 0, p.Len())
		for k, v := range p.All() {
			doc = append(doc, yaml.MapItem{Key: k, Value: v})
		}

		data, err := yaml.Marshal(doc)
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		if _, err := w.Write(data); err != nil {
			return ErrWriteOutput.Wrap(err)
		}

	default:
		if _, err := encodeProperties(p).Write(w, properties.UTF8); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	return nil
}

// encodeProperties copies p into a magiconair property set without
// expanding its values.
func encodeProperties(p *props.Properties) *properties.Properties {
	out := properties.NewProperties()
	out.DisableExpansion = true

	for k, v := range p.All() {
		_, _, _ = out.Set(k, v)
	}

	return out
}
