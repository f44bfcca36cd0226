package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/aprop/log"
	"github.com/ardnew/aprop/props"
)

// maxSuggestions limits the "did you mean" hints attached to an unresolvable
// placeholder error.
const maxSuggestions = 3

// Resolve replaces the placeholders in each argument and prints one result
// per line. An argument without placeholders is taken as a property key.
// Without arguments the source files are read and resolved as a single text.
type Resolve struct {
	Text []string `arg:"" help:"Property key or text containing placeholders" name:"text" optional:""`
}

// Run executes the resolve command.
func (r *Resolve) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	c, err := componentFrom(ctx)
	if err != nil {
		return err
	}

	w := stdout(ctx)

	if len(r.Text) == 0 {
		src := sourceFilesFrom(ctx)
		if src == nil || src.IsZero() {
			return ErrNoInput
		}

		var sb strings.Builder
		if _, err := src.WriteTo(&sb); err != nil {
			return ErrNoInput.Wrap(err)
		}

		out := sb.String()
		if strings.Contains(out, c.PrefixToken()) {
			out, err = resolveText(ctx, c, out)
			if err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, out); err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return nil
	}

	for _, text := range r.Text {
		out, err := resolveText(ctx, c, text)
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintln(w, out); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	return nil
}

// resolveText resolves text with c. An unresolvable placeholder error is
// annotated with the nearest known property keys.
func resolveText(
	ctx context.Context,
	c *props.Component,
	text string,
) (string, error) {
	out, err := c.Resolve(ctx, text)
	if err == nil {
		return out, nil
	}

	if !errors.Is(err, props.ErrUnresolvablePlaceholder) {
		return "", err
	}

	key := errorKey(err)
	if key == "" {
		return "", err
	}

	hints := suggest(ctx, c, key)
	if len(hints) == 0 {
		return "", err
	}

	log.DebugContext(ctx, "unresolvable placeholder",
		slog.String("key", key),
		slog.Any("suggestions", hints),
	)

	return "", props.WrapError(err).With(slog.Any("did_you_mean", hints))
}

// suggest returns up to maxSuggestions property keys that fuzzily match key.
func suggest(ctx context.Context, c *props.Component, key string) []string {
	p, err := c.LoadProperties(ctx)
	if err != nil {
		return nil
	}

	matches := fuzzy.Find(key, p.Keys())

	hints := make([]string, 0, min(len(matches), maxSuggestions))
	for _, m := range matches[:min(len(matches), maxSuggestions)] {
		hints = append(hints, m.Str)
	}

	return hints
}

// errorKey returns the placeholder key recorded on the first error in the
// chain of err that carries one.
func errorKey(err error) string {
	for ; err != nil; err = errors.Unwrap(err) {
		var pe *props.Error
		if !errors.As(err, &pe) {
			return ""
		}

		for _, a := range pe.Attrs() {
			if a.Key == "key" {
				return a.Value.String()
			}
		}

		err = pe
	}

	return ""
}
