package props

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/aprop/log"
)

// Default placeholder tokens.
const (
	DefaultPrefixToken = "{{"
	DefaultSuffixToken = "}}"
)

// DefaultMaxDepth is the default maximum number of substitution rounds.
// Users may modify this before creating a [Parser] or [Component] to change
// the default.
var DefaultMaxDepth = 100

// Parser substitutes placeholders in text with values from a property set.
//
// The zero Parser is not usable; obtain one from [NewParser] or
// [Component.Parser].
type Parser struct {
	Functions *FunctionRegistry
	Env       Lookup
	Sys       Lookup
	Logger    log.Logger

	PrefixToken    string
	SuffixToken    string
	PropertyPrefix string
	PropertySuffix string

	MaxDepth   int
	SystemMode Mode
	EnvMode    Mode

	FallbackToUnaugmented bool
	DefaultFallback       bool
}

// NewParser returns a Parser with the default tokens, modes and flags, the
// process environment, the process-wide system properties and the built-in
// functions.
func NewParser() *Parser {
	env, sys := Environment(), Lookup(System())

	return &Parser{
		Functions:             NewFunctionRegistry(BuiltinFunctions(env, sys)...),
		Env:                   env,
		Sys:                   sys,
		PrefixToken:           DefaultPrefixToken,
		SuffixToken:           DefaultSuffixToken,
		MaxDepth:              DefaultMaxDepth,
		SystemMode:            DefaultSystemPropertiesMode,
		EnvMode:               DefaultEnvironmentVariableMode,
		FallbackToUnaugmented: true,
		DefaultFallback:       true,
	}
}

// Parse returns text with every placeholder replaced by its value.
//
// Text that contains no prefix token is treated as a single placeholder key
// (the prefix is prepended); likewise the suffix is appended when text
// contains none. Values that contain placeholders are resolved in turn, up to
// MaxDepth rounds.
//
// Parse fails without partial output if any placeholder cannot be resolved.
func (p *Parser) Parse(
	ctx context.Context,
	text string,
	props *Properties,
) (string, error) {
	prefix, suffix := p.tokens()

	p.Logger.TraceContext(ctx, "parse", slog.String("input", text))

	if !strings.Contains(text, prefix) {
		text = prefix + text
	}

	if !strings.Contains(text, suffix) {
		text += suffix
	}

	out, err := p.expand(ctx, text, props, nil)
	if err != nil {
		return "", err
	}

	p.Logger.TraceContext(ctx, "parsed",
		slog.String("input", text),
		slog.String("output", out),
	)

	return out, nil
}

// expand substitutes placeholders in text round by round until none remain.
// The chain holds the keys whose values are being expanded; its length
// counts toward MaxDepth.
func (p *Parser) expand(
	ctx context.Context,
	text string,
	props *Properties,
	chain []string,
) (string, error) {
	prefix, _ := p.tokens()

	maxDepth := p.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	input := text

	for depth := len(chain); strings.Contains(text, prefix); depth++ {
		if depth >= maxDepth {
			return "", ErrCircularReference.With(
				slog.String("input", input),
				slog.Int("max_depth", maxDepth),
			)
		}

		next, err := p.substitute(ctx, text, props, chain)
		if err != nil {
			return "", err
		}

		if next == text {
			return "", ErrCircularReference.With(
				slog.String("input", input),
				slog.String("text", text),
			)
		}

		text = next
	}

	return text, nil
}

func (p *Parser) tokens() (prefix, suffix string) {
	prefix, suffix = p.PrefixToken, p.SuffixToken

	if prefix == "" {
		prefix = DefaultPrefixToken
	}

	if suffix == "" {
		suffix = DefaultSuffixToken
	}

	return prefix, suffix
}

// substitute performs one round, scanning text left to right and replacing
// each innermost placeholder, i.e. one that contains no prefix token.
// A value that holds placeholders itself is expanded before it is spliced
// in, failing if its key already appears in chain.
func (p *Parser) substitute(
	ctx context.Context,
	text string,
	props *Properties,
	chain []string,
) (string, error) {
	prefix, suffix := p.tokens()

	var b strings.Builder

	b.Grow(len(text))

	for pos := 0; ; {
		start := strings.Index(text[pos:], prefix)
		if start < 0 {
			b.WriteString(text[pos:])

			return b.String(), nil
		}

		start += pos

		end := strings.Index(text[start+len(prefix):], suffix)
		if end < 0 {
			return "", ErrMalformedPlaceholder.With(
				slog.String("input", text),
				slog.Int("offset", start),
			)
		}

		end += start + len(prefix)

		// Move start to the last prefix before end to get the innermost key.
		start += strings.LastIndex(text[start:end], prefix)

		key := text[start+len(prefix) : end]

		if slices.Contains(chain, key) {
			return "", ErrCircularReference.With(
				slog.String("key", key),
				slog.String("chain", strings.Join(chain, " -> ")),
			)
		}

		value, err := p.resolve(ctx, key, props)
		if err != nil {
			return "", err
		}

		if strings.Contains(value, prefix) {
			if value, err = p.expand(ctx, value, props, append(slices.Clip(chain), key)); err != nil {
				return "", err
			}
		}

		b.WriteString(text[pos:start])
		b.WriteString(value)

		pos = end + len(suffix)
	}
}

// resolve returns the value of a single placeholder key.
func (p *Parser) resolve(
	ctx context.Context,
	key string,
	props *Properties,
) (string, error) {
	if name, rem, ok := strings.Cut(key, ":"); ok {
		if fn, ok := p.Functions.Lookup(name); ok {
			v, ok := fn.Apply(rem)
			if !ok {
				return "", ErrUnresolvablePlaceholder.With(
					slog.String("key", key),
					slog.String("function", name),
				)
			}

			p.Logger.TraceContext(ctx, "function applied",
				slog.String("function", name),
				slog.String("remainder", rem),
			)

			return v, nil
		}
	}

	if v, ok := p.lookup(key, props); ok {
		return v, nil
	}

	if p.DefaultFallback {
		if name, def, ok := strings.Cut(key, ":"); ok {
			if v, ok := p.lookup(name, props); ok {
				return v, nil
			}

			p.Logger.TraceContext(ctx, "default value",
				slog.String("key", name),
				slog.String("default", def),
			)

			return def, nil
		}
	}

	return "", ErrUnresolvablePlaceholder.With(slog.String("key", key))
}

// lookup consults, in order: overriding system properties and environment
// variables, the (augmented, then bare) key in props, and falling-back system
// properties and environment variables.
func (p *Parser) lookup(key string, props *Properties) (string, bool) {
	if p.SystemMode == ModeOverride {
		if v, ok := lookup(p.Sys, key); ok {
			return v, true
		}
	}

	if p.EnvMode == ModeOverride {
		if v, ok := lookupEnv(p.Env, key); ok {
			return v, true
		}
	}

	if p.PropertyPrefix != "" || p.PropertySuffix != "" {
		if v, ok := props.Get(p.PropertyPrefix + key + p.PropertySuffix); ok {
			return v, true
		}

		if p.FallbackToUnaugmented {
			if v, ok := props.Get(key); ok {
				return v, true
			}
		}
	} else if v, ok := props.Get(key); ok {
		return v, true
	}

	if p.SystemMode == ModeFallback {
		if v, ok := lookup(p.Sys, key); ok {
			return v, true
		}
	}

	if p.EnvMode == ModeFallback {
		if v, ok := lookupEnv(p.Env, key); ok {
			return v, true
		}
	}

	return "", false
}
