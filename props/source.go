package props

import (
	"context"
	"errors"
	"log/slog"
	"regexp"

	"github.com/ardnew/aprop/log"
)

// Source contributes properties that are merged after the initial
// properties and before location-based properties. Sources are merged in
// registration order.
type Source interface {
	LoadProperties(ctx context.Context) (*Properties, error)
}

// SourceFunc adapts an ordinary function to the [Source] interface.
type SourceFunc func(ctx context.Context) (*Properties, error)

// LoadProperties implements [Source].
func (f SourceFunc) LoadProperties(ctx context.Context) (*Properties, error) {
	return f(ctx)
}

// Starter is implemented by sources that must be started with the
// [Component] that owns them.
type Starter interface {
	Start(ctx context.Context) error
}

// Stopper is implemented by sources that must be stopped with the
// [Component] that owns them.
type Stopper interface {
	Stop(ctx context.Context) error
}

// Resolver loads the property set named by a single [Location].
//
// A Resolver must return an error matching [ErrLocationNotFound] (see
// [errors.Is]) when the location does not exist; the [Component] decides
// whether that is fatal. Any other error aborts resolution.
type Resolver interface {
	LoadLocation(ctx context.Context, loc Location) (*Properties, error)
}

// ResolverFunc adapts an ordinary function to the [Resolver] interface.
type ResolverFunc func(ctx context.Context, loc Location) (*Properties, error)

// LoadLocation implements [Resolver].
func (f ResolverFunc) LoadLocation(
	ctx context.Context,
	loc Location,
) (*Properties, error) {
	return f(ctx, loc)
}

// noResolver is used when no [Resolver] is configured. It knows no locations.
var noResolver = ResolverFunc(
	func(_ context.Context, loc Location) (*Properties, error) {
		return nil, ErrLocationNotFound.With(slog.Any("location", loc))
	},
)

// pathToken matches ${env:NAME}, ${env.NAME} and ${name} in location paths.
var pathToken = regexp.MustCompile(`\$\{(env[:.])?([^}]*)\}`)

// expandPath replaces the path tokens in s with values from the environment
// (${env:NAME}) or the system properties (${name}). A token that names an
// undefined variable is an error.
func expandPath(s string, env, sys Lookup) (string, error) {
	var missing error

	out := pathToken.ReplaceAllStringFunc(s, func(tok string) string {
		m := pathToken.FindStringSubmatch(tok)

		var (
			v  string
			ok bool
		)

		if m[1] != "" {
			v, ok = lookup(env, m[2])
		} else {
			v, ok = lookup(sys, m[2])
		}

		if !ok && missing == nil {
			missing = ErrLocationNotFound.With(
				slog.String("path", s),
				slog.String("token", tok),
			)
		}

		return v
	})

	if missing != nil {
		return "", missing
	}

	return out, nil
}

// loader merges the property sets of an ordered location list.
type loader struct {
	resolver      Resolver
	env           Lookup
	sys           Lookup
	logger        log.Logger
	ignoreMissing bool
}

// parse expands the path tokens of each location and drops locations whose
// path is empty. A location whose path cannot be expanded is skipped when
// it is optional or missing locations are ignored.
func (l loader) parse(ctx context.Context, locs []Location) ([]Location, error) {
	out := make([]Location, 0, len(locs))

	for _, loc := range locs {
		l.logger.TraceContext(ctx, "parse location", slog.Any("location", loc))

		path, err := expandPath(loc.Path, l.env, l.sys)
		if err != nil {
			if !l.ignoreMissing && !loc.Optional {
				return nil, err
			}

			l.logger.DebugContext(ctx, "ignored missing location",
				slog.Any("location", loc),
				slog.Any("error", err),
			)

			continue
		}

		if path == "" {
			continue
		}

		loc.Path = path

		l.logger.DebugContext(ctx, "parsed location", slog.Any("location", loc))

		out = append(out, loc)
	}

	return out, nil
}

// merge loads each location in order and merges the results; later
// locations overwrite earlier keys.
func (l loader) merge(ctx context.Context, locs []Location) (*Properties, error) {
	res := l.resolver
	if res == nil {
		res = noResolver
	}

	merged := NewProperties()

	for _, loc := range locs {
		p, err := res.LoadLocation(ctx, loc)
		if err != nil {
			if errors.Is(err, ErrLocationNotFound) &&
				(l.ignoreMissing || loc.Optional) {
				l.logger.DebugContext(ctx, "ignored missing location",
					slog.Any("location", loc),
					slog.Any("error", err),
				)

				continue
			}

			if errors.Is(err, ErrLocationNotFound) {
				return nil, WrapError(err).With(slog.Any("location", loc))
			}

			return nil, ErrLoadProperties.Wrap(err).
				With(slog.Any("location", loc))
		}

		l.logger.TraceContext(ctx, "loaded location",
			slog.Any("location", loc),
			slog.Int("count", p.Len()),
		)

		merged.Merge(p)
	}

	return merged, nil
}
