package cli

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/aprop/loader"
	"github.com/ardnew/aprop/log"
	"github.com/ardnew/aprop/props"
)

// resolve returns a [kong.ConfigurationLoader] that reads flag defaults from
// a UTF-8 .properties file, such as the one written by the init command.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.properties")
//
// Keys are matched to flags by name. A flag "log-level" is found under any
// of the keys log-level, log_level or log.level. Values may contain
// placeholders, which are resolved against the other entries of the same
// file, the environment and the system properties:
//
//	log-level = {{env:APROP_LOG_LEVEL:info}}
//	classpath = {{env:HOME}}/.config/aprop
//
// A file that cannot be decoded yields no defaults. Command-line flags
// override config file values.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return config{}, nil
		}

		dec, err := loader.PropertiesDecoder(loader.EncodingUTF8)
		if err != nil {
			return config{}, nil
		}

		p, err := dec.Decode(data)
		if err != nil {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.Any("error", err),
			)

			return config{}, nil
		}

		c, err := props.New(
			props.WithInitialProperties(p),
			props.WithEnvironment(props.Environment()),
			props.WithSystemProperties(props.System()),
		)
		if err != nil {
			return config{}, nil
		}

		return config{ctx: ctx, p: p, c: c}, nil
	}
}

// config implements [kong.Resolver] over a decoded configuration file.
type config struct {
	ctx context.Context
	p   *props.Properties
	c   *props.Component
}

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if r.p == nil {
		return nil, nil
	}

	value, ok := r.lookup(flag.Name)
	if !ok {
		// Let kong use the default.
		return nil, nil
	}

	// Placeholder tokens are taken literally.
	if strings.HasSuffix(flag.Name, "-token") ||
		!strings.Contains(value, r.c.PrefixToken()) {
		return value, nil
	}

	resolved, err := r.c.Resolve(r.ctx, value)
	if err != nil {
		log.DebugContext(r.ctx, "unresolved configuration value",
			slog.String("flag", flag.Name),
			slog.Any("error", err),
		)

		return value, nil
	}

	return resolved, nil
}

func (r config) lookup(name string) (string, bool) {
	for _, key := range []string{
		name,
		strings.ReplaceAll(name, "-", "_"),
		strings.ReplaceAll(name, "-", "."),
	} {
		if v, ok := r.p.Get(key); ok {
			return v, true
		}
	}

	return "", false
}
