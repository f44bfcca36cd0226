package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/magiconair/properties"

	"github.com/ardnew/aprop/log"
	"github.com/ardnew/aprop/pkg"
	"github.com/ardnew/aprop/profile"
)

// Init generates a configuration file from the current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	confPath, ok := varFrom(ctx, ConfigIdentifier)
	if !ok {
		panic("internal error: config path undefined")
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	p := i.buildProperties(ctx)

	if _, err := fmt.Fprintf(file, "# %s configuration\n\n", pkg.Ident()); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	if _, err := p.Write(file, properties.UTF8); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
		slog.Int("count", p.Len()),
	)

	return nil
}

// buildProperties collects the current value of every visible flag.
func (i *Init) buildProperties(ctx context.Context) *properties.Properties {
	p := properties.NewProperties()
	p.DisableExpansion = true

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return p
	}

	// Input files are per invocation.
	prefixIgnore := []string{"help", "version", "source", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if v, ok := flagValue(ktx.FlagValue(flag)); ok {
			_, _, _ = p.Set(flag.Name, v)
		}
	}

	return p
}

// flagValue formats a flag value the way kong parses it back: lists are
// comma separated and maps are semicolon separated key=value pairs.
func flagValue(val any) (string, bool) {
	switch v := val.(type) {
	case nil:
		return "", false

	case bool:
		return strconv.FormatBool(v), true

	case string:
		return v, v != ""

	case []string:
		return strings.Join(v, ","), len(v) > 0

	case map[string]string:
		if len(v) == 0 {
			return "", false
		}

		pairs := make([]string, 0, len(v))
		for _, k := range slices.Sorted(maps.Keys(v)) {
			pairs = append(pairs, k+"="+v[k])
		}

		return strings.Join(pairs, ";"), true

	case fmt.Stringer:
		return v.String(), true

	default:
		return fmt.Sprint(v), true
	}
}
