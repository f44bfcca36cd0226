package loader

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/klauspost/readahead"

	"github.com/ardnew/aprop/log"
	"github.com/ardnew/aprop/props"
)

// Resolver loads property sets from the file system, from a list of
// classpath roots and from named in-memory references. It implements
// [props.Resolver].
//
// A Resolver is safe for concurrent use.
type Resolver struct {
	roots    []fs.FS
	decoders map[string]Decoder
	fallback Decoder
	encoding string
	logger   log.Logger
	cache    *decodeCache

	mu   sync.RWMutex
	refs map[string]*props.Properties

	err error // configuration error reported by every load
}

// New returns a Resolver configured with the given options.
//
// Without [WithClasspath] or [WithRoots], classpath locations are searched
// in the current working directory.
func New(opts ...Option) *Resolver {
	var r Resolver

	applyDefaults(&r)
	applyOptions(&r, opts...)

	dec, err := PropertiesDecoder(r.encoding)
	if err != nil {
		r.err = err
		dec = nil
	}

	r.fallback = dec

	for ext, d := range defaultDecoders(dec) {
		if _, ok := r.decoders[ext]; !ok {
			r.decoders[ext] = d
		}
	}

	if len(r.roots) == 0 {
		r.roots = []fs.FS{os.DirFS(".")}
	}

	return &r
}

// Err returns the configuration error, if any, that prevents r from loading
// locations.
func (r *Resolver) Err() error { return r.err }

// Register makes p available to "ref:" locations under the given name,
// replacing any previous registration.
func (r *Resolver) Register(name string, p *props.Properties) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.refs == nil {
		r.refs = make(map[string]*props.Properties)
	}

	r.refs[name] = p.Clone()
}

// Unregister removes the reference with the given name.
func (r *Resolver) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.refs, name)
}

// LoadLocation implements [props.Resolver].
func (r *Resolver) LoadLocation(
	ctx context.Context,
	loc props.Location,
) (*props.Properties, error) {
	if r.err != nil {
		return nil, r.err
	}

	switch loc.Kind {
	case props.KindBlank:
		return props.NewProperties(), nil

	case props.KindRef:
		return r.loadRef(loc)

	case props.KindFile:
		return r.loadFile(ctx, loc)

	case props.KindClasspath:
		return r.loadClasspath(ctx, loc)

	default:
		return nil, props.ErrInvalidLocation.With(slog.Any("location", loc))
	}
}

func (r *Resolver) loadRef(loc props.Location) (*props.Properties, error) {
	r.mu.RLock()
	p, ok := r.refs[loc.Path]
	r.mu.RUnlock()

	if !ok {
		return nil, props.ErrLocationNotFound.With(slog.Any("location", loc))
	}

	return p.Clone(), nil
}

func (r *Resolver) loadFile(
	ctx context.Context,
	loc props.Location,
) (*props.Properties, error) {
	f, err := os.Open(loc.Path)
	if err != nil {
		return nil, r.openError(err, loc)
	}
	defer f.Close()

	return r.decode(ctx, loc, f)
}

func (r *Resolver) loadClasspath(
	ctx context.Context,
	loc props.Location,
) (*props.Properties, error) {
	name := path.Clean(strings.TrimLeft(loc.Path, "/"))
	if !fs.ValidPath(name) {
		return nil, props.ErrInvalidLocation.With(slog.Any("location", loc))
	}

	for i, root := range r.roots {
		f, err := root.Open(name)
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.TraceContext(ctx, "classpath miss",
				slog.Int("root", i),
				slog.String("path", name),
			)

			continue
		}

		if err != nil {
			return nil, r.openError(err, loc)
		}

		p, err := r.decode(ctx, loc, f)
		_ = f.Close()

		return p, err
	}

	return nil, props.ErrLocationNotFound.With(slog.Any("location", loc))
}

func (r *Resolver) openError(err error, loc props.Location) error {
	if errors.Is(err, fs.ErrNotExist) {
		return props.ErrLocationNotFound.Wrap(err).With(slog.Any("location", loc))
	}

	return ErrRead.Wrap(err).With(slog.Any("location", loc))
}

// decode reads all of src and decodes it according to the extension of the
// location's path.
func (r *Resolver) decode(
	ctx context.Context,
	loc props.Location,
	src io.Reader,
) (*props.Properties, error) {
	ra := readahead.NewReader(src)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrRead.Wrap(err).With(slog.Any("location", loc))
	}

	ext := extension(loc.Path)

	dec, ok := r.decoders[ext]
	if !ok {
		dec = r.fallback
	}

	r.logger.TraceContext(ctx, "read location",
		slog.Any("location", loc),
		slog.String("format", ext),
		slog.Int("bytes", len(data)),
	)

	p, err := r.cache.decode(ctx, r.logger, ext, data, dec)
	if err != nil {
		return nil, props.WrapError(err).With(slog.Any("location", loc))
	}

	return p, nil
}
