package loader

import (
	"io/fs"
	"os"
	"strings"

	"github.com/ardnew/aprop/log"
	"github.com/ardnew/aprop/props"
)

// Option configures a [Resolver].
type Option func(*Resolver)

// WithRoots appends file systems to the list searched, in order, for
// classpath locations.
func WithRoots(roots ...fs.FS) Option {
	return func(r *Resolver) {
		for _, root := range roots {
			if root != nil {
				r.roots = append(r.roots, root)
			}
		}
	}
}

// WithClasspath appends directories to the list searched, in order, for
// classpath locations. Each element may itself be a list separated by
// [os.PathListSeparator].
func WithClasspath(dirs ...string) Option {
	return func(r *Resolver) {
		for _, list := range dirs {
			for dir := range strings.SplitSeq(list, string(os.PathListSeparator)) {
				if dir = strings.TrimSpace(dir); dir != "" {
					r.roots = append(r.roots, os.DirFS(dir))
				}
			}
		}
	}
}

// WithRef registers p under name for "ref:" locations.
func WithRef(name string, p *props.Properties) Option {
	return func(r *Resolver) {
		if r.refs == nil {
			r.refs = make(map[string]*props.Properties)
		}

		r.refs[name] = p.Clone()
	}
}

// WithEncoding sets the character encoding of .properties content,
// [EncodingLatin1] or [EncodingUTF8]. An unsupported encoding makes every
// load fail with [ErrUnsupportedEncoding].
func WithEncoding(encoding string) Option {
	return func(r *Resolver) { r.encoding = encoding }
}

// WithDecoder registers dec for paths with the given extension (for example
// ".conf"), replacing any built-in decoder for it.
func WithDecoder(ext string, dec Decoder) Option {
	return func(r *Resolver) {
		if dec == nil {
			return
		}

		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}

		r.decoders[ext] = dec
	}
}

// WithDecodeCache enables or disables memoizing decoded content.
func WithDecodeCache(enable bool) Option {
	return func(r *Resolver) {
		if enable {
			r.cache = newDecodeCache(DefaultDecodeCacheSize)
		} else {
			r.cache = nil
		}
	}
}

// WithDecodeCacheSize enables memoizing decoded content, keeping at most
// size entries. A non-positive size selects [DefaultDecodeCacheSize].
func WithDecodeCacheSize(size int) Option {
	return func(r *Resolver) { r.cache = newDecodeCache(size) }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger log.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

func applyDefaults(r *Resolver) {
	r.decoders = make(map[string]Decoder)
	r.encoding = DefaultEncoding
	r.cache = newDecodeCache(DefaultDecodeCacheSize)
}

func applyOptions(r *Resolver, opts ...Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
}
