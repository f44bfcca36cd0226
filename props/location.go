package props

import (
	"log/slog"
	"strconv"
	"strings"
)

// Kind identifies how a [Resolver] interprets a [Location] path.
type Kind int

const (
	KindClasspath Kind = iota // classpath
	KindFile                  // file
	KindRef                   // ref
	KindBlank                 // blank
)

// DefaultKind is used when a location string carries no kind marker.
const DefaultKind = KindClasspath

// String returns the marker used for k in location strings.
func (k Kind) String() string {
	switch k {
	case KindClasspath:
		return "classpath"
	case KindFile:
		return "file"
	case KindRef:
		return "ref"
	case KindBlank:
		return "blank"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ParseKind returns the Kind named by s.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "classpath":
		return KindClasspath, true
	case "file":
		return KindFile, true
	case "ref":
		return KindRef, true
	case "blank":
		return KindBlank, true
	default:
		return 0, false
	}
}

// optionalMarker is the only recognized location attribute.
const optionalMarker = "optional=true"

// Location names one property set a [Resolver] knows how to load.
//
// Locations are comparable values; two Locations are equal iff their kind,
// path and optional flag are equal.
type Location struct {
	Path     string
	Kind     Kind
	Optional bool
}

// ParseLocation parses a location string of the form
//
//	[kind:]path[;optional=true]
//
// Surrounding whitespace is ignored. Without a kind marker the location is a
// [KindClasspath] location. Anything following the last ';' is treated as an
// attribute list and removed from the path; only "optional=true" (in any
// case) has an effect. An empty string yields a [KindBlank] location.
func ParseLocation(s string) (Location, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Location{Kind: KindBlank}, nil
	}

	var loc Location

	if i := strings.LastIndexByte(s, ';'); i >= 0 {
		loc.Optional = strings.EqualFold(strings.TrimSpace(s[i+1:]), optionalMarker)
		s = strings.TrimSpace(s[:i])
	}

	loc.Kind = DefaultKind

	// A colon inside a path token such as ${env:HOME} is not a kind marker.
	if marker, path, ok := strings.Cut(s, ":"); ok && !strings.Contains(marker, "${") {
		kind, known := ParseKind(marker)
		if !known {
			return Location{}, ErrInvalidLocation.With(
				slog.String("location", s),
				slog.String("kind", marker),
			)
		}

		loc.Kind, s = kind, path
	}

	loc.Path = s

	return loc, nil
}

// ParseLocations parses each of the given strings, each of which may contain
// several comma-separated locations, and returns the combined list in order.
// Empty elements are skipped.
func ParseLocations(specs ...string) ([]Location, error) {
	locs := make([]Location, 0, len(specs))

	for _, spec := range specs {
		for part := range strings.SplitSeq(spec, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}

			loc, err := ParseLocation(part)
			if err != nil {
				return nil, err
			}

			locs = append(locs, loc)
		}
	}

	return locs, nil
}

// String returns the canonical string form of l, which [ParseLocation]
// parses back into an equal Location.
func (l Location) String() string {
	if l.Kind == KindBlank && l.Path == "" {
		return ""
	}

	s := l.Kind.String() + ":" + l.Path
	if l.Optional {
		s += ";" + optionalMarker
	}

	return s
}

// LogValue implements slog.LogValuer.
func (l Location) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", l.Kind.String()),
		slog.String("path", l.Path),
		slog.Bool("optional", l.Optional),
	)
}

// CacheKey identifies an ordered list of locations in the resolution cache.
type CacheKey string

// KeyOf returns the cache key of the ordered location list. Distinct lists,
// including permutations of the same locations, have distinct keys.
func KeyOf(locs []Location) CacheKey {
	var b strings.Builder

	for i, l := range locs {
		if i > 0 {
			b.WriteByte(',')
		}

		b.WriteString(l.Kind.String())
		b.WriteByte(':')
		b.WriteString(strconv.Quote(l.Path))

		if l.Optional {
			b.WriteString(";optional")
		}
	}

	return CacheKey(b.String())
}

// String returns a diagnostic representation of k.
func (k CacheKey) String() string { return "LocationKey[" + string(k) + "]" }
