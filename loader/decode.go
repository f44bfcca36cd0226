package loader

import (
	"bytes"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/iancoleman/orderedmap"
	"github.com/magiconair/properties"
	"github.com/pelletier/go-toml/v2"
	"github.com/subosito/gotenv"
	"gopkg.in/ini.v1"

	"github.com/ardnew/aprop/props"
)

// Decoder converts the raw content of a location into a property set.
type Decoder interface {
	Decode(data []byte) (*props.Properties, error)
}

// DecoderFunc adapts an ordinary function to the [Decoder] interface.
type DecoderFunc func(data []byte) (*props.Properties, error)

// Decode implements [Decoder].
func (f DecoderFunc) Decode(data []byte) (*props.Properties, error) {
	return f(data)
}

// Encodings understood by [PropertiesDecoder].
const (
	EncodingUTF8   = "UTF-8"
	EncodingLatin1 = "ISO-8859-1"
)

// DefaultEncoding is the character encoding of .properties files unless
// configured otherwise.
const DefaultEncoding = EncodingLatin1

// parseEncoding maps an encoding name to its magiconair/properties value.
func parseEncoding(name string) (properties.Encoding, error) {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "_", "-")) {
	case "", EncodingLatin1, "LATIN1", "LATIN-1", "ISO8859-1":
		return properties.ISO_8859_1, nil
	case EncodingUTF8, "UTF8":
		return properties.UTF8, nil
	default:
		return 0, ErrUnsupportedEncoding.With(slog.String("encoding", name))
	}
}

// PropertiesDecoder decodes Java-style .properties content in the named
// character encoding. Values are kept verbatim: ${...} expressions are not
// expanded, since placeholder resolution is left to the caller.
func PropertiesDecoder(encoding string) (Decoder, error) {
	enc, err := parseEncoding(encoding)
	if err != nil {
		return nil, err
	}

	l := &properties.Loader{Encoding: enc, DisableExpansion: true}

	return DecoderFunc(func(data []byte) (*props.Properties, error) {
		src, err := l.LoadBytes(data)
		if err != nil {
			return nil, ErrDecode.Wrap(err).With(slog.String("format", "properties"))
		}

		p := props.NewProperties()

		for _, key := range src.Keys() {
			v, _ := src.Get(key)
			p.Set(key, v)
		}

		return p, nil
	}), nil
}

// YAMLDecoder decodes YAML documents, preserving mapping order.
var YAMLDecoder = DecoderFunc(func(data []byte) (*props.Properties, error) {
	var doc any

	err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap())
	if err != nil {
		return nil, ErrDecode.Wrap(err).With(slog.String("format", "yaml"))
	}

	p := props.NewProperties()
	flatten(p, "", doc)

	return p, nil
})

// JSONDecoder decodes a JSON object, preserving member order.
var JSONDecoder = DecoderFunc(func(data []byte) (*props.Properties, error) {
	doc := orderedmap.New()

	err := doc.UnmarshalJSON(bytes.TrimSpace(data))
	if err != nil {
		return nil, ErrDecode.Wrap(err).With(slog.String("format", "json"))
	}

	p := props.NewProperties()
	flatten(p, "", doc)

	return p, nil
})

// TOMLDecoder decodes TOML documents. Tables are visited in sorted key
// order.
var TOMLDecoder = DecoderFunc(func(data []byte) (*props.Properties, error) {
	var doc map[string]any

	err := toml.Unmarshal(data, &doc)
	if err != nil {
		return nil, ErrDecode.Wrap(err).With(slog.String("format", "toml"))
	}

	p := props.NewProperties()
	flatten(p, "", doc)

	return p, nil
})

// INIDecoder decodes INI files. Keys of the default section keep their
// names; keys of a named section are qualified as "section.key".
var INIDecoder = DecoderFunc(func(data []byte) (*props.Properties, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		AllowBooleanKeys:          true,
		UnescapeValueDoubleQuotes: true,
	}, data)
	if err != nil {
		return nil, ErrDecode.Wrap(err).With(slog.String("format", "ini"))
	}

	p := props.NewProperties()

	for _, sec := range f.Sections() {
		prefix := sec.Name()
		if prefix == ini.DefaultSection {
			prefix = ""
		}

		for _, key := range sec.Keys() {
			p.Set(join(prefix, key.Name()), key.Value())
		}
	}

	return p, nil
})

// EnvDecoder decodes dotenv files. Variables are stored in sorted order.
var EnvDecoder = DecoderFunc(func(data []byte) (*props.Properties, error) {
	env, err := gotenv.StrictParse(bytes.NewReader(data))
	if err != nil {
		return nil, ErrDecode.Wrap(err).With(slog.String("format", "env"))
	}

	p := props.NewProperties()

	for _, key := range slices.Sorted(maps.Keys(env)) {
		p.Set(key, env[key])
	}

	return p, nil
})

// defaultDecoders returns the decoders registered for each file extension.
// The .properties decoder also serves unknown extensions.
func defaultDecoders(propsDecoder Decoder) map[string]Decoder {
	return map[string]Decoder{
		".properties": propsDecoder,
		".yaml":       YAMLDecoder,
		".yml":        YAMLDecoder,
		".json":       JSONDecoder,
		".toml":       TOMLDecoder,
		".ini":        INIDecoder,
		".env":        EnvDecoder,
	}
}

// extension returns the lower-case extension of name, recognizing dotfiles
// named ".env" as env files.
func extension(name string) string {
	base := filepath.Base(name)
	if strings.EqualFold(base, ".env") {
		return ".env"
	}

	return strings.ToLower(filepath.Ext(base))
}
