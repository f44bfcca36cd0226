package cli

import (
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/aprop/funcs"
	"github.com/ardnew/aprop/loader"
	"github.com/ardnew/aprop/log"
	"github.com/ardnew/aprop/pkg"
	"github.com/ardnew/aprop/props"
)

// refDefine names the in-memory property set holding the -D definitions,
// loadable as the location "ref:define".
const refDefine = "define"

type propsConfig struct {
	Location  []string          `help:"Property location(s) ([kind:]path[;optional=true])" placeholder:"LOC"       short:"l"`
	Classpath []string          `help:"Classpath root directories"                          placeholder:"DIR"       type:"path"`
	Define    map[string]string `help:"Set a system property"                               placeholder:"KEY=VALUE" short:"D"`
	Initial   map[string]string `help:"Initial property (lowest precedence)"                placeholder:"KEY=VALUE"`
	Override  map[string]string `help:"Override property (highest precedence)"              placeholder:"KEY=VALUE"`

	IgnoreMissing bool   `help:"Ignore locations that cannot be found"`
	Cache         bool   `default:"true"                   help:"Cache loaded properties"                        negatable:""`
	Encoding      string `default:"${encodingDefault}"     enum:"${encodingEnum}"                                help:"Encoding of .properties files"`
	Functions     bool   `default:"true"                   help:"Enable the expr and pathprefix functions"       negatable:""`
	Prefix        string `default:"${prefixTokenDefault}"  help:"Placeholder prefix token"                       name:"prefix-token"`
	Suffix        string `default:"${suffixTokenDefault}"  help:"Placeholder suffix token"                       name:"suffix-token"`

	PropertyPrefix      string     `help:"Prefix tried before each key (may contain $${env:NAME})"`
	PropertySuffix      string     `help:"Suffix tried after each key (may contain $${env:NAME})"`
	FallbackUnaugmented bool       `default:"true"                                                 help:"Retry the bare key when the augmented key is missing" negatable:""`
	DefaultFallback     bool       `default:"true"                                                 help:"Use inline defaults for unresolved keys"             negatable:""`
	SystemMode          props.Mode `default:"${modeDefault}"                                       help:"System property mode (${modeEnum})"`
	EnvMode             props.Mode `default:"${modeDefault}"                                       help:"Environment variable mode (${modeEnum})"`
}

func (*propsConfig) vars() kong.Vars {
	return kong.Vars{
		"encodingDefault":    loader.DefaultEncoding,
		"encodingEnum":       loader.EncodingLatin1 + "," + loader.EncodingUTF8,
		"prefixTokenDefault": props.DefaultPrefixToken,
		"suffixTokenDefault": props.DefaultSuffixToken,
		"modeDefault":        props.ModeOverride.String(),
		"modeEnum":           strings.Join(props.Modes(), ", "),
	}
}

func (*propsConfig) group() kong.Group {
	return kong.Group{Key: "props", Title: "Property options"}
}

// component returns a Component configured from the parsed flags. The -D
// definitions are stored in the process-wide system properties.
func (f *propsConfig) component() (*props.Component, error) {
	locs, err := props.ParseLocations(f.Location...)
	if err != nil {
		return nil, err
	}

	sys := props.System()
	for k, v := range f.Define {
		sys.Set(k, v)
	}

	env := props.Environment()
	logger := log.Default()

	r := loader.New(
		loader.WithClasspath(f.Classpath...),
		loader.WithEncoding(f.Encoding),
		loader.WithDecodeCache(f.Cache),
		loader.WithRef(refDefine, props.PropertiesOf(f.Define)),
		loader.WithLogger(logger),
	)
	if err := r.Err(); err != nil {
		return nil, props.ErrInvalidConfiguration.Wrap(err)
	}

	opts := []props.Option{
		props.WithResolver(r),
		props.WithLocations(locs...),
		props.WithEnvironment(env),
		props.WithSystemProperties(sys),
		props.WithInitialProperties(props.PropertiesOf(f.Initial)),
		props.WithOverrideProperties(props.PropertiesOf(f.Override)),
		props.WithIgnoreMissingLocation(f.IgnoreMissing),
		props.WithCache(f.Cache),
		props.WithPrefixToken(f.Prefix),
		props.WithSuffixToken(f.Suffix),
		props.WithPropertyPrefix(f.PropertyPrefix),
		props.WithPropertySuffix(f.PropertySuffix),
		props.WithFallbackToUnaugmentedProperty(f.FallbackUnaugmented),
		props.WithDefaultFallback(f.DefaultFallback),
		props.WithSystemPropertiesMode(f.SystemMode),
		props.WithEnvironmentVariableMode(f.EnvMode),
		props.WithLogger(logger),
	}

	if f.Functions {
		opts = append(opts, props.WithFunction(
			funcs.Expr(
				funcs.WithEnvironment(env),
				funcs.WithSystemProperties(sys),
				funcs.WithVars(map[string]any{"version": pkg.Version}),
				funcs.WithLogger(logger),
			),
			funcs.PathPrefix(env),
		))
	}

	return props.New(opts...)
}
