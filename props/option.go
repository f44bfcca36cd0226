package props

import (
	"github.com/ardnew/aprop/log"
)

// Option configures a [Component] created with [New].
type Option func(*Component)

// WithLocations sets the default location list.
func WithLocations(locs ...Location) Option {
	return func(c *Component) {
		c.cfg.locations = append([]Location(nil), locs...)
	}
}

// WithResolver sets the [Resolver] used to load locations.
func WithResolver(r Resolver) Option {
	return func(c *Component) { c.cfg.resolver = r }
}

// WithSource registers sources, merged in the given order.
func WithSource(srcs ...Source) Option {
	return func(c *Component) { c.cfg.sources = append(c.cfg.sources, srcs...) }
}

// WithFunction registers functions in addition to the built-in ones.
// A function named like a built-in replaces it.
func WithFunction(fns ...Function) Option {
	return func(c *Component) { c.extra = append(c.extra, fns...) }
}

// WithInitialProperties sets the properties merged before everything else.
func WithInitialProperties(p *Properties) Option {
	return func(c *Component) { c.cfg.initial = p.Clone() }
}

// WithOverrideProperties sets the properties merged after everything else.
func WithOverrideProperties(p *Properties) Option {
	return func(c *Component) { c.cfg.override = p.Clone() }
}

// WithEnvironment sets the environment-variable provider.
func WithEnvironment(env Lookup) Option {
	return func(c *Component) { c.cfg.env = env }
}

// WithSystemProperties sets the system-property provider.
func WithSystemProperties(sys Lookup) Option {
	return func(c *Component) { c.cfg.sys = sys }
}

// WithCache enables or disables caching of loaded location properties.
func WithCache(enable bool) Option {
	return func(c *Component) { c.cfg.cache = enable }
}

// WithCacheSize sets the capacity of the default resolution cache.
func WithCacheSize(size int) Option {
	return func(c *Component) { c.cacheSize = size }
}

// WithResolutionCache replaces the default resolution cache.
func WithResolutionCache(cache Cache) Option {
	return func(c *Component) { c.cache = cache }
}

// WithIgnoreMissingLocation controls whether missing locations are skipped
// instead of failing resolution.
func WithIgnoreMissingLocation(ignore bool) Option {
	return func(c *Component) { c.cfg.ignoreMissing = ignore }
}

// WithPrefixToken sets the token that opens a placeholder.
// An empty token restores [DefaultPrefixToken].
func WithPrefixToken(token string) Option {
	return func(c *Component) { c.cfg.prefixToken = orDefault(token, DefaultPrefixToken) }
}

// WithSuffixToken sets the token that closes a placeholder.
// An empty token restores [DefaultSuffixToken].
func WithSuffixToken(token string) Option {
	return func(c *Component) { c.cfg.suffixToken = orDefault(token, DefaultSuffixToken) }
}

// WithPropertyPrefix sets the string prepended to keys before lookup.
// Path tokens such as ${env:NAME} are expanded by [New].
func WithPropertyPrefix(prefix string) Option {
	return func(c *Component) { c.cfg.propertyPrefix = prefix }
}

// WithPropertySuffix sets the string appended to keys before lookup.
// Path tokens such as ${env:NAME} are expanded by [New].
func WithPropertySuffix(suffix string) Option {
	return func(c *Component) { c.cfg.propertySuffix = suffix }
}

// WithFallbackToUnaugmentedProperty controls whether the bare key is looked
// up when the augmented key is absent.
func WithFallbackToUnaugmentedProperty(enable bool) Option {
	return func(c *Component) { c.cfg.fallbackToUnaugmented = enable }
}

// WithDefaultFallback controls whether "key:default" placeholders fall back
// to their default value.
func WithDefaultFallback(enable bool) Option {
	return func(c *Component) { c.cfg.defaultFallback = enable }
}

// WithSystemPropertiesMode sets when system properties are consulted.
func WithSystemPropertiesMode(m Mode) Option {
	return func(c *Component) { c.cfg.sysMode = m }
}

// WithEnvironmentVariableMode sets when environment variables are consulted.
func WithEnvironmentVariableMode(m Mode) Option {
	return func(c *Component) { c.cfg.envMode = m }
}

// WithMaxDepth sets the maximum number of nested substitution rounds.
func WithMaxDepth(depth int) Option {
	return func(c *Component) { c.cfg.maxDepth = depth }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger log.Logger) Option {
	return func(c *Component) { c.cfg.logger = logger }
}

// applyDefaults sets default option values on a Component.
func applyDefaults(c *Component) {
	c.cfg.env = Environment()
	c.cfg.sys = System()
	c.cfg.cache = true
	c.cfg.prefixToken = DefaultPrefixToken
	c.cfg.suffixToken = DefaultSuffixToken
	c.cfg.fallbackToUnaugmented = true
	c.cfg.defaultFallback = true
	c.cfg.sysMode = DefaultSystemPropertiesMode
	c.cfg.envMode = DefaultEnvironmentVariableMode
	c.cfg.maxDepth = DefaultMaxDepth
	c.cacheSize = DefaultCacheSize
}

// applyOptions applies functional options to a Component.
func applyOptions(c *Component, opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}

	return s
}
