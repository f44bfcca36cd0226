package props

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/ardnew/aprop/log"
)

// config holds the settings a resolution call works with. Each call copies
// it under the component's read lock, so settings are immutable for the
// duration of the call.
type config struct {
	resolver Resolver
	env      Lookup
	sys      Lookup
	logger   log.Logger

	locations []Location
	sources   []Source
	initial   *Properties
	override  *Properties

	prefixToken    string
	suffixToken    string
	propertyPrefix string
	propertySuffix string

	maxDepth int
	sysMode  Mode
	envMode  Mode

	cache                 bool
	ignoreMissing         bool
	fallbackToUnaugmented bool
	defaultFallback       bool

	epoch uint64 // keyed cache generation when the copy was taken
}

// Component resolves placeholders against a layered property set.
//
// The merged property set is built from, in increasing precedence: the
// initial properties, each registered [Source] in order, the properties of
// each configured [Location] in order, and the override properties.
// Environment variables and system properties participate per key according
// to their [Mode] (see [Parser]).
//
// A Component is safe for concurrent use.
type Component struct {
	functions *FunctionRegistry
	cache     Cache
	extra     []Function
	snap      snapshot
	cfg       config
	cacheSize int
	gen       uint64 // incremented whenever the default snapshot is invalidated
	epoch     uint64 // incremented whenever the keyed cache is purged
	mu        sync.RWMutex
}

// New returns a Component configured with the given options.
//
// The built-in functions env, sys, service, service.host and service.port
// are registered first, followed by any functions given with [WithFunction].
// New fails with [ErrInvalidConfiguration] if the configuration is invalid,
// or if a property prefix or suffix contains an undefined path token.
func New(opts ...Option) (*Component, error) {
	var c Component

	applyDefaults(&c)
	applyOptions(&c, opts...)

	if c.cache == nil {
		c.cache = NewCache(c.cacheSize)
	}

	c.functions = NewFunctionRegistry(BuiltinFunctions(c.cfg.env, c.cfg.sys)...)
	for _, fn := range c.extra {
		c.functions.Register(fn)
	}

	c.extra = nil

	var err error

	c.cfg.propertyPrefix, err = expandPath(c.cfg.propertyPrefix, c.cfg.env, c.cfg.sys)
	if err != nil {
		return nil, ErrInvalidConfiguration.Wrap(err).
			With(slog.String("option", "property_prefix"))
	}

	c.cfg.propertySuffix, err = expandPath(c.cfg.propertySuffix, c.cfg.env, c.cfg.sys)
	if err != nil {
		return nil, ErrInvalidConfiguration.Wrap(err).
			With(slog.String("option", "property_suffix"))
	}

	if err := c.cfg.validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

func (cfg config) validate() error {
	return errors.Join(
		validateMode("system_properties_mode", cfg.sysMode),
		validateMode("environment_variable_mode", cfg.envMode),
	)
}

// Start validates the configuration and starts every registered source that
// implements [Starter].
func (c *Component) Start(ctx context.Context) error {
	cfg := c.config()

	if err := cfg.validate(); err != nil {
		return err
	}

	for _, src := range cfg.sources {
		if s, ok := src.(Starter); ok {
			if err := s.Start(ctx); err != nil {
				return err
			}
		}
	}

	cfg.logger.DebugContext(ctx, "component started",
		slog.Int("locations", len(cfg.locations)),
		slog.Int("sources", len(cfg.sources)),
	)

	return nil
}

// Stop clears all cached properties and stops every registered source that
// implements [Stopper].
func (c *Component) Stop(ctx context.Context) error {
	c.ClearCache()

	var errs []error

	for _, src := range c.config().sources {
		if s, ok := src.(Stopper); ok {
			errs = append(errs, s.Stop(ctx))
		}
	}

	return errors.Join(errs...)
}

// config returns a copy of the current configuration.
func (c *Component) config() config {
	cfg, _ := c.configGen()

	return cfg
}

func (c *Component) configGen() (config, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cfg := c.cfg
	cfg.locations = slices.Clone(cfg.locations)
	cfg.sources = slices.Clone(cfg.sources)
	cfg.epoch = c.epoch

	return cfg, c.gen
}

// update applies fn to the configuration under the write lock and
// invalidates the default snapshot.
func (c *Component) update(fn func(*config)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fn(&c.cfg)
	c.gen++
	c.snap.clear()
}

// Parser returns a [Parser] reflecting the current configuration.
func (c *Component) Parser() *Parser {
	return c.parser(c.config())
}

func (c *Component) parser(cfg config) *Parser {
	return &Parser{
		Functions:             c.functions,
		Env:                   cfg.env,
		Sys:                   cfg.sys,
		Logger:                cfg.logger,
		PrefixToken:           cfg.prefixToken,
		SuffixToken:           cfg.suffixToken,
		PropertyPrefix:        cfg.propertyPrefix,
		PropertySuffix:        cfg.propertySuffix,
		MaxDepth:              cfg.maxDepth,
		SystemMode:            cfg.sysMode,
		EnvMode:               cfg.envMode,
		FallbackToUnaugmented: cfg.fallbackToUnaugmented,
		DefaultFallback:       cfg.defaultFallback,
	}
}

// Resolve replaces the placeholders in text using the default locations.
//
// The merged property set of the default locations is kept as a snapshot
// across calls until [Component.ClearCache] or any configuration change that
// affects it.
func (c *Component) Resolve(ctx context.Context, text string) (string, error) {
	cfg, gen := c.configGen()

	if err := cfg.validate(); err != nil {
		return "", err
	}

	props, err := c.loadDefault(ctx, cfg, gen)
	if err != nil {
		return "", err
	}

	return c.parser(cfg).Parse(ctx, text, props)
}

// ResolveWith replaces the placeholders in text using the given locations
// instead of the default ones.
func (c *Component) ResolveWith(
	ctx context.Context,
	text string,
	locs ...Location,
) (string, error) {
	cfg := c.config()

	if err := cfg.validate(); err != nil {
		return "", err
	}

	props, err := c.load(ctx, cfg, locs)
	if err != nil {
		return "", err
	}

	return c.parser(cfg).Parse(ctx, text, props)
}

// Parse replaces the placeholders in text using props only, without loading
// any location.
func (c *Component) Parse(
	ctx context.Context,
	text string,
	props *Properties,
) (string, error) {
	cfg := c.config()

	if err := cfg.validate(); err != nil {
		return "", err
	}

	return c.parser(cfg).Parse(ctx, text, props)
}

// LoadProperties returns the merged property set of the default locations.
// The result must not be modified.
func (c *Component) LoadProperties(ctx context.Context) (*Properties, error) {
	cfg, gen := c.configGen()

	return c.loadDefault(ctx, cfg, gen)
}

// LoadPropertiesFrom returns the merged property set of the given locations.
// The result must not be modified.
func (c *Component) LoadPropertiesFrom(
	ctx context.Context,
	locs ...Location,
) (*Properties, error) {
	return c.load(ctx, c.config(), locs)
}

// loadDefault returns the default snapshot, computing and storing it on a
// miss. A snapshot computed from a configuration that has since changed is
// not stored.
func (c *Component) loadDefault(
	ctx context.Context,
	cfg config,
	gen uint64,
) (*Properties, error) {
	if cfg.cache {
		if p, ok := c.snap.load(); ok {
			cfg.logger.TraceContext(ctx, "snapshot hit")

			return p, nil
		}
	}

	p, err := c.load(ctx, cfg, cfg.locations)
	if err != nil {
		return nil, err
	}

	if cfg.cache {
		c.mu.RLock()
		if c.gen == gen {
			c.snap.store(p)
		}
		c.mu.RUnlock()
	}

	return p, nil
}

// load merges initial properties, sources, location properties and
// override properties, in that order.
func (c *Component) load(
	ctx context.Context,
	cfg config,
	locs []Location,
) (*Properties, error) {
	merged := cfg.initial.Clone()

	for _, src := range cfg.sources {
		p, err := src.LoadProperties(ctx)
		if err != nil {
			return nil, ErrLoadProperties.Wrap(err).
				With(slog.String("stage", "source"))
		}

		merged.Merge(p)
	}

	ld := loader{
		resolver:      cfg.resolver,
		env:           cfg.env,
		sys:           cfg.sys,
		logger:        cfg.logger,
		ignoreMissing: cfg.ignoreMissing,
	}

	parsed, err := ld.parse(ctx, locs)
	if err != nil {
		return nil, err
	}

	if len(parsed) > 0 {
		p, err := c.loadLocations(ctx, cfg, ld, parsed)
		if err != nil {
			return nil, err
		}

		merged.Merge(p)
	}

	return merged.Merge(cfg.override), nil
}

// loadLocations returns the merged properties of locs, consulting the
// resolution cache when caching is enabled.
func (c *Component) loadLocations(
	ctx context.Context,
	cfg config,
	ld loader,
	locs []Location,
) (*Properties, error) {
	if !cfg.cache {
		return ld.merge(ctx, locs)
	}

	key := KeyOf(locs)

	if p, ok := c.cache.Get(key); ok {
		cfg.logger.TraceContext(ctx, "cache hit", slog.String("key", key.String()))

		return p, nil
	}

	cfg.logger.TraceContext(ctx, "cache miss", slog.String("key", key.String()))

	p, err := ld.merge(ctx, locs)
	if err != nil {
		return nil, err
	}

	// Entries loaded before a purge are dropped.
	c.mu.RLock()
	if c.epoch == cfg.epoch {
		c.cache.Add(key, p)
	}
	c.mu.RUnlock()

	return p, nil
}

// ClearCache discards all cached location properties and the default
// snapshot. Registered functions and sources are not affected.
func (c *Component) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.purge()
	c.gen++
	c.snap.clear()
}

// purge empties the keyed cache. The caller must hold the write lock.
func (c *Component) purge() {
	c.cache.Purge()
	c.epoch++
}

// Functions returns the function registry.
func (c *Component) Functions() *FunctionRegistry { return c.functions }

// AddFunction registers fn, replacing any function with the same name.
func (c *Component) AddFunction(fn Function) { c.functions.Register(fn) }

// HasFunction reports whether a function is registered under name.
func (c *Component) HasFunction(name string) bool { return c.functions.Has(name) }

// AddSource registers src after all previously registered sources.
func (c *Component) AddSource(src Source) {
	c.update(func(cfg *config) { cfg.sources = append(cfg.sources, src) })
}

// Locations returns the default location list.
func (c *Component) Locations() []Location { return c.config().locations }

// SetLocations replaces the default location list.
func (c *Component) SetLocations(locs ...Location) {
	c.update(func(cfg *config) { cfg.locations = slices.Clone(locs) })
}

// SetLocation replaces the default location list with the comma-separated
// locations in spec.
func (c *Component) SetLocation(spec string) error {
	locs, err := ParseLocations(spec)
	if err != nil {
		return err
	}

	c.SetLocations(locs...)

	return nil
}

// AddLocation inserts the comma-separated locations in spec before the
// existing default locations.
func (c *Component) AddLocation(spec string) error {
	locs, err := ParseLocations(spec)
	if err != nil {
		return err
	}

	c.update(func(cfg *config) { cfg.locations = append(locs, cfg.locations...) })

	return nil
}

// InitialProperties returns a copy of the initial properties.
func (c *Component) InitialProperties() *Properties { return c.config().initial.Clone() }

// SetInitialProperties replaces the initial properties with a copy of p.
func (c *Component) SetInitialProperties(p *Properties) {
	p = p.Clone()
	c.update(func(cfg *config) { cfg.initial = p })
}

// OverrideProperties returns a copy of the override properties.
func (c *Component) OverrideProperties() *Properties { return c.config().override.Clone() }

// SetOverrideProperties replaces the override properties with a copy of p.
func (c *Component) SetOverrideProperties(p *Properties) {
	p = p.Clone()
	c.update(func(cfg *config) { cfg.override = p })
}

// SetResolver replaces the location resolver and discards cached
// properties.
func (c *Component) SetResolver(r Resolver) {
	c.update(func(cfg *config) {
		cfg.resolver = r
		c.purge()
	})
}

// Cache reports whether loaded location properties are cached.
func (c *Component) Cache() bool { return c.config().cache }

// SetCache enables or disables caching.
func (c *Component) SetCache(enable bool) {
	c.update(func(cfg *config) { cfg.cache = enable })
}

// IgnoreMissingLocation reports whether missing locations are skipped.
func (c *Component) IgnoreMissingLocation() bool { return c.config().ignoreMissing }

// SetIgnoreMissingLocation controls whether missing locations are skipped
// and discards cached properties.
func (c *Component) SetIgnoreMissingLocation(ignore bool) {
	c.update(func(cfg *config) {
		cfg.ignoreMissing = ignore
		c.purge()
	})
}

// PrefixToken returns the token that opens a placeholder.
func (c *Component) PrefixToken() string { return c.config().prefixToken }

// SetPrefixToken sets the token that opens a placeholder.
// An empty token restores [DefaultPrefixToken].
func (c *Component) SetPrefixToken(token string) {
	c.update(func(cfg *config) { cfg.prefixToken = orDefault(token, DefaultPrefixToken) })
}

// SuffixToken returns the token that closes a placeholder.
func (c *Component) SuffixToken() string { return c.config().suffixToken }

// SetSuffixToken sets the token that closes a placeholder.
// An empty token restores [DefaultSuffixToken].
func (c *Component) SetSuffixToken(token string) {
	c.update(func(cfg *config) { cfg.suffixToken = orDefault(token, DefaultSuffixToken) })
}

// PropertyPrefix returns the string prepended to keys before lookup.
func (c *Component) PropertyPrefix() string { return c.config().propertyPrefix }

// SetPropertyPrefix sets the string prepended to keys before lookup, after
// expanding path tokens such as ${env:NAME}.
func (c *Component) SetPropertyPrefix(prefix string) error {
	cfg := c.config()

	v, err := expandPath(prefix, cfg.env, cfg.sys)
	if err != nil {
		return ErrInvalidConfiguration.Wrap(err).
			With(slog.String("option", "property_prefix"))
	}

	c.update(func(cfg *config) { cfg.propertyPrefix = v })

	return nil
}

// PropertySuffix returns the string appended to keys before lookup.
func (c *Component) PropertySuffix() string { return c.config().propertySuffix }

// SetPropertySuffix sets the string appended to keys before lookup, after
// expanding path tokens such as ${env:NAME}.
func (c *Component) SetPropertySuffix(suffix string) error {
	cfg := c.config()

	v, err := expandPath(suffix, cfg.env, cfg.sys)
	if err != nil {
		return ErrInvalidConfiguration.Wrap(err).
			With(slog.String("option", "property_suffix"))
	}

	c.update(func(cfg *config) { cfg.propertySuffix = v })

	return nil
}

// FallbackToUnaugmentedProperty reports whether the bare key is looked up
// when the augmented key is absent.
func (c *Component) FallbackToUnaugmentedProperty() bool {
	return c.config().fallbackToUnaugmented
}

// SetFallbackToUnaugmentedProperty sets whether the bare key is looked up
// when the augmented key is absent.
func (c *Component) SetFallbackToUnaugmentedProperty(enable bool) {
	c.update(func(cfg *config) { cfg.fallbackToUnaugmented = enable })
}

// DefaultFallback reports whether "key:default" placeholders fall back to
// their default value.
func (c *Component) DefaultFallback() bool { return c.config().defaultFallback }

// SetDefaultFallback sets whether "key:default" placeholders fall back to
// their default value.
func (c *Component) SetDefaultFallback(enable bool) {
	c.update(func(cfg *config) { cfg.defaultFallback = enable })
}

// SystemPropertiesMode returns when system properties are consulted.
func (c *Component) SystemPropertiesMode() Mode { return c.config().sysMode }

// SetSystemPropertiesMode sets when system properties are consulted. An
// invalid mode is reported by [Component.Start] and by resolution calls.
func (c *Component) SetSystemPropertiesMode(m Mode) {
	c.update(func(cfg *config) { cfg.sysMode = m })
}

// EnvironmentVariableMode returns when environment variables are consulted.
func (c *Component) EnvironmentVariableMode() Mode { return c.config().envMode }

// SetEnvironmentVariableMode sets when environment variables are consulted.
// An invalid mode is reported by [Component.Start] and by resolution calls.
func (c *Component) SetEnvironmentVariableMode(m Mode) {
	c.update(func(cfg *config) { cfg.envMode = m })
}
