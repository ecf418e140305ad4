// FILE: tek/config/configuration.go
package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tekutils/tek/logging"
)

// Source identifies the layer a value came from.
type Source string

const (
	// SourceDefault represents declared default values
	SourceDefault Source = "default"
	// SourceFile represents values read from the section's config files
	SourceFile Source = "file"
	// SourceEnv represents values read from environment variables
	SourceEnv Source = "env"
	// SourceCLI represents values parsed from the command line
	SourceCLI Source = "cli"
	// SourceOverride represents values set programmatically, mainly in tests
	SourceOverride Source = "override"
)

// Precedence lists the layers from highest to lowest priority.
var Precedence = []Source{SourceOverride, SourceCLI, SourceEnv, SourceFile, SourceDefault}

// GlobalSection is written and flagged before all other sections.
const GlobalSection = "global"

// configItem holds one key's value per layer and the merged result.
type configItem struct {
	option       *Option // nil for keys only known from files or overrides
	raw          map[Source]any
	values       map[Source]any
	currentValue any
}

// Configuration is one section: the merge of its default, file, env, CLI and
// override layers. It is safe for concurrent use.
type Configuration struct {
	mu     sync.RWMutex
	name   string
	items  map[string]*configItem
	order  []string
	logger zerolog.Logger
}

// NewConfiguration creates a section with the given defaults.
// Default values may be *Option or plain values whose type is inferred.
func NewConfiguration(name string, defaults map[string]any) (*Configuration, error) {
	c := newConfiguration(name, logging.Component("config"))
	if err := c.SetDefaults(defaults); err != nil {
		return nil, err
	}
	return c, nil
}

func newConfiguration(name string, logger zerolog.Logger) *Configuration {
	return &Configuration{
		name:   name,
		items:  make(map[string]*configItem),
		logger: logger.With().Str("section", name).Logger(),
	}
}

// Name returns the section name.
func (c *Configuration) Name() string { return c.name }

// item returns the item for key, creating it if needed. Caller holds the write lock.
func (c *Configuration) item(key string) *configItem {
	it, ok := c.items[key]
	if !ok {
		it = &configItem{raw: make(map[Source]any), values: make(map[Source]any)}
		c.items[key] = it
		c.order = append(c.order, key)
	}
	return it
}

// lookupKey maps a file key to a declared key, ignoring case.
func (c *Configuration) lookupKey(key string) string {
	if _, ok := c.items[key]; ok {
		return key
	}
	for k, it := range c.items {
		if it.option != nil && strings.EqualFold(k, key) {
			return k
		}
	}
	return key
}

// computeValue returns the value of the highest-precedence layer that has one.
func computeValue(it *configItem) any {
	for _, src := range Precedence {
		if v, ok := it.values[src]; ok {
			return v
		}
	}
	return nil
}

// recompute re-coerces the string layers after a declaration change.
// Values that no longer coerce are dropped.
func (c *Configuration) recompute(key string, it *configItem) {
	for src, raw := range it.raw {
		if src == SourceDefault {
			continue
		}
		if it.option == nil {
			it.values[src] = raw
			continue
		}
		v, err := it.option.Coerce(raw)
		if err != nil {
			c.logger.Warn().Err(err).Str("key", key).Str("source", string(src)).Msg("Dropping config value")
			delete(it.values, src)
			continue
		}
		it.values[src] = v
	}
	if it.option != nil {
		it.values[SourceDefault] = it.option.def
	}
	it.currentValue = computeValue(it)
}

// SetDefaults declares keys. Declaring an existing key merges help and short
// flag metadata and replaces its default.
func (c *Configuration) SetDefaults(defaults map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range sortedKeys(defaults) {
		value := defaults[key]
		it := c.item(key)
		switch {
		case it.option == nil:
			it.option = wrap(value)
		default:
			var err error
			if o, ok := value.(*Option); ok {
				err = it.option.merge(o)
			} else {
				err = it.option.withDefault(value)
			}
			if err != nil {
				return invalidValue(key, value, err)
			}
		}
		c.recompute(key, it)
	}
	return nil
}

// SetFileValues replaces the file layer. Values that fail to coerce are logged and skipped.
func (c *Configuration) SetFileValues(values map[string]any) {
	c.replaceLayer(SourceFile, values)
}

// SetEnvValues replaces the env layer. Only declared keys are applied.
func (c *Configuration) SetEnvValues(values map[string]string) {
	declared := make(map[string]any, len(values))
	c.mu.RLock()
	for k, v := range values {
		if it, ok := c.items[k]; ok && it.option != nil {
			declared[k] = v
		}
	}
	c.mu.RUnlock()
	c.replaceLayer(SourceEnv, declared)
}

func (c *Configuration) replaceLayer(src Source, values map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	incoming := make(map[string]any, len(values))
	for _, k := range sortedKeys(values) {
		incoming[c.lookupKey(k)] = values[k]
	}
	for key, it := range c.items {
		if _, ok := incoming[key]; ok {
			continue
		}
		delete(it.raw, src)
		delete(it.values, src)
		if it.option == nil && len(it.raw) == 0 {
			delete(c.items, key)
			c.order = slices.DeleteFunc(c.order, func(k string) bool { return k == key })
			continue
		}
		c.recompute(key, it)
	}
	for _, key := range sortedKeys(incoming) {
		it := c.item(key)
		it.raw[src] = incoming[key]
		c.recompute(key, it)
	}
}

// SetCLIValues merges CLI values for keys that have a declared default.
// Other keys are ignored. Values that do not coerce are left out and reported
// together as ErrInvalidValue; the valid ones are still applied.
func (c *Configuration) SetCLIValues(values map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for _, key := range sortedKeys(values) {
		value := values[key]
		it, ok := c.items[key]
		if !ok || it.option == nil || value == nil {
			continue
		}
		v, err := it.option.Coerce(value)
		if err != nil {
			errs = append(errs, invalidValue(key, value, err))
			continue
		}
		it.raw[SourceCLI] = value
		it.values[SourceCLI] = v
		it.currentValue = computeValue(it)
	}
	return errors.Join(errs...)
}

// Override sets values that win over all other layers.
// Undeclared keys are added untyped.
func (c *Configuration) Override(values map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range sortedKeys(values) {
		value := values[key]
		if it, ok := c.items[key]; ok && it.option != nil {
			if _, err := it.option.Coerce(value); err != nil {
				return invalidValue(key, value, err)
			}
		}
	}
	for _, key := range sortedKeys(values) {
		it := c.item(key)
		it.raw[SourceOverride] = values[key]
		c.recompute(key, it)
	}
	return nil
}

// Get returns the effective value of key.
func (c *Configuration) Get(key string) (any, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, ok := c.items[key]
	if !ok {
		return nil, noSuchOption(key)
	}
	return it.currentValue, nil
}

// Has reports whether key is known in any layer.
func (c *Configuration) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.items[key]
	return ok
}

// Keys returns all known keys in declaration order.
func (c *Configuration) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.order)
}

// Option returns the declaration of key, or nil if the key is untyped.
func (c *Configuration) Option(key string) *Option {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if it, ok := c.items[key]; ok {
		return it.option
	}
	return nil
}

// Sources returns the value of key in each layer that has one.
func (c *Configuration) Sources(key string) (map[Source]any, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, ok := c.items[key]
	if !ok {
		return nil, noSuchOption(key)
	}
	return maps.Clone(it.values), nil
}

// Values returns a snapshot of all effective values.
func (c *Configuration) Values() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	values := make(map[string]any, len(c.items))
	for k, it := range c.items {
		values[k] = it.currentValue
	}
	return values
}

// layer returns the values of one source.
func (c *Configuration) layer(src Source) map[string]any {
	layer := make(map[string]any)
	for k, it := range c.items {
		if v, ok := it.values[src]; ok {
			layer[k] = v
		}
	}
	return layer
}

// Info returns the contents of all layers, one per line.
func (c *Configuration) Info() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var b strings.Builder
	for i := len(Precedence) - 1; i >= 0; i-- {
		src := Precedence[i]
		fmt.Fprintf(&b, "%s: %s\n", src, formatLayer(c.layer(src)))
	}
	return b.String()
}

func formatLayer(layer map[string]any) string {
	pairs := make([]string, 0, len(layer))
	for _, k := range sortedKeys(layer) {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, layer[k]))
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}
