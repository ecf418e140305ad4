// FILE: tek/config/registry.go
package config

import (
	"errors"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tekutils/tek/logging"
)

// Options configures a Registry.
type Options struct {
	// AllowFiles enables the file layer. Disabled, registered files are never read.
	AllowFiles bool
	// AllowOverride enables Override and OverrideDefaults.
	AllowOverride bool
	// EnvPrefix enables the env layer; "TEK_" maps net.port to TEK_NET_PORT.
	EnvPrefix string
	// EnvTransform customizes env variable names. It enables the env layer by itself.
	EnvTransform EnvTransformFunc
	// Logger replaces the "config" component logger.
	Logger *zerolog.Logger
}

// DefaultOptions returns options with files and overrides enabled and no env layer.
func DefaultOptions() Options {
	return Options{AllowFiles: true, AllowOverride: true}
}

type flagParams struct {
	short string
	help  string
}

// Registry maps section names to their Configuration and connects clients
// that ask for a section before it is registered. It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	opts       Options
	fileSets   map[string]*fileSet
	sections   map[string]*Configuration
	owners     map[string]string // section -> file alias
	cli        map[string]any
	args       []string
	shortFlags map[string]string
	flagParams map[string]flagParams
	pending    map[string][]*Client
}

// NewRegistry creates an empty registry.
func NewRegistry(opts Options) *Registry {
	r := &Registry{opts: opts}
	r.reset()
	return r
}

func (r *Registry) reset() {
	r.fileSets = make(map[string]*fileSet)
	r.sections = make(map[string]*Configuration)
	r.owners = make(map[string]string)
	r.cli = nil
	r.args = nil
	r.shortFlags = make(map[string]string)
	r.flagParams = make(map[string]flagParams)
	r.pending = make(map[string][]*Client)
}

func (r *Registry) logger() *zerolog.Logger {
	if r.opts.Logger != nil {
		return r.opts.Logger
	}
	logger := logging.Component("config")
	return &logger
}

// RegisterFiles parses files under alias. An alias is read once; later calls
// with the same alias are ignored.
func (r *Registry) RegisterFiles(alias string, files ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.fileSets[alias]; ok {
		return
	}
	fs := newFileSet(alias, files)
	if r.opts.AllowFiles {
		fs.load(*r.logger())
	}
	r.fileSets[alias] = fs
}

// RegisterConfig declares the defaults of section, reads its values from the
// files registered under alias and connects waiting clients.
// Registering the same section again under the same alias merges the defaults;
// under a different alias it fails with ErrDuplicateSection.
func (r *Registry) RegisterConfig(alias, section string, defaults map[string]any) error {
	r.mu.Lock()

	if owner, ok := r.owners[section]; ok {
		cfg := r.sections[section]
		r.mu.Unlock()
		if owner != alias {
			return duplicateSection(section, owner, alias)
		}
		if err := cfg.SetDefaults(defaults); err != nil {
			return err
		}
		r.loadEnv(cfg)
		return nil
	}

	fs, ok := r.fileSets[alias]
	if !ok {
		r.logger().Debug().Str("alias", alias).Str("section", section).Msg("No files registered for alias")
		fs = newFileSet(alias, nil)
		r.fileSets[alias] = fs
	}

	cfg := newConfiguration(section, *r.logger())
	if err := cfg.SetDefaults(defaults); err != nil {
		r.mu.Unlock()
		return err
	}
	if r.opts.AllowFiles {
		cfg.SetFileValues(fs.section(section))
	}
	r.loadEnv(cfg)
	if r.cli != nil {
		if err := cfg.SetCLIValues(r.cli); err != nil {
			r.logger().Warn().Err(err).Str("section", section).Msg("Ignoring invalid command line values")
		}
	}

	r.sections[section] = cfg
	r.owners[section] = alias
	clients := r.takePending(section)
	r.mu.Unlock()

	for _, c := range clients {
		c.connect(cfg)
	}
	return nil
}

// takePending removes and returns the clients waiting for section. Caller holds the lock.
func (r *Registry) takePending(section string) []*Client {
	clients := r.pending[section]
	delete(r.pending, section)
	return clients
}

// Section returns the configuration of a registered section.
func (r *Registry) Section(name string) (*Configuration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.sections[name]
	if !ok {
		return nil, noSuchSection(name)
	}
	return cfg, nil
}

// Sections returns the registered section names, "global" first.
func (r *Registry) Sections() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return orderedSections(r.sections)
}

func (r *Registry) sectionList() []*Configuration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*Configuration, 0, len(r.sections))
	for _, name := range orderedSections(r.sections) {
		list = append(list, r.sections[name])
	}
	return list
}

// Get returns the effective value of key in section.
func (r *Registry) Get(section, key string) (any, error) {
	cfg, err := r.Section(section)
	if err != nil {
		return nil, err
	}
	return cfg.Get(key)
}

// Scan decodes a section into target. See Configuration.Scan.
func (r *Registry) Scan(section string, target any) error {
	cfg, err := r.Section(section)
	if err != nil {
		return err
	}
	return cfg.Scan(target)
}

// SetCLIConfig applies command line values to every section, filtered to the
// keys each section declares. The values are kept for sections registered later.
func (r *Registry) SetCLIConfig(values map[string]any) error {
	r.mu.Lock()
	r.cli = values
	r.mu.Unlock()

	var errs []error
	for _, cfg := range r.sectionList() {
		if err := cfg.SetCLIValues(values); err != nil {
			errs = append(errs, err)
		}
	}
	r.notifyAllClients()
	return errors.Join(errs...)
}

// CLIConfig returns the values last passed to SetCLIConfig.
func (r *Registry) CLIConfig() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.cli)
}

// Args returns the arguments left over by the last ParseCLI.
func (r *Registry) Args() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.args)
}

// SetShortFlags maps keys to one-letter flag shorthands.
func (r *Registry) SetShortFlags(flags map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range flags {
		r.shortFlags[k] = v
	}
}

// SetFlagParams sets the shorthand and usage text of the flag for key.
// An empty short leaves the shorthand unchanged.
func (r *Registry) SetFlagParams(key, short, help string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if short != "" {
		r.shortFlags[key] = short
	}
	r.flagParams[key] = flagParams{short: short, help: help}
}

// Override sets values in section that win over all other layers.
// Unknown sections and disabled overrides are ignored.
func (r *Registry) Override(section string, values map[string]any) error {
	cfg, ok := r.overridable(section)
	if !ok {
		return nil
	}
	return cfg.Override(values)
}

// OverrideDefaults replaces defaults in section.
// Unknown sections and disabled overrides are ignored.
func (r *Registry) OverrideDefaults(section string, defaults map[string]any) error {
	cfg, ok := r.overridable(section)
	if !ok {
		return nil
	}
	return cfg.SetDefaults(defaults)
}

func (r *Registry) overridable(section string) (*Configuration, bool) {
	if !r.opts.AllowOverride {
		return nil, false
	}
	cfg, err := r.Section(section)
	if err != nil {
		r.logger().Debug().Str("section", section).Msg("Tried to override values in nonexistent section")
		return nil, false
	}
	return cfg, true
}

// Connect returns a client for section. It is connected immediately if the
// section is registered, otherwise as soon as it is.
func (r *Registry) Connect(section string) *Client {
	c := &Client{name: section}

	r.mu.Lock()
	cfg, ok := r.sections[section]
	if !ok {
		r.pending[section] = append(r.pending[section], c)
	}
	r.mu.Unlock()

	if ok {
		c.connect(cfg)
	}
	return c
}

func (r *Registry) notifyAllClients() {
	r.mu.Lock()
	type match struct {
		cfg     *Configuration
		clients []*Client
	}
	var matches []match
	for name := range r.pending {
		if cfg, ok := r.sections[name]; ok {
			matches = append(matches, match{cfg, r.takePending(name)})
		}
	}
	r.mu.Unlock()

	for _, m := range matches {
		for _, c := range m.clients {
			c.connect(m.cfg)
		}
	}
}

// Pending returns the number of clients waiting for an unregistered section.
func (r *Registry) Pending() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, clients := range r.pending {
		n += len(clients)
	}
	return n
}

// Clear forgets all files, sections, command line values and pending clients.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reset()
}

// Debug logs the layers of every section.
func (r *Registry) Debug() {
	logger := r.logger()
	for _, cfg := range r.sectionList() {
		logger.Debug().Str("section", cfg.Name()).Msg(strings.TrimRight(cfg.Info(), "\n"))
	}
}
