// FILE: tek/config/builder.go
package config

import (
	"fmt"
	"os"
)

// ValidatorFunc validates a fully built registry.
type ValidatorFunc func(r *Registry) error

type sectionDecl struct {
	alias    string
	name     string
	defaults map[string]any
}

type fileDecl struct {
	alias string
	files []string
	app   string
}

// Builder provides a fluent interface for building a registry
type Builder struct {
	opts       Options
	files      []fileDecl
	sections   []sectionDecl
	overrides  map[string]map[string]any
	shortFlags map[string]string
	args       []string
	parseArgs  bool
	positional []string
	validators []ValidatorFunc
}

// NewBuilder creates a new registry builder. Command line parsing is off
// until WithArgs or WithOSArgs is called.
func NewBuilder() *Builder {
	return &Builder{
		opts:       DefaultOptions(),
		overrides:  make(map[string]map[string]any),
		shortFlags: make(map[string]string),
	}
}

// WithOptions replaces the registry options.
func (b *Builder) WithOptions(opts Options) *Builder {
	b.opts = opts
	return b
}

// WithEnvPrefix sets the environment variable prefix
func (b *Builder) WithEnvPrefix(prefix string) *Builder {
	b.opts.EnvPrefix = prefix
	return b
}

// WithEnvTransform sets a custom environment variable transformer
func (b *Builder) WithEnvTransform(fn EnvTransformFunc) *Builder {
	b.opts.EnvTransform = fn
	return b
}

// WithFiles registers config files under alias
func (b *Builder) WithFiles(alias string, files ...string) *Builder {
	b.files = append(b.files, fileDecl{alias: alias, files: files})
	return b
}

// WithDiscovery registers the standard config files of app under alias
func (b *Builder) WithDiscovery(alias, app string) *Builder {
	b.files = append(b.files, fileDecl{alias: alias, app: app})
	return b
}

// WithSection declares a section and its defaults
func (b *Builder) WithSection(alias, name string, defaults map[string]any) *Builder {
	b.sections = append(b.sections, sectionDecl{alias: alias, name: name, defaults: defaults})
	return b
}

// WithShortFlags sets CLI shorthands by key
func (b *Builder) WithShortFlags(flags map[string]string) *Builder {
	for k, v := range flags {
		b.shortFlags[k] = v
	}
	return b
}

// WithArgs parses args as the command line after all sections are registered
func (b *Builder) WithArgs(args []string, positional ...string) *Builder {
	b.args = args
	b.parseArgs = true
	b.positional = positional
	return b
}

// WithOSArgs parses os.Args[1:]
func (b *Builder) WithOSArgs(positional ...string) *Builder {
	return b.WithArgs(os.Args[1:], positional...)
}

// WithOverride sets override values of a section
func (b *Builder) WithOverride(section string, values map[string]any) *Builder {
	if b.overrides[section] == nil {
		b.overrides[section] = make(map[string]any)
	}
	for k, v := range values {
		b.overrides[section][k] = v
	}
	return b
}

// WithValidator adds a validation function that runs at the end of the build process.
// Validators run in the order they were added.
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build creates the registry: files, sections, command line, overrides, validators.
func (b *Builder) Build() (*Registry, error) {
	r := NewRegistry(b.opts)

	for _, f := range b.files {
		if f.app != "" {
			r.RegisterStandardFiles(f.alias, f.app)
			continue
		}
		r.RegisterFiles(f.alias, f.files...)
	}

	for _, s := range b.sections {
		if err := r.RegisterConfig(s.alias, s.name, s.defaults); err != nil {
			return nil, fmt.Errorf("failed to register section %q: %w", s.name, err)
		}
	}

	r.SetShortFlags(b.shortFlags)
	if b.parseArgs {
		if _, err := r.ParseCLI(b.args, b.positional...); err != nil {
			return nil, err
		}
	}

	for _, section := range sortedKeys(b.overrides) {
		if err := r.Override(section, b.overrides[section]); err != nil {
			return nil, err
		}
	}

	for _, validator := range b.validators {
		if err := validator(r); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	return r, nil
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *Registry {
	r, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("config build failed: %v", err))
	}
	return r
}

// BuildAndScan builds the registry and decodes section into target
func (b *Builder) BuildAndScan(section string, target any) (*Registry, error) {
	r, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := r.Scan(section, target); err != nil {
		return nil, fmt.Errorf("failed to scan final config into target: %w", err)
	}
	return r, nil
}

// Required returns a validator that fails unless each "section.key" is set
// by a layer other than the defaults.
func Required(paths ...string) ValidatorFunc {
	return func(r *Registry) error {
		var missing []string
		for _, path := range paths {
			section, key, ok := cutPath(path)
			if !ok {
				missing = append(missing, path+" (invalid path)")
				continue
			}
			cfg, err := r.Section(section)
			if err != nil {
				missing = append(missing, path+" (no such section)")
				continue
			}
			sources, err := cfg.Sources(key)
			if err != nil {
				missing = append(missing, path+" (not registered)")
				continue
			}
			if len(sources) == 1 {
				if _, onlyDefault := sources[SourceDefault]; onlyDefault {
					missing = append(missing, path)
				}
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("missing required configuration: %v", missing)
		}
		return nil
	}
}
