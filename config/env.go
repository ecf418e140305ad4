// FILE: tek/config/env.go
package config

import (
	"os"
	"strings"
)

// EnvTransformFunc converts a section and key to an environment variable name.
type EnvTransformFunc func(section, key string) string

// defaultEnvTransform creates the default environment variable transformer:
// PREFIX + SECTION_KEY, uppercased, with dots and dashes turned into underscores.
func defaultEnvTransform(prefix string) EnvTransformFunc {
	replacer := strings.NewReplacer(".", "_", "-", "_")
	return func(section, key string) string {
		return prefix + strings.ToUpper(replacer.Replace(section+"_"+key))
	}
}

// lookupEnv collects the set environment variables for the given keys.
func lookupEnv(transform EnvTransformFunc, section string, keys []string) map[string]string {
	found := make(map[string]string)
	for _, key := range keys {
		if value, ok := os.LookupEnv(transform(section, key)); ok {
			found[key] = value
		}
	}
	return found
}

// loadEnv refreshes the env layer of a section. Without a prefix nothing is read.
func (r *Registry) loadEnv(cfg *Configuration) {
	if r.opts.EnvPrefix == "" && r.opts.EnvTransform == nil {
		return
	}
	transform := r.opts.EnvTransform
	if transform == nil {
		transform = defaultEnvTransform(r.opts.EnvPrefix)
	}
	cfg.SetEnvValues(lookupEnv(transform, cfg.Name(), cfg.Keys()))
}

// DiscoverEnv returns the env variable names that currently set a value,
// keyed by "section.key".
func (r *Registry) DiscoverEnv() map[string]string {
	discovered := make(map[string]string)
	if r.opts.EnvPrefix == "" && r.opts.EnvTransform == nil {
		return discovered
	}
	transform := r.opts.EnvTransform
	if transform == nil {
		transform = defaultEnvTransform(r.opts.EnvPrefix)
	}

	for _, cfg := range r.sectionList() {
		for _, key := range cfg.Keys() {
			name := transform(cfg.Name(), key)
			if _, ok := os.LookupEnv(name); ok {
				discovered[cfg.Name()+"."+key] = name
			}
		}
	}
	return discovered
}
