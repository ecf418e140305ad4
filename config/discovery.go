// FILE: tek/config/discovery.go
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"
)

// FileDiscoveryOptions configures config file discovery
type FileDiscoveryOptions struct {
	// Base name of config file (without extension)
	Name string

	// Extensions to try (in order)
	Extensions []string

	// Custom search directories, searched after the standard ones
	Paths []string

	// Environment variable naming an explicit file, which wins over all others
	EnvVar string

	// Whether to search the XDG config directories
	UseXDG bool

	// Whether to search for ~/.<name><ext>
	UseHome bool
}

// DefaultDiscoveryOptions returns the standard options for an application.
func DefaultDiscoveryOptions(app string) FileDiscoveryOptions {
	return FileDiscoveryOptions{
		Name:       app,
		Extensions: []string{".conf", ".toml", ".yaml"},
		EnvVar:     strings.ToUpper(app) + "_CONFIG",
		UseXDG:     true,
		UseHome:    true,
	}
}

// DiscoverFiles returns the existing config files in ascending precedence:
// system XDG dirs, the user XDG dir, the home dot file, custom paths and
// finally the file named by the env variable. Registering them in this order
// lets the more specific files override the general ones.
func DiscoverFiles(opts FileDiscoveryOptions) []string {
	var candidates []string
	addDir := func(dir string) {
		for _, ext := range opts.Extensions {
			candidates = append(candidates, filepath.Join(dir, opts.Name+ext))
		}
	}

	if opts.UseXDG {
		dirs := slices.Clone(xdg.ConfigDirs)
		slices.Reverse(dirs)
		for _, dir := range dirs {
			addDir(filepath.Join(dir, opts.Name))
		}
		addDir(filepath.Join(xdg.ConfigHome, opts.Name))
	}

	if opts.UseHome && xdg.Home != "" {
		for _, ext := range opts.Extensions {
			candidates = append(candidates, filepath.Join(xdg.Home, "."+opts.Name+ext))
		}
	}

	for _, dir := range opts.Paths {
		addDir(dir)
	}

	if opts.EnvVar != "" {
		if path := os.Getenv(opts.EnvVar); path != "" {
			candidates = append(candidates, path)
		}
	}

	var found []string
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() && !slices.Contains(found, path) {
			found = append(found, path)
		}
	}
	return found
}

// RegisterStandardFiles registers the discovered files of app under alias.
func (r *Registry) RegisterStandardFiles(alias, app string) []string {
	files := DiscoverFiles(DefaultDiscoveryOptions(app))
	r.RegisterFiles(alias, files...)
	return files
}
