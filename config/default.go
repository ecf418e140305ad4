// FILE: tek/config/default.go
package config

import (
	"io"
	"strings"
	"sync/atomic"
)

var std atomic.Pointer[Registry]

func init() {
	std.Store(NewRegistry(DefaultOptions()))
}

// Default returns the process-wide registry used by the package-level functions.
func Default() *Registry { return std.Load() }

// SetDefault replaces the process-wide registry.
func SetDefault(r *Registry) { std.Store(r) }

// RegisterFiles calls RegisterFiles on the default registry.
func RegisterFiles(alias string, files ...string) { Default().RegisterFiles(alias, files...) }

// RegisterConfig calls RegisterConfig on the default registry.
func RegisterConfig(alias, section string, defaults map[string]any) error {
	return Default().RegisterConfig(alias, section, defaults)
}

// Get returns section.key from the default registry.
func Get(section, key string) (any, error) { return Default().Get(section, key) }

// Section returns a section of the default registry.
func Section(name string) (*Configuration, error) { return Default().Section(name) }

// Connect returns a client of the default registry.
func Connect(section string) *Client { return Default().Connect(section) }

// SetCLIConfig calls SetCLIConfig on the default registry.
func SetCLIConfig(values map[string]any) error { return Default().SetCLIConfig(values) }

// ParseCLI calls ParseCLI on the default registry.
func ParseCLI(args []string, positional ...string) ([]string, error) {
	return Default().ParseCLI(args, positional...)
}

// SetShortFlags calls SetShortFlags on the default registry.
func SetShortFlags(flags map[string]string) { Default().SetShortFlags(flags) }

// SetFlagParams calls SetFlagParams on the default registry.
func SetFlagParams(key, short, help string) { Default().SetFlagParams(key, short, help) }

// Override calls Override on the default registry.
func Override(section string, values map[string]any) error {
	return Default().Override(section, values)
}

// OverrideDefaults calls OverrideDefaults on the default registry.
func OverrideDefaults(section string, defaults map[string]any) error {
	return Default().OverrideDefaults(section, defaults)
}

// WriteConfig calls WriteConfig on the default registry.
func WriteConfig(path string) error { return Default().WriteConfig(path) }

// WriteTemplate calls WriteTemplate on the default registry.
func WriteTemplate(w io.Writer) error { return Default().WriteTemplate(w) }

// Scan calls Scan on the default registry.
func Scan(section string, target any) error { return Default().Scan(section, target) }

// Clear resets the default registry.
func Clear() { Default().Clear() }

// LazyOf returns a lazy value for "section.key" of the default registry.
func LazyOf[T any](path string) *Lazy[T] {
	section, key, _ := cutPath(path)
	return NewLazy[T](Connect(section), key)
}

// cutPath splits "section.key" at the first dot.
func cutPath(path string) (section, key string, ok bool) {
	section, key, ok = strings.Cut(path, ".")
	return section, key, ok && section != "" && key != ""
}
