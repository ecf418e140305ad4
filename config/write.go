// FILE: tek/config/write.go
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/google/renameio/v2"
)

// WriteTemplate writes all sections as a commented config file template:
//
//	[section]
//
//	# help text
//	# key = value
//
// The global section comes first. Positional options are left out.
func (r *Registry) WriteTemplate(w io.Writer) error {
	for _, cfg := range r.sectionList() {
		if err := writeSection(w, cfg); err != nil {
			return err
		}
	}
	return nil
}

func writeSection(w io.Writer, cfg *Configuration) error {
	var b bytes.Buffer
	fmt.Fprintf(&b, "[%s]\n", cfg.Name())
	for _, key := range cfg.Keys() {
		opt := cfg.Option(key)
		value, err := cfg.Get(key)
		if err != nil {
			continue
		}
		if opt == nil {
			fmt.Fprintf(&b, "# %s = %v\n", key, value)
			continue
		}
		if opt.Positional {
			continue
		}
		if opt.Help != "" {
			fmt.Fprintf(&b, "\n# %s\n", opt.Help)
		}
		fmt.Fprintf(&b, "# %s = %s\n", key, opt.Format(value))
	}
	b.WriteString("\n")
	_, err := w.Write(b.Bytes())
	return err
}

// WriteConfig writes the template to path atomically.
func (r *Registry) WriteConfig(path string) error {
	var buf bytes.Buffer
	if err := r.WriteTemplate(&buf); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory '%s': %w", dir, err)
	}
	if err := renameio.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config template '%s': %w", path, err)
	}
	r.logger().Debug().Str("path", path).Msg("Wrote config template")
	return nil
}

// Dump writes the effective values of all sections as TOML.
func (r *Registry) Dump(w io.Writer) error {
	doc := make(map[string]map[string]any)
	for _, cfg := range r.sectionList() {
		values := cfg.Values()
		for k, v := range values {
			if v == nil {
				delete(values, k)
			}
		}
		doc[cfg.Name()] = values
	}
	return toml.NewEncoder(w).Encode(doc)
}
