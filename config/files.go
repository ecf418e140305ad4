// FILE: tek/config/files.go
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/tekutils/tek/logging"
)

// File formats understood by file sets.
const (
	FormatINI  = "ini"
	FormatTOML = "toml"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// iniDefaultSection holds INI keys that apply to every section.
var iniDefaultSection = ini.DefaultSection

// fileSet is the parsed content of the files registered under one alias.
// Later files override earlier ones.
type fileSet struct {
	alias    string
	files    []string
	sections map[string]map[string]any
	defaults map[string]any
}

func newFileSet(alias string, files []string) *fileSet {
	expanded := make([]string, len(files))
	for i, f := range files {
		expanded[i] = expandPath(f)
	}
	return &fileSet{
		alias:    alias,
		files:    expanded,
		sections: make(map[string]map[string]any),
		defaults: make(map[string]any),
	}
}

// load reads all files. Missing files are skipped, parse errors are logged
// and the offending file contributes nothing.
func (fs *fileSet) load(logger zerolog.Logger) {
	defer logging.LogDuration(logger, time.Now(), "load "+fs.alias+" config files")
	fs.sections = make(map[string]map[string]any)
	fs.defaults = make(map[string]any)

	for _, path := range fs.files {
		sections, err := loadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				logger.Debug().Str("alias", fs.alias).Str("file", path).Msg("Config file not found, skipping")
			} else {
				logger.Error().Err(err).Str("alias", fs.alias).Str("file", path).Msg("Failed to parse config file")
			}
			continue
		}
		for name, values := range sections {
			target := fs.defaults
			if name != iniDefaultSection {
				if fs.sections[name] == nil {
					fs.sections[name] = make(map[string]any)
				}
				target = fs.sections[name]
			}
			for k, v := range values {
				target[k] = v
			}
		}
	}
}

// section returns the values of a section merged over the file defaults.
func (fs *fileSet) section(name string) map[string]any {
	values := make(map[string]any, len(fs.defaults))
	for k, v := range fs.defaults {
		values[k] = v
	}
	for k, v := range fs.sections[name] {
		values[k] = v
	}
	return values
}

// loadFile parses one file into sections of flat key/values.
func loadFile(path string) (map[string]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch detectFileFormat(path) {
	case FormatTOML:
		doc := make(map[string]any)
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, configLoad("TOML", path, err)
		}
		return splitSections(doc), nil
	case FormatYAML:
		doc := make(map[string]any)
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, configLoad("YAML", path, err)
		}
		return splitSections(doc), nil
	case FormatJSON:
		doc := make(map[string]any)
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber()
		if err := decoder.Decode(&doc); err != nil {
			return nil, configLoad("JSON", path, err)
		}
		return splitSections(normalizeJSON(doc).(map[string]any)), nil
	default:
		return parseINI(path, data)
	}
}

func parseINI(path string, data []byte) (map[string]map[string]any, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		InsensitiveKeys:     true,
		IgnoreInlineComment: true,
		IgnoreContinuation:  true,
	}, data)
	if err != nil {
		return nil, configLoad("INI", path, err)
	}

	sections := make(map[string]map[string]any)
	for _, s := range f.Sections() {
		values := make(map[string]any, len(s.Keys()))
		for _, k := range s.Keys() {
			values[k.Name()] = k.Value()
		}
		sections[s.Name()] = values
	}
	return sections, nil
}

// splitSections maps top-level tables to sections and flattens nested tables
// into dotted keys. Top-level scalars belong to the global section.
func splitSections(doc map[string]any) map[string]map[string]any {
	sections := make(map[string]map[string]any)
	for name, value := range doc {
		if table, ok := value.(map[string]any); ok {
			sections[name] = flattenMap(table, "")
			continue
		}
		if sections[GlobalSection] == nil {
			sections[GlobalSection] = make(map[string]any)
		}
		sections[GlobalSection][name] = value
	}
	return sections
}

// normalizeJSON converts json.Number to int64 or float64.
func normalizeJSON(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, e := range val {
			val[k] = normalizeJSON(e)
		}
		return val
	case []any:
		for i, e := range val {
			val[i] = normalizeJSON(e)
		}
		return val
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	}
	return v
}

// detectFileFormat determines format from file extension. Unknown extensions are INI.
func detectFileFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return FormatTOML
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatINI
	}
}
