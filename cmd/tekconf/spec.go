package main

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/tekutils/tek/config"
)

// optionSpec describes one key when a plain default is not enough.
//
//	[net.port]
//	type = "int"
//	default = 8080
//	help = "listen port"
//	short = "p"
type optionSpec struct {
	Type       string
	Default    any
	Help       string
	Short      string
	Positional bool
	NoNegation bool
}

// loadSpec reads section -> key -> default from a TOML file. A key whose
// value is a table with a "type" or "default" entry is an option spec.
func loadSpec(path string) (map[string]map[string]any, error) {
	var doc map[string]map[string]any
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("failed to read spec '%s': %w", path, err)
	}

	sections := make(map[string]map[string]any, len(doc))
	for section, keys := range doc {
		defaults := make(map[string]any, len(keys))
		for key, value := range keys {
			opt, err := specValue(value)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", section, key, err)
			}
			defaults[key] = opt
		}
		sections[section] = defaults
	}
	return sections, nil
}

func specValue(value any) (any, error) {
	switch v := value.(type) {
	case []any:
		list := make([]string, len(v))
		for i, e := range v {
			list[i] = fmt.Sprint(e)
		}
		return list, nil
	case map[string]any:
		_, hasType := v["type"]
		_, hasDefault := v["default"]
		if !hasType && !hasDefault {
			return v, nil
		}
		return optionSpecFrom(v).option()
	default:
		return value, nil
	}
}

func optionSpecFrom(v map[string]any) optionSpec {
	str := func(k string) string {
		s, _ := v[k].(string)
		return s
	}
	flag := func(k string) bool {
		b, _ := v[k].(bool)
		return b
	}
	return optionSpec{
		Type:       str("type"),
		Default:    v["default"],
		Help:       str("help"),
		Short:      str("short"),
		Positional: flag("positional"),
		NoNegation: flag("no_negation"),
	}
}

func (s optionSpec) option() (*config.Option, error) {
	var opts []config.OptionFunc
	if s.Help != "" {
		opts = append(opts, config.Help(s.Help))
	}
	if s.Short != "" {
		opts = append(opts, config.Short(s.Short))
	}
	if s.Positional {
		opts = append(opts, config.AsPositional())
	}
	if s.NoNegation {
		opts = append(opts, config.NoNegation())
	}

	def := s.Default
	if list, ok := def.([]any); ok {
		def, _ = specValue(list)
	}
	coerce := func(zero *config.Option) (any, error) {
		if def == nil {
			return zero.Default(), nil
		}
		return zero.Coerce(def)
	}

	switch s.Type {
	case "bool":
		v, err := coerce(config.Bool(false))
		if err != nil {
			return nil, err
		}
		return config.Bool(v.(bool), opts...), nil
	case "int":
		v, err := coerce(config.Int(0))
		if err != nil {
			return nil, err
		}
		return config.Int(v.(int64), opts...), nil
	case "float":
		v, err := coerce(config.Float(0))
		if err != nil {
			return nil, err
		}
		return config.Float(v.(float64), opts...), nil
	case "", "string":
		v, err := coerce(config.String(""))
		if err != nil {
			return nil, err
		}
		return config.String(v.(string), opts...), nil
	case "path":
		v, err := coerce(config.String(""))
		if err != nil {
			return nil, err
		}
		return config.Path(v.(string), opts...), nil
	case "list":
		v, err := coerce(config.List(nil))
		if err != nil {
			return nil, err
		}
		return config.List(v.([]string), opts...), nil
	case "pathlist":
		v, err := coerce(config.List(nil))
		if err != nil {
			return nil, err
		}
		return config.PathList(v.([]string), opts...), nil
	case "filesize":
		if def == nil {
			def = "0"
		}
		if _, err := coerce(config.FileSize("0")); err != nil {
			return nil, err
		}
		return config.FileSize(fmt.Sprint(def), opts...), nil
	case "dict":
		if def == nil {
			def = ""
		}
		zero := config.Dict("")
		v, err := coerce(zero)
		if err != nil {
			return nil, err
		}
		return config.Dict(zero.Format(v), opts...), nil
	case "duration":
		v, err := coerce(config.Duration(0))
		if err != nil {
			return nil, err
		}
		return config.Duration(v.(time.Duration), opts...), nil
	default:
		return nil, fmt.Errorf("unknown option type %q", s.Type)
	}
}
