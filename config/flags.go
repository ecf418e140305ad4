// FILE: tek/config/flags.go
package config

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/spf13/pflag"

	"github.com/tekutils/tek/errors"
)

type flagBinding struct {
	key    string
	isBool bool
	negate bool
}

// FlagSet builds the command line flags for all registered keys without parsing.
// It is meant for usage output; ParseCLI builds its own set.
func (r *Registry) FlagSet(positional ...string) *pflag.FlagSet {
	fs, _ := r.flagSet(positional)
	return fs
}

// flagSet derives one flag per declared key. Sections are visited "global"
// first, a key shared by several sections gets a single flag. Bool keys get
// a --no-<key> twin when negatable.
func (r *Registry) flagSet(positional []string) (*pflag.FlagSet, map[string]flagBinding) {
	fs := pflag.NewFlagSet("tek", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false
	bindings := make(map[string]flagBinding)

	r.mu.RLock()
	shortFlags := maps.Clone(r.shortFlags)
	params := maps.Clone(r.flagParams)
	r.mu.RUnlock()

	for _, cfg := range r.sectionList() {
		for _, key := range cfg.Keys() {
			// Keys only known from files are untyped and yield to a later declaration.
			opt := cfg.Option(key)
			if opt == nil || opt.Positional || slices.Contains(positional, key) {
				continue
			}
			name := flagName(key)
			if fs.Lookup(name) != nil {
				continue
			}

			short := opt.Short
			if s, ok := shortFlags[key]; ok {
				short = s
			}
			if len(short) != 1 || fs.ShorthandLookup(short) != nil {
				if short != "" {
					cfg.logger.Warn().Str("key", key).Str("short", short).Msg("Dropping unusable flag shorthand")
				}
				short = ""
			}
			help := opt.Help
			if p, ok := params[key]; ok && p.help != "" {
				help = p.help
			}

			current, _ := cfg.Get(key)
			if opt.Kind() == KindBool {
				def, _ := current.(bool)
				fs.BoolP(name, short, def, help)
				bindings[name] = flagBinding{key: key, isBool: true}
				if opt.Negatable && fs.Lookup("no-"+name) == nil {
					fs.Bool("no-"+name, !def, "disable --"+name)
					bindings["no-"+name] = flagBinding{key: key, isBool: true, negate: true}
				}
				continue
			}
			fs.StringP(name, short, opt.Format(current), help)
			bindings[name] = flagBinding{key: key}
		}
	}
	return fs, bindings
}

// ParseCLI parses args against flags synthesized from all registered sections
// and applies the result with SetCLIConfig. If a positional key is named, the
// remaining arguments are assigned to it. The remaining arguments are returned.
func (r *Registry) ParseCLI(args []string, positional ...string) ([]string, error) {
	fs, bindings := r.flagSet(positional)

	values := make(map[string]any)
	err := fs.ParseAll(args, func(f *pflag.Flag, value string) error {
		b, ok := bindings[f.Name]
		if !ok {
			return nil
		}
		if !b.isBool {
			values[b.key] = value
			return nil
		}
		v, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("invalid argument %q for --%s: %w", value, f.Name, err)
		}
		values[b.key] = v != b.negate
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "failed to parse command line")
	}

	rest := fs.Args()
	if len(positional) > 0 && positional[0] != "" {
		if v, ok := r.positionalValue(positional[0], rest); ok {
			values[positional[0]] = v
		}
	}

	r.mu.Lock()
	r.args = rest
	r.mu.Unlock()

	return rest, r.SetCLIConfig(values)
}

// positionalValue shapes the remaining arguments for the option named key:
// list options take all of them, scalar options the first one.
func (r *Registry) positionalValue(key string, rest []string) (any, bool) {
	for _, cfg := range r.sectionList() {
		opt := cfg.Option(key)
		if opt == nil {
			continue
		}
		switch opt.Kind() {
		case KindList, KindPathList:
			return slices.Clone(rest), true
		default:
			if len(rest) == 0 {
				return nil, false
			}
			return rest[0], true
		}
	}
	return nil, false
}
