// FILE: tek/config/option.go
package config

import (
	"fmt"
	"reflect"
	"time"
)

// Kind names the declared type of an option.
type Kind string

const (
	KindBool     Kind = "bool"
	KindInt      Kind = "int"
	KindFloat    Kind = "float"
	KindString   Kind = "string"
	KindPath     Kind = "path"
	KindList     Kind = "list"
	KindPathList Kind = "pathlist"
	KindFileSize Kind = "filesize"
	KindDict     Kind = "dict"
	KindDuration Kind = "duration"
	KindAny      Kind = "any"
)

// Option declares a configuration key: its type, default value and CLI metadata.
type Option struct {
	// Help is written to templates and used as flag usage.
	Help string
	// Short is a one-letter CLI shorthand.
	Short string
	// Positional options are skipped by flag synthesis and template writing.
	Positional bool
	// Negatable bool options get a --no-<key> flag.
	Negatable bool

	kind      Kind
	def       any
	separator string

	// coerce converts a non-nil value of any type into the option's value type.
	coerce func(o *Option, v any) (any, error)
	format func(o *Option, v any) string
}

// OptionFunc modifies an option at construction time.
type OptionFunc func(*Option)

// Help sets the help text.
func Help(text string) OptionFunc {
	return func(o *Option) { o.Help = text }
}

// Short sets the CLI shorthand letter.
func Short(letter string) OptionFunc {
	return func(o *Option) { o.Short = letter }
}

// AsPositional marks the option as filled from positional arguments.
func AsPositional() OptionFunc {
	return func(o *Option) { o.Positional = true }
}

// NoNegation suppresses the --no-<key> flag of a bool option.
func NoNegation() OptionFunc {
	return func(o *Option) { o.Negatable = false }
}

// Separator sets the element separator of list and dict options.
func Separator(sep string) OptionFunc {
	return func(o *Option) { o.separator = sep }
}

// Kind returns the declared type.
func (o *Option) Kind() Kind { return o.kind }

// Default returns the typed default value.
func (o *Option) Default() any { return o.def }

// Coerce converts v to the option's value type. Strings are parsed.
func (o *Option) Coerce(v any) (any, error) {
	if v == nil || o.coerce == nil {
		return v, nil
	}
	return o.coerce(o, v)
}

// Format renders v in the string form Coerce parses.
func (o *Option) Format(v any) string {
	if v == nil {
		return ""
	}
	if o.format == nil {
		return fmt.Sprint(v)
	}
	return o.format(o, v)
}

// clone returns a copy with the same codec and metadata.
func (o *Option) clone() *Option {
	c := *o
	return &c
}

// withDefault sets the default by coercing v.
func (o *Option) withDefault(v any) error {
	val, err := o.Coerce(v)
	if err != nil {
		return err
	}
	o.def = val
	return nil
}

// merge copies metadata set on other and takes its default.
func (o *Option) merge(other *Option) error {
	if other.Help != "" {
		o.Help = other.Help
	}
	if other.Short != "" {
		o.Short = other.Short
	}
	if other.Positional {
		o.Positional = true
	}
	if other.kind == KindBool && o.kind == KindBool {
		o.Negatable = other.Negatable
	}
	if other.def == nil {
		return nil
	}
	return o.withDefault(other.def)
}

func newOption(kind Kind, def any, coerce func(*Option, any) (any, error), format func(*Option, any) string, opts []OptionFunc) *Option {
	o := &Option{kind: kind, coerce: coerce, format: format, separator: ","}
	for _, fn := range opts {
		fn(o)
	}
	if err := o.withDefault(def); err != nil {
		panic(fmt.Sprintf("config: invalid %s default %v: %v", kind, def, err))
	}
	return o
}

// Bool declares a boolean option. Bool options are negatable unless NoNegation is given.
func Bool(def bool, opts ...OptionFunc) *Option {
	return newOption(KindBool, def, coerceBool, formatScalar, append([]OptionFunc{negatable}, opts...))
}

func negatable(o *Option) { o.Negatable = true }

// Int declares an integer option. Values are stored as int64.
func Int(def int64, opts ...OptionFunc) *Option {
	return newOption(KindInt, def, coerceInt, formatScalar, opts)
}

// Float declares a float64 option.
func Float(def float64, opts ...OptionFunc) *Option {
	return newOption(KindFloat, def, coerceFloat, formatFloat, opts)
}

// String declares a string option.
func String(def string, opts ...OptionFunc) *Option {
	return newOption(KindString, def, coerceString, formatScalar, opts)
}

// Path declares a path option. "~" and environment variables are expanded.
func Path(def string, opts ...OptionFunc) *Option {
	return newOption(KindPath, def, coercePath, formatScalar, opts)
}

// List declares a []string option parsed by splitting on the separator.
func List(def []string, opts ...OptionFunc) *Option {
	if def == nil {
		def = []string{}
	}
	return newOption(KindList, def, coerceList, formatList, opts)
}

// PathList declares a list of paths. Each element is expanded and globbed.
func PathList(def []string, opts ...OptionFunc) *Option {
	if def == nil {
		def = []string{}
	}
	return newOption(KindPathList, def, coercePathList, formatList, opts)
}

// FileSize declares a byte count parsed from sizes like "5.54G" or "2 MiB".
func FileSize(def string, opts ...OptionFunc) *Option {
	return newOption(KindFileSize, def, coerceFileSize, formatScalar, opts)
}

// Dict declares a map[string]string option parsed from "k:v,k:v".
// A literal ':' or ',' is escaped with a backslash.
func Dict(def string, opts ...OptionFunc) *Option {
	return DictOf[string, string](def, nil, nil, opts...)
}

// DictOf declares a dict option with typed keys and values.
// A nil parser means the element type is decoded weakly from the string.
func DictOf[K comparable, V any](def string, parseKey func(string) (K, error), parseValue func(string) (V, error), opts ...OptionFunc) *Option {
	if parseKey == nil {
		parseKey = weakParser[K]()
	}
	if parseValue == nil {
		parseValue = weakParser[V]()
	}
	coerce := func(o *Option, v any) (any, error) {
		switch val := v.(type) {
		case map[K]V:
			return val, nil
		case string:
			return parseDict(val, o.separator, parseKey, parseValue)
		default:
			return decodeWeak[map[K]V](v)
		}
	}
	return newOption(KindDict, def, coerce, formatDict, opts)
}

// Duration declares a time.Duration option.
func Duration(def time.Duration, opts ...OptionFunc) *Option {
	return newOption(KindDuration, def, coerceDuration, formatScalar, opts)
}

// Any declares an option whose type is taken from def.
// Strings and foreign values are decoded weakly into that type.
func Any(def any, opts ...OptionFunc) *Option {
	if def == nil {
		return newOption(KindAny, nil, nil, nil, opts)
	}
	typ := reflect.TypeOf(def)
	coerce := func(o *Option, v any) (any, error) {
		if reflect.TypeOf(v) == typ {
			return v, nil
		}
		return decodeWeakType(v, typ)
	}
	return newOption(KindAny, def, coerce, formatScalar, opts)
}

// wrap turns a plain default value into an option by inferring its type.
func wrap(v any) *Option {
	switch val := v.(type) {
	case *Option:
		return val.clone()
	case Option:
		return val.clone()
	case bool:
		return Bool(val)
	case int:
		return Int(int64(val))
	case int8, int16, int32, int64, uint8, uint16, uint32:
		return Int(reflect.ValueOf(val).Convert(reflect.TypeOf(int64(0))).Int())
	case float32:
		return Float(float64(val))
	case float64:
		return Float(val)
	case string:
		return String(val)
	case []string:
		return List(val)
	case time.Duration:
		return Duration(val)
	case map[string]string:
		o := Dict("")
		o.def = val
		return o
	default:
		return Any(v)
	}
}
