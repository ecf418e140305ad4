// FILE: tek/config/codec.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-viper/mapstructure/v2"
)

func formatScalar(_ *Option, v any) string {
	return fmt.Sprint(v)
}

func formatFloat(_ *Option, v any) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return fmt.Sprint(v)
}

func formatList(o *Option, v any) string {
	if list, ok := v.([]string); ok {
		return strings.Join(list, o.separator)
	}
	return fmt.Sprint(v)
}

// formatDict renders any map as "k:v,k:v" with sorted keys, escaping separators.
func formatDict(o *Option, v any) string {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return fmt.Sprint(v)
	}
	pairs := make([]string, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := escapeDict(fmt.Sprint(iter.Key().Interface()), o.separator)
		val := escapeDict(fmt.Sprint(iter.Value().Interface()), o.separator)
		pairs = append(pairs, k+":"+val)
	}
	slices.Sort(pairs)
	return strings.Join(pairs, o.separator)
}

func escapeDict(s, sep string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, ":", `\:`)
	return strings.ReplaceAll(s, sep, `\`+sep)
}

func coerceBool(_ *Option, v any) (any, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		return parseBool(val)
	case int, int64, float64:
		return reflect.ValueOf(val).Convert(reflect.TypeOf(float64(0))).Float() != 0, nil
	}
	return nil, fmt.Errorf("cannot convert %T to bool", v)
}

// parseBool accepts strconv.ParseBool forms plus yes/no/on/off.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "on", "y":
		return true, nil
	case "no", "off", "n":
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("cannot parse %q as bool", s)
	}
	return b, nil
}

func coerceInt(_ *Option, v any) (any, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > uint64(^uint64(0)>>1) {
			return nil, fmt.Errorf("integer %d overflows int64", u)
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != float64(int64(f)) {
			return nil, fmt.Errorf("%v is not an integer", f)
		}
		return int64(f), nil
	case reflect.String:
		i, err := strconv.ParseInt(strings.TrimSpace(rv.String()), 0, 64)
		if err != nil {
			return nil, fmt.Errorf("cannot parse %q as integer", rv.String())
		}
		return i, nil
	}
	return nil, fmt.Errorf("cannot convert %T to integer", v)
}

func coerceFloat(_ *Option, v any) (any, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(rv.String()), 64)
		if err != nil {
			return nil, fmt.Errorf("cannot parse %q as float", rv.String())
		}
		return f, nil
	}
	return nil, fmt.Errorf("cannot convert %T to float", v)
}

func coerceString(_ *Option, v any) (any, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case fmt.Stringer:
		return val.String(), nil
	case []byte:
		return string(val), nil
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Struct:
		return nil, fmt.Errorf("cannot convert %T to string", v)
	}
	return fmt.Sprint(v), nil
}

func coercePath(o *Option, v any) (any, error) {
	s, err := coerceString(o, v)
	if err != nil {
		return nil, err
	}
	return expandPath(s.(string)), nil
}

// expandPath expands a leading "~" and environment variables.
func expandPath(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	return os.ExpandEnv(p)
}

func coerceList(o *Option, v any) (any, error) {
	switch val := v.(type) {
	case []string:
		return val, nil
	case string:
		return splitList(val, o.separator), nil
	case []any:
		list := make([]string, 0, len(val))
		for _, e := range val {
			list = append(list, fmt.Sprint(e))
		}
		return list, nil
	}
	return nil, fmt.Errorf("cannot convert %T to list", v)
}

// splitList splits on sep and trims the elements. An empty string is an empty list.
func splitList(s, sep string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, sep)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func coercePathList(o *Option, v any) (any, error) {
	raw, err := coerceList(o, v)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, p := range raw.([]string) {
		p = expandPath(p)
		if !hasGlobMeta(p) {
			paths = append(paths, p)
			continue
		}
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", p, err)
		}
		paths = append(paths, matches...)
	}
	if paths == nil {
		paths = []string{}
	}
	return paths, nil
}

func hasGlobMeta(p string) bool {
	return strings.ContainsAny(p, `*?[\`)
}

func coerceFileSize(_ *Option, v any) (any, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return int64(rv.Float()), nil
	case reflect.String:
		n, err := humanize.ParseBytes(rv.String())
		if err != nil {
			return nil, fmt.Errorf("cannot parse %q as file size: %w", rv.String(), err)
		}
		return int64(n), nil
	}
	return nil, fmt.Errorf("cannot convert %T to file size", v)
}

func coerceDuration(_ *Option, v any) (any, error) {
	switch val := v.(type) {
	case time.Duration:
		return val, nil
	case string:
		d, err := time.ParseDuration(strings.TrimSpace(val))
		if err != nil {
			return nil, fmt.Errorf("cannot parse %q as duration", val)
		}
		return d, nil
	case int64:
		return time.Duration(val), nil
	case int:
		return time.Duration(val), nil
	}
	return nil, fmt.Errorf("cannot convert %T to duration", v)
}

// parseDict parses "k:v<sep>k:v". Backslash escapes the next character.
func parseDict[K comparable, V any](s, sep string, parseKey func(string) (K, error), parseValue func(string) (V, error)) (map[K]V, error) {
	result := make(map[K]V)
	for _, pair := range splitEscaped(s, sep) {
		if strings.TrimSpace(pair) == "" {
			continue
		}
		kv := splitEscaped(pair, ":")
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid dict entry %q", pair)
		}
		k, err := parseKey(unescape(strings.TrimSpace(kv[0])))
		if err != nil {
			return nil, fmt.Errorf("invalid dict key %q: %w", kv[0], err)
		}
		v, err := parseValue(unescape(strings.TrimSpace(kv[1])))
		if err != nil {
			return nil, fmt.Errorf("invalid dict value %q: %w", kv[1], err)
		}
		result[k] = v
	}
	return result, nil
}

// splitEscaped splits s on unescaped occurrences of sep, keeping escapes in place.
func splitEscaped(s, sep string) []string {
	var parts []string
	var cur strings.Builder
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\\' && i+1 < len(s):
			cur.WriteByte(s[i])
			cur.WriteByte(s[i+1])
			i++
		case strings.HasPrefix(s[i:], sep):
			parts = append(parts, cur.String())
			cur.Reset()
			i += len(sep) - 1
		default:
			cur.WriteByte(s[i])
		}
	}
	return append(parts, cur.String())
}

func unescape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func weakParser[T any]() func(string) (T, error) {
	return func(s string) (T, error) {
		if v, ok := any(s).(T); ok {
			return v, nil
		}
		return decodeWeak[T](s)
	}
}

// decodeWeak converts v to T using mapstructure's weakly typed decoding.
func decodeWeak[T any](v any) (T, error) {
	var out T
	if err := weakDecoder(&out).Decode(v); err != nil {
		return out, err
	}
	return out, nil
}

func decodeWeakType(v any, typ reflect.Type) (any, error) {
	ptr := reflect.New(typ)
	if err := weakDecoder(ptr.Interface()).Decode(v); err != nil {
		return nil, err
	}
	return ptr.Elem().Interface(), nil
}

func weakDecoder(target any) *mapstructure.Decoder {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          TagName,
		WeaklyTypedInput: true,
		DecodeHook:       decodeHook(),
	})
	if err != nil {
		// Only returned for a nil or non-pointer Result.
		panic(err)
	}
	return dec
}
