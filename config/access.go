// FILE: tek/config/access.go
package config

import (
	"fmt"
	"reflect"
	"strconv"
	"time"
)

// String retrieves a string value.
// Attempts conversion from common types if the stored value isn't already a string.
func (c *Configuration) String(key string) (string, error) {
	val, err := c.Get(key)
	if err != nil {
		return "", err
	}
	if val == nil {
		return "", nil
	}

	switch v := val.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	case []byte:
		return string(v), nil
	case int, int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(val).Int(), 10), nil
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(reflect.ValueOf(val).Uint(), 10), nil
	case float32, float64:
		return strconv.FormatFloat(reflect.ValueOf(val).Float(), 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", fmt.Errorf("cannot convert type %T to string for key %s", val, key)
	}
}

// Int64 retrieves an integer value.
// Attempts conversion from numeric types and parsable strings.
func (c *Configuration) Int64(key string) (int64, error) {
	val, err := c.Get(key)
	if err != nil {
		return 0, err
	}
	if val == nil {
		return 0, fmt.Errorf("value for key %s is nil, cannot convert to int64", key)
	}
	v, err := coerceInt(nil, val)
	if err != nil {
		return 0, fmt.Errorf("key %s: %w", key, err)
	}
	return v.(int64), nil
}

// Float64 retrieves a float value.
func (c *Configuration) Float64(key string) (float64, error) {
	val, err := c.Get(key)
	if err != nil {
		return 0, err
	}
	if val == nil {
		return 0, fmt.Errorf("value for key %s is nil, cannot convert to float64", key)
	}
	v, err := coerceFloat(nil, val)
	if err != nil {
		return 0, fmt.Errorf("key %s: %w", key, err)
	}
	return v.(float64), nil
}

// Bool retrieves a boolean value.
// Numbers are true when non-zero; strings accept yes/no/on/off as well.
func (c *Configuration) Bool(key string) (bool, error) {
	val, err := c.Get(key)
	if err != nil {
		return false, err
	}
	if val == nil {
		return false, fmt.Errorf("value for key %s is nil, cannot convert to bool", key)
	}
	v, err := coerceBool(nil, val)
	if err != nil {
		return false, fmt.Errorf("key %s: %w", key, err)
	}
	return v.(bool), nil
}

// Strings retrieves a list value. A string is split on commas.
func (c *Configuration) Strings(key string) ([]string, error) {
	val, err := c.Get(key)
	if err != nil {
		return nil, err
	}
	if val == nil {
		return nil, nil
	}
	v, err := coerceList(&Option{separator: ","}, val)
	if err != nil {
		return nil, fmt.Errorf("key %s: %w", key, err)
	}
	return v.([]string), nil
}

// Duration retrieves a duration value.
func (c *Configuration) Duration(key string) (time.Duration, error) {
	val, err := c.Get(key)
	if err != nil {
		return 0, err
	}
	v, err := coerceDuration(nil, val)
	if err != nil {
		return 0, fmt.Errorf("key %s: %w", key, err)
	}
	return v.(time.Duration), nil
}
