// FILE: tek/config/errors.go
package config

import "github.com/tekutils/tek/errors"

// Sentinel errors. Errors returned by this package match them with errors.Is
// by code, so the message of the returned error can carry the offending name.
var (
	ErrNoSuchOption       = errors.New(errors.ErrNoSuchOption, "no such config option")
	ErrNoSuchSection      = errors.New(errors.ErrNoSuchSection, "no such config section")
	ErrDuplicateSection   = errors.New(errors.ErrDuplicateSection, "config section already registered")
	ErrClientNotConnected = errors.New(errors.ErrClientNotConnected, "config client not connected")
	ErrInvalidValue       = errors.New(errors.ErrInvalidValue, "invalid config value")
	ErrConfigLoad         = errors.New(errors.ErrConfigLoad, "config file cannot be parsed")
)

func noSuchOption(key string) error {
	return errors.Newf(errors.ErrNoSuchOption, "No such config option: %s", key)
}

func noSuchSection(section string) error {
	return errors.Newf(errors.ErrNoSuchSection, "No section named '%s' had been loaded!", section)
}

func invalidValue(key string, value any, err error) error {
	return errors.Wrapf(err, errors.ErrInvalidValue, "Invalid value '%v' for '%s'", value, key)
}

func configLoad(format, path string, err error) error {
	return errors.Wrapf(err, errors.ErrConfigLoad, "failed to parse %s config file '%s'", format, path)
}

func duplicateSection(section, owner, alias string) error {
	return errors.Newf(errors.ErrDuplicateSection,
		"Config defaults section '%s' already added from '%s', not '%s'", section, owner, alias)
}
