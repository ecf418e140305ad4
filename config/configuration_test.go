// FILE: tek/config/configuration_test.go
package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfiguration(t *testing.T, defaults map[string]any) *Configuration {
	t.Helper()
	c, err := NewConfiguration("test", defaults)
	require.NoError(t, err)
	return c
}

func TestConfigurationPrecedence(t *testing.T) {
	c := newTestConfiguration(t, map[string]any{"key": "default", "other": 1})

	val, err := c.Get("key")
	require.NoError(t, err)
	assert.Equal(t, "default", val)

	c.SetFileValues(map[string]any{"key": "file"})
	val, _ = c.Get("key")
	assert.Equal(t, "file", val)

	c.SetEnvValues(map[string]string{"key": "env"})
	val, _ = c.Get("key")
	assert.Equal(t, "env", val)

	require.NoError(t, c.SetCLIValues(map[string]any{"key": "cli"}))
	val, _ = c.Get("key")
	assert.Equal(t, "cli", val)

	require.NoError(t, c.Override(map[string]any{"key": "override"}))
	val, _ = c.Get("key")
	assert.Equal(t, "override", val)

	sources, err := c.Sources("key")
	require.NoError(t, err)
	assert.Equal(t, map[Source]any{
		SourceDefault:  "default",
		SourceFile:     "file",
		SourceEnv:      "env",
		SourceCLI:      "cli",
		SourceOverride: "override",
	}, sources)

	t.Run("OverrideWinsOverLaterLayers", func(t *testing.T) {
		c.SetFileValues(map[string]any{"key": "file2"})
		require.NoError(t, c.SetCLIValues(map[string]any{"key": "cli2"}))
		val, _ := c.Get("key")
		assert.Equal(t, "override", val)
	})

	t.Run("RemovingFileValueFallsBack", func(t *testing.T) {
		c.SetFileValues(map[string]any{"other": "5"})
		v, err := c.Int64("other")
		require.NoError(t, err)
		assert.Equal(t, int64(5), v)

		c.SetFileValues(nil)
		v, _ = c.Int64("other")
		assert.Equal(t, int64(1), v)
	})
}

func TestConfigurationCoercion(t *testing.T) {
	c := newTestConfiguration(t, map[string]any{
		"port":    8080,
		"debug":   false,
		"tags":    List([]string{"a"}),
		"timeout": 5 * time.Second,
	})

	t.Run("FileStringsAreTyped", func(t *testing.T) {
		c.SetFileValues(map[string]any{"port": "9090", "debug": "yes", "tags": "x, y", "timeout": "1m"})
		assert.Equal(t, map[string]any{
			"port":    int64(9090),
			"debug":   true,
			"tags":    []string{"x", "y"},
			"timeout": time.Minute,
		}, c.Values())
	})

	t.Run("BadFileValueIsSkipped", func(t *testing.T) {
		c.SetFileValues(map[string]any{"port": "not-a-number"})
		v, err := c.Get("port")
		require.NoError(t, err)
		assert.Equal(t, int64(8080), v)
	})

	t.Run("BadCLIValueFails", func(t *testing.T) {
		err := c.SetCLIValues(map[string]any{"port": "eighty"})
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("BadCLIValueKeepsValidOnes", func(t *testing.T) {
		err := c.SetCLIValues(map[string]any{"port": "eighty", "debug": "on"})
		assert.ErrorIs(t, err, ErrInvalidValue)
		assert.Contains(t, err.Error(), "port")
		debug, _ := c.Bool("debug")
		assert.True(t, debug)
	})

	t.Run("BadOverrideFails", func(t *testing.T) {
		err := c.Override(map[string]any{"debug": "perhaps"})
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("CLIFilteredToDeclaredKeys", func(t *testing.T) {
		require.NoError(t, c.SetCLIValues(map[string]any{"unknown": "x", "port": "1"}))
		assert.False(t, c.Has("unknown"))
		v, _ := c.Int64("port")
		assert.Equal(t, int64(1), v)
	})

	t.Run("EnvFilteredToDeclaredKeys", func(t *testing.T) {
		c.SetEnvValues(map[string]string{"stray": "x"})
		assert.False(t, c.Has("stray"))
	})
}

func TestConfigurationUndeclaredKeys(t *testing.T) {
	c := newTestConfiguration(t, map[string]any{"declared": "x"})

	c.SetFileValues(map[string]any{"fileonly": "value", "DECLARED": "y"})

	val, err := c.Get("fileonly")
	require.NoError(t, err)
	assert.Equal(t, "value", val)

	val, _ = c.Get("declared")
	assert.Equal(t, "y", val, "file keys match declared keys case-insensitively")

	require.NoError(t, c.Override(map[string]any{"extra": 3}))
	val, _ = c.Get("extra")
	assert.Equal(t, 3, val)

	assert.Equal(t, []string{"declared", "fileonly", "extra"}, c.Keys())

	c.SetFileValues(nil)
	assert.False(t, c.Has("fileonly"))
}

func TestConfigurationErrors(t *testing.T) {
	c := newTestConfiguration(t, map[string]any{"a": 1})

	_, err := c.Get("missing")
	assert.ErrorIs(t, err, ErrNoSuchOption)
	assert.Contains(t, err.Error(), "No such config option: missing")

	_, err = c.Sources("missing")
	assert.ErrorIs(t, err, ErrNoSuchOption)

	_, err = c.String("missing")
	assert.ErrorIs(t, err, ErrNoSuchOption)
}

func TestSetDefaultsMerges(t *testing.T) {
	c := newTestConfiguration(t, map[string]any{"level": Int(1, Help("verbosity"))})
	c.SetFileValues(map[string]any{"level": "3"})

	require.NoError(t, c.SetDefaults(map[string]any{"level": 2, "new": "n"}))

	val, _ := c.Get("level")
	assert.Equal(t, int64(3), val, "file value still wins")
	assert.Equal(t, int64(2), c.Option("level").Default())
	assert.Equal(t, "verbosity", c.Option("level").Help)

	require.NoError(t, c.SetDefaults(map[string]any{"level": Int(5, Short("l"))}))
	assert.Equal(t, "verbosity", c.Option("level").Help)
	assert.Equal(t, "l", c.Option("level").Short)
	assert.Equal(t, int64(5), c.Option("level").Default())

	err := c.SetDefaults(map[string]any{"level": "high"})
	assert.ErrorIs(t, err, ErrInvalidValue)

	t.Run("DeclaringFileOnlyKeyTypesIt", func(t *testing.T) {
		c.SetFileValues(map[string]any{"late": "42"})
		val, _ := c.Get("late")
		assert.Equal(t, "42", val)

		require.NoError(t, c.SetDefaults(map[string]any{"late": 0}))
		val, _ = c.Get("late")
		assert.Equal(t, int64(42), val)
	})
}

func TestTypedAccessors(t *testing.T) {
	c := newTestConfiguration(t, map[string]any{
		"s": "text",
		"i": 7,
		"f": 1.25,
		"b": true,
		"l": []string{"a", "b"},
		"d": 2 * time.Second,
	})

	s, err := c.String("i")
	require.NoError(t, err)
	assert.Equal(t, "7", s)

	i, err := c.Int64("i")
	require.NoError(t, err)
	assert.Equal(t, int64(7), i)

	f, err := c.Float64("f")
	require.NoError(t, err)
	assert.Equal(t, 1.25, f)

	b, err := c.Bool("b")
	require.NoError(t, err)
	assert.True(t, b)

	l, err := c.Strings("l")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, l)

	d, err := c.Duration("d")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, d)

	_, err = c.Int64("s")
	assert.Error(t, err)
}

func TestConfigurationScan(t *testing.T) {
	c := newTestConfiguration(t, map[string]any{
		"host":    "localhost",
		"port":    8080,
		"timeout": 30 * time.Second,
		"tags":    []string{"a"},
	})
	c.SetFileValues(map[string]any{"port": "9000", "tags": "x,y"})

	var target struct {
		Host    string        `config:"host"`
		Port    int           `config:"port"`
		Timeout time.Duration `config:"timeout"`
		Tags    []string      `config:"tags"`
	}
	require.NoError(t, c.Scan(&target))

	assert.Equal(t, "localhost", target.Host)
	assert.Equal(t, 9000, target.Port)
	assert.Equal(t, 30*time.Second, target.Timeout)
	assert.Equal(t, []string{"x", "y"}, target.Tags)

	assert.Error(t, c.Scan(target), "non-pointer target")
}

func TestConfigurationInfo(t *testing.T) {
	c := newTestConfiguration(t, map[string]any{"a": 1, "b": "x"})
	c.SetFileValues(map[string]any{"b": "y"})

	want := "default: {a=1, b=x}\n" +
		"file: {b=y}\n" +
		"env: {}\n" +
		"cli: {}\n" +
		"override: {}\n"
	if diff := cmp.Diff(want, c.Info()); diff != "" {
		t.Errorf("Info() mismatch (-want +got):\n%s", diff)
	}
}
