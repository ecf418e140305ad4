// FILE: tek/config/builder_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nhost = \"files.example\"\nport = 9000\n"), 0644))

	t.Run("AllLayers", func(t *testing.T) {
		t.Setenv("BLDTEST_SERVER_WORKERS", "8")

		r, err := NewBuilder().
			WithEnvPrefix("BLDTEST_").
			WithFiles("app", path).
			WithSection("app", "server", map[string]any{
				"host":    "localhost",
				"port":    8080,
				"workers": 1,
				"debug":   false,
			}).
			WithShortFlags(map[string]string{"debug": "d"}).
			WithArgs([]string{"-d", "--port", "9100"}).
			WithOverride("server", map[string]any{"host": "pinned"}).
			Build()
		require.NoError(t, err)

		var target struct {
			Host    string `config:"host"`
			Port    int    `config:"port"`
			Workers int    `config:"workers"`
			Debug   bool   `config:"debug"`
		}
		require.NoError(t, r.Scan("server", &target))
		assert.Equal(t, "pinned", target.Host)
		assert.Equal(t, 9100, target.Port)
		assert.Equal(t, 8, target.Workers)
		assert.True(t, target.Debug)
	})

	t.Run("BuildAndScan", func(t *testing.T) {
		var target struct {
			Host string `config:"host"`
		}
		_, err := NewBuilder().
			WithFiles("app", path).
			WithSection("app", "server", map[string]any{"host": "localhost"}).
			BuildAndScan("server", &target)
		require.NoError(t, err)
		assert.Equal(t, "files.example", target.Host)

		_, err = NewBuilder().BuildAndScan("server", &target)
		assert.ErrorIs(t, err, ErrNoSuchSection)
	})

	t.Run("DuplicateSection", func(t *testing.T) {
		_, err := NewBuilder().
			WithSection("a", "s", nil).
			WithSection("b", "s", nil).
			Build()
		assert.ErrorIs(t, err, ErrDuplicateSection)
	})

	t.Run("BadArgs", func(t *testing.T) {
		_, err := NewBuilder().
			WithSection("a", "s", map[string]any{"n": 1}).
			WithArgs([]string{"--n", "x"}).
			Build()
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("MustBuildPanics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewBuilder().WithSection("a", "s", nil).WithSection("b", "s", nil).MustBuild()
		})
	})
}

func TestRequired(t *testing.T) {
	build := func(args ...string) error {
		_, err := NewBuilder().
			WithSection("app", "db", map[string]any{"dsn": "", "pool": 4}).
			WithArgs(args).
			WithValidator(Required("db.dsn")).
			Build()
		return err
	}

	err := build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db.dsn")

	assert.NoError(t, build("--dsn", "postgres://localhost/app"))

	err = Required("nodot", "other.key", "db.missing")(NewBuilder().
		WithSection("app", "db", map[string]any{"dsn": ""}).
		MustBuild())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nodot (invalid path)")
	assert.Contains(t, err.Error(), "other.key (no such section)")
	assert.Contains(t, err.Error(), "db.missing (not registered)")
}
