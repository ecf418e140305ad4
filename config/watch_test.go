// FILE: tek/config/watch_test.go
package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tekutils/tek/errors"
)

func TestReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.conf")
	require.NoError(t, os.WriteFile(path, []byte("[net]\nport = 1\nhost = a\n"), 0644))

	r := NewRegistry(DefaultOptions())
	r.RegisterFiles("app", path)
	require.NoError(t, r.RegisterConfig("app", "net", map[string]any{"port": 0, "timeout": 5}))

	assert.Empty(t, r.Reload("app"), "unchanged files report nothing")

	require.NoError(t, os.WriteFile(path, []byte("[net]\nport = 2\ntimeout = 5\n"), 0644))
	assert.Equal(t, []string{"net.host", "net.port"}, r.Reload("app"))

	port, _ := r.Get("net", "port")
	assert.Equal(t, int64(2), port)

	assert.Nil(t, r.Reload("unknown"))
}

func TestWatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "app.conf")
	require.NoError(t, os.WriteFile(path, []byte("[net]\nport = 1\n"), 0644))

	r := NewRegistry(DefaultOptions())
	r.RegisterFiles("app", path)
	require.NoError(t, r.RegisterConfig("app", "net", map[string]any{"port": 0}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := r.WatchWithOptions(ctx, "app", WatchOptions{Debounce: 20 * time.Millisecond})
	require.NoError(t, err)

	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte("[net]\nport = 2\n"), 0644))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case path := <-changes:
		assert.Equal(t, "net.port", path)
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}

	port, _ := r.Get("net", "port")
	assert.Equal(t, int64(2), port)

	cancel()
	for {
		select {
		case _, ok := <-changes:
			if !ok {
				return
			}
		case <-time.After(5 * time.Second):
			t.Fatal("watch channel not closed after cancel")
		}
	}
}

func TestWatchErrors(t *testing.T) {
	r := NewRegistry(DefaultOptions())

	_, err := r.Watch(context.Background(), "nothing")
	assert.True(t, errors.IsCode(err, errors.ErrInvalidInput))

	r.RegisterFiles("gone", filepath.Join(t.TempDir(), "missing", "app.conf"))
	_, err = r.Watch(context.Background(), "gone")
	assert.True(t, errors.IsCode(err, errors.ErrInvalidInput))
}
