package terminal

import (
	"bytes"
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

func TestCopyProgress(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	data := bytes.Repeat([]byte("0123456789abcdef"), 64*1024)
	src := filepath.Join(dir, "source.bin")
	require.NoError(t, os.WriteFile(src, data, 0600))
	destDir := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(destDir, 0755))

	term, buf := newTestTerminal(80)
	require.NoError(t, CopyProgress(context.Background(), term, src, destDir, 5*time.Millisecond))

	copied, err := os.ReadFile(filepath.Join(destDir, "source.bin"))
	require.NoError(t, err)
	assert.Equal(t, data, copied)

	assert.Contains(t, buf.String(), "100.00% (1.0 MiB)")
	assert.False(t, term.Locked())
	assert.Equal(t, 0, term.Lines())
}

func TestCopyProgressErrors(t *testing.T) {
	defer goleak.VerifyNone(t)
	dir := t.TempDir()

	t.Run("MissingSource", func(t *testing.T) {
		term, _ := newTestTerminal(80)
		err := CopyProgress(context.Background(), term, filepath.Join(dir, "nope"), dir, 0)
		assert.True(t, errors.IsCode(err, errors.ErrInvalidInput))
	})

	t.Run("Canceled", func(t *testing.T) {
		src := filepath.Join(dir, "src")
		require.NoError(t, os.WriteFile(src, []byte("content"), 0600))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		term, _ := newTestTerminal(80)
		err := CopyProgress(ctx, term, src, filepath.Join(dir, "dst"), time.Millisecond)
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, term.Locked())
	})
}
