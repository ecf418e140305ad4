//go:build unix

package signals

import (
	"context"
	stderrors "errors"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tekutils/tek/errors"
	"github.com/tekutils/tek/logging"
)

func TestManagerHandle(t *testing.T) {
	defer goleak.VerifyNone(t)

	m := NewManager()
	defer m.Stop()
	var exitCode int
	m.exit = func(code int) { exitCode = code }

	var calls []string
	m.Interrupt(func(os.Signal) { calls = append(calls, "first") })
	remove := m.Interrupt(func(os.Signal) { calls = append(calls, "removed") })
	m.Interrupt(func(os.Signal) { calls = append(calls, "last") })
	remove()

	m.Handle(os.Interrupt)
	assert.Equal(t, []string{"last", "first"}, calls)
	assert.Equal(t, 130, exitCode)

	t.Run("NoExit", func(t *testing.T) {
		exitCode = 0
		m.SetExitOnInterrupt(false)
		m.Handle(os.Interrupt)
		assert.Equal(t, 0, exitCode)
	})
}

func TestManagerReceives(t *testing.T) {
	defer goleak.VerifyNone(t)

	m := NewManager()
	received := make(chan os.Signal, 1)
	m.Add(syscall.SIGUSR1, func(sig os.Signal) { received <- sig })

	for i := 0; i < 2; i++ {
		require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGUSR1))
		select {
		case sig := <-received:
			assert.Equal(t, syscall.SIGUSR1, sig)
		case <-time.After(5 * time.Second):
			t.Fatalf("signal %d not delivered", i+1)
		}
	}
	m.Stop()
	m.Stop()
}

func TestRun(t *testing.T) {
	assert.Equal(t, 0, Run(func(ctx context.Context) error { return nil }))
	assert.Equal(t, 1, Run(func(ctx context.Context) error {
		return errors.New(errors.ErrInvalidInput, "bad")
	}))
	assert.Equal(t, 1, Run(func(ctx context.Context) error { return stderrors.New("plain") }))

	t.Run("Panic", func(t *testing.T) {
		t.Setenv(logging.DebugEnv, "")
		os.Unsetenv(logging.DebugEnv)
		assert.Equal(t, 1, Run(func(ctx context.Context) error { panic("boom") }))
	})

	t.Run("CanceledParent", func(t *testing.T) {
		parent, cancel := context.WithCancel(context.Background())
		cancel()
		code := RunContext(parent, func(ctx context.Context) error { return ctx.Err() })
		assert.Equal(t, 1, code)
	})
}
