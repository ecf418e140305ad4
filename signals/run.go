package signals

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tekutils/tek/errors"
	"github.com/tekutils/tek/logging"
)

// Run calls fn with a context canceled on SIGINT or SIGTERM and returns the
// exit code: 0 on success, 1 if fn failed or panicked. Failures are logged.
// With logging.DebugEnv set, a panic is re-raised after logging.
func Run(fn func(ctx context.Context) error) int {
	return RunContext(context.Background(), fn)
}

// RunContext is Run with a parent context.
func RunContext(parent context.Context, fn func(ctx context.Context) error) (code int) {
	logger := logging.Component("run")
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		logger.Error().Str("panic", fmt.Sprint(r)).Msg("Unexpected failure")
		if logging.DebugEnabled() {
			panic(r)
		}
		code = 1
	}()

	if err := fn(ctx); err != nil {
		event := logger.Error().Err(err)
		if c := errors.CodeOf(err); c != "" {
			event = event.Str("code", string(c))
		}
		event.Msg("Command failed")
		return 1
	}
	return 0
}
