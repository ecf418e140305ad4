// Package cpu measures the CPU time spent by the process.
package cpu

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tekutils/tek/logging"
)

var enabled atomic.Bool

func init() { enabled.Store(true) }

// SetEnabled turns timer logging on or off for all timers.
func SetEnabled(on bool) { enabled.Store(on) }

// Timer measures the user CPU time between Start and Stop.
type Timer struct {
	label  string
	log    bool
	start  time.Duration
	end    time.Duration
	logger zerolog.Logger
}

// Start starts a timer that logs its result at info level when stopped.
func Start(label string) *Timer {
	return start(label, true)
}

// StartQuiet starts a timer that does not log.
func StartQuiet(label string) *Timer {
	return start(label, false)
}

func start(label string, log bool) *Timer {
	if label == "" {
		label = "cpu time"
	}
	return &Timer{
		label:  label,
		log:    log,
		start:  userTime(),
		logger: logging.Component("cpu"),
	}
}

// Stop records the end and returns the elapsed CPU time.
func (t *Timer) Stop() time.Duration {
	t.end = userTime()
	if t.log && enabled.Load() {
		t.logger.Info().Str("label", t.label).Dur("cpu", t.Elapsed()).Msgf("%s: %.3fs", t.label, t.Elapsed().Seconds())
	}
	return t.Elapsed()
}

// Elapsed is the CPU time between Start and Stop.
func (t *Timer) Elapsed() time.Duration {
	return t.end - t.start
}

// Timed runs fn under a logging timer labelled label.
func Timed(label string, fn func() error) error {
	t := Start(label)
	defer t.Stop()
	return fn()
}
