package cpu

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func spin(d time.Duration) {
	deadline := time.Now().Add(d)
	x := 0
	for time.Now().Before(deadline) {
		x++
	}
	_ = x
}

func TestTimer(t *testing.T) {
	timer := StartQuiet("")
	spin(50 * time.Millisecond)
	elapsed := timer.Stop()

	assert.Equal(t, elapsed, timer.Elapsed())
	assert.Positive(t, elapsed)
	assert.Equal(t, "cpu time", timer.label)
}

func TestTimed(t *testing.T) {
	SetEnabled(false)
	t.Cleanup(func() { SetEnabled(true) })

	want := errors.New("boom")
	err := Timed("work", func() error {
		spin(time.Millisecond)
		return want
	})
	assert.ErrorIs(t, err, want)
}
