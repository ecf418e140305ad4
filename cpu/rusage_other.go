//go:build !unix

package cpu

import "time"

var processStart = time.Now()

// userTime falls back to wall time where rusage is unavailable.
func userTime() time.Duration {
	return time.Since(processStart)
}
