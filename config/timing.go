// FILE: tek/config/timing.go
package config

import "time"

// Timing constants for file watching.
const (
	DefaultDebounce = 500 * time.Millisecond // File change coalescence period
	MinDebounce     = 10 * time.Millisecond  // Hard floor for the debounce period
	watchBuffer     = 10                     // Notifications buffered per watch channel
)
