// Package logging configures the zerolog logger shared by all tek packages.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DebugEnv enables debug logging and the Debug helper when set to any value.
const DebugEnv = "TEK_DEBUG"

// Config captures options for Setup.
type Config struct {
	// Level is a zerolog level name; empty means info, or debug when DebugEnv is set.
	Level string
	// Debug forces debug level.
	Debug bool
	// Output receives console output (defaults to os.Stdout).
	Output io.Writer
	// NoColor disables console colors.
	NoColor bool
	// File is the log file path. Empty uses $XDG_STATE_HOME/tek/tek.log, "-" disables it.
	File string
}

var (
	mu       sync.Mutex
	logFile  *os.File
	setupErr error
)

// DebugEnabled reports whether DebugEnv is set.
func DebugEnabled() bool {
	_, ok := os.LookupEnv(DebugEnv)
	return ok
}

// Setup configures the global logger with a console writer and an append-only log file.
// It may be called more than once; a previously opened log file is closed.
func Setup(cfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	level := zerolog.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}
	if cfg.Debug || DebugEnabled() {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.Kitchen,
		NoColor:    cfg.NoColor,
	}}

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	setupErr = nil
	if cfg.File != "-" {
		path := cfg.File
		if path == "" {
			path = filepath.Join(xdg.StateHome, "tek", "tek.log")
		}
		f, err := openLogFile(path)
		if err != nil {
			setupErr = err
		} else {
			logFile = f
			writers = append(writers, f)
		}
	}

	log.Logger = zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Logger()
	if level <= zerolog.DebugLevel {
		log.Logger = log.Logger.With().Caller().Logger()
	}
	if setupErr != nil {
		log.Warn().Err(setupErr).Msg("Failed to open log file, logging to console only")
	}
	return nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// Component returns a child of the global logger tagged with a component name.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// Debug prints "debug: <parts>" to stderr when DebugEnv is set.
func Debug(parts ...any) {
	if !DebugEnabled() {
		return
	}
	strs := make([]string, len(parts))
	for i, p := range parts {
		strs[i] = fmt.Sprint(p)
	}
	fmt.Fprintln(os.Stderr, "debug:", strings.Join(strs, " "))
}

// Silence suppresses all log output below fatal until the returned func is called.
// With active false it does nothing.
func Silence(active bool) (restore func()) {
	if !active {
		return func() {}
	}
	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.FatalLevel)
	return func() { zerolog.SetGlobalLevel(prev) }
}

// LogDuration logs the duration of an operation at debug level.
func LogDuration(logger zerolog.Logger, start time.Time, operation string) {
	logger.Debug().
		Str("operation", operation).
		Dur("duration", time.Since(start)).
		Msg("Operation completed")
}
