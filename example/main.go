// FILE: tek/example/main.go

// Command example walks through the layered config registry: defaults, a
// config file, environment variables, command line flags and live reloads.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog/log"

	"github.com/tekutils/tek/config"
	"github.com/tekutils/tek/logging"
)

// ServerConfig is scanned from the "server" section.
type ServerConfig struct {
	Host     string        `config:"host"`
	Port     int64         `config:"port"`
	LogLevel string        `config:"log_level"`
	Timeout  time.Duration `config:"timeout"`
}

func main() {
	if err := logging.Setup(logging.Config{File: "-"}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Example failed")
	}
}

func run() error {
	dir, err := os.MkdirTemp("", "tek-example")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "example.conf")

	// Part 1: write a template holding every default, then uncomment one key.
	log.Info().Msg("Part 1: writing initial configuration file")
	defaults := map[string]any{
		"host":      "localhost",
		"port":      config.Int(8080, config.Help("listen port"), config.Short("p")),
		"log_level": "info",
		"timeout":   config.Duration(30 * time.Second),
	}
	tmpl := config.NewRegistry(config.DefaultOptions())
	if err := tmpl.RegisterConfig("example", "server", defaults); err != nil {
		return err
	}
	if err := tmpl.WriteConfig(path); err != nil {
		return err
	}
	if err := writeConfig(path, "[server]\nlog_level = warn\n"); err != nil {
		return err
	}

	// Part 2: build the registry. Env beats the file, flags beat env.
	log.Info().Msg("Part 2: building registry from all layers")
	os.Setenv("EXAMPLE_SERVER_PORT", "8888")
	defer os.Unsetenv("EXAMPLE_SERVER_PORT")

	var server ServerConfig
	r, err := config.NewBuilder().
		WithEnvPrefix("EXAMPLE_").
		WithFiles("example", path).
		WithSection("example", "server", defaults).
		WithArgs([]string{"--host", "0.0.0.0"}).
		WithValidator(config.Required("server.host", "server.port")).
		BuildAndScan("server", &server)
	if err != nil {
		return err
	}
	printState("Initial state", server)

	cfg, err := r.Section("server")
	if err != nil {
		return err
	}
	fmt.Print(cfg.Info())

	// Part 3: a client reads lazily and sees every reload.
	level := config.NewLazy[string](r.Connect("server"), "log_level")

	log.Info().Msg("Part 3: watching the file for changes")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes, err := r.WatchWithOptions(ctx, "example", config.WatchOptions{Debounce: 100 * time.Millisecond})
	if err != nil {
		return err
	}

	go func() {
		time.Sleep(500 * time.Millisecond)
		log.Info().Msg("Modifier: changing file on disk")
		if err := writeConfig(path, "[server]\nlog_level = debug\ntimeout = 1m\n"); err != nil {
			log.Error().Err(err).Msg("Modifier failed")
		}
	}()

	timeout := time.After(5 * time.Second)
	for seen := 0; seen < 2; {
		select {
		case key := <-changes:
			log.Info().Str("key", key).Msg("Watcher detected a change")
			seen++
		case <-timeout:
			return fmt.Errorf("timed out waiting for watcher notification")
		}
	}

	v, err := level.Get()
	if err != nil {
		return err
	}
	if v != "debug" {
		return fmt.Errorf("expected log_level debug, got %q", v)
	}
	if err := r.Scan("server", &server); err != nil {
		return err
	}
	printState("Final state", server)
	return nil
}

func writeConfig(path, content string) error {
	return renameio.WriteFile(path, []byte(content), 0644)
}

func printState(title string, s ServerConfig) {
	fmt.Println("--------------------------------------------------")
	fmt.Printf("  %s\n", title)
	fmt.Println("--------------------------------------------------")
	fmt.Printf("  Host:      %s\n", s.Host)
	fmt.Printf("  Port:      %d\n", s.Port)
	fmt.Printf("  Log level: %s\n", s.LogLevel)
	fmt.Printf("  Timeout:   %s\n", s.Timeout)
}
