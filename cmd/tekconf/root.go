package main

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tekutils/tek/config"
	"github.com/tekutils/tek/logging"
)

type rootOptions struct {
	verbosity int
	logFile   string
	files     []string
	app       string
	envPrefix string
	noColor   bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "tekconf",
		Short: "Write config templates and inspect resolved configuration",
		Long: `tekconf reads a TOML spec describing config sections and their defaults.
It writes commented config templates for them and shows how files,
environment variables and command line arguments resolve each key.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := logging.Setup(logging.Config{
				Level:  verbosityLevel(opts.verbosity),
				Output: cmd.ErrOrStderr(),
				File:   opts.logFile,
			}); err != nil {
				return err
			}
			if opts.noColor || !isTerminal(cmd.OutOrStdout()) {
				pterm.DisableStyling()
			}
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG)")
	flags.StringVar(&opts.logFile, "log-file", "", `Log file path ("-" disables file logging)`)
	flags.StringSliceVarP(&opts.files, "config", "c", nil, "Config files to read, later files win")
	flags.StringVar(&opts.app, "app", "", "Discover the standard config files of this application")
	flags.StringVar(&opts.envPrefix, "env-prefix", "", "Read PREFIX_SECTION_KEY environment variables")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(
		newTemplateCmd(opts),
		newShowCmd(opts),
		newGetCmd(opts),
		newDumpCmd(opts),
	)
	return cmd
}

func verbosityLevel(v int) string {
	switch {
	case v <= 0:
		return "warn"
	case v == 1:
		return "info"
	default:
		return "debug"
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

const fileAlias = "tekconf"

// buildRegistry registers the sections of the spec file against the selected files and
// parses args as their command line.
func (o *rootOptions) buildRegistry(specPath string, args []string) (*config.Registry, error) {
	sections, err := loadSpec(specPath)
	if err != nil {
		return nil, err
	}

	b := config.NewBuilder().WithEnvPrefix(o.envPrefix)
	if o.app != "" {
		b = b.WithDiscovery(fileAlias, o.app)
	} else {
		b = b.WithFiles(fileAlias, o.files...)
	}
	for _, name := range sortedSections(sections) {
		b = b.WithSection(fileAlias, name, sections[name])
	}
	if args != nil {
		b = b.WithArgs(args)
	}
	return b.Build()
}

func sortedSections(sections map[string]map[string]any) []string {
	return slices.Sorted(maps.Keys(sections))
}

func newTemplateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "template SPEC [OUT]",
		Short: "Write a commented config template",
		Long:  `Write a config file template with every key commented out. Without OUT, or with "-", the template goes to stdout.`,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.buildRegistry(args[0], nil)
			if err != nil {
				return err
			}
			if len(args) == 1 || args[1] == "-" {
				return r.WriteTemplate(cmd.OutOrStdout())
			}
			if err := r.WriteConfig(args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", args[1])
			return nil
		},
	}
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show SPEC [-- ARGS...]",
		Short: "Show every resolved key and the layer it came from",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.buildRegistry(args[0], args[1:])
			if err != nil {
				return err
			}
			return renderTable(cmd.OutOrStdout(), r)
		},
	}
}

func renderTable(w io.Writer, r *config.Registry) error {
	data := pterm.TableData{{"Section", "Key", "Value", "Source"}}
	for _, name := range r.Sections() {
		cfg, err := r.Section(name)
		if err != nil {
			return err
		}
		for _, key := range cfg.Keys() {
			value, _ := cfg.Get(key)
			data = append(data, []string{name, key, formatValue(cfg, key, value), string(effectiveSource(cfg, key))})
		}
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, table)

	env := r.DiscoverEnv()
	if len(env) == 0 {
		return nil
	}
	lines := make([]string, 0, len(env))
	for path, name := range env {
		lines = append(lines, fmt.Sprintf("%s <- %s", path, name))
	}
	fmt.Fprintln(w, "Environment:")
	slices.Sort(lines)
	for _, line := range lines {
		fmt.Fprintln(w, "  "+line)
	}
	return nil
}

func effectiveSource(cfg *config.Configuration, key string) config.Source {
	sources, err := cfg.Sources(key)
	if err != nil {
		return ""
	}
	for _, src := range config.Precedence {
		if _, ok := sources[src]; ok {
			return src
		}
	}
	return ""
}

func formatValue(cfg *config.Configuration, key string, value any) string {
	if opt := cfg.Option(key); opt != nil {
		return opt.Format(value)
	}
	return fmt.Sprint(value)
}

func newGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get SPEC SECTION.KEY [-- ARGS...]",
		Short: "Print one resolved value",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			section, key, ok := strings.Cut(args[1], ".")
			if !ok {
				return fmt.Errorf("expected SECTION.KEY, got %q", args[1])
			}
			r, err := opts.buildRegistry(args[0], args[2:])
			if err != nil {
				return err
			}
			cfg, err := r.Section(section)
			if err != nil {
				return err
			}
			value, err := cfg.Get(key)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatValue(cfg, key, value))
			return nil
		},
	}
}

func newDumpCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dump SPEC [-- ARGS...]",
		Short: "Print all resolved values as TOML",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.buildRegistry(args[0], args[1:])
			if err != nil {
				return err
			}
			return r.Dump(cmd.OutOrStdout())
		},
	}
}
