package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"

	"github.com/rfkalmar/logan/pkg/config"
	"github.com/rfkalmar/logan/pkg/render"
)

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	colorMode string
	noSummary bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "logan",
		Short: "Annotate and filter log files with declarative pattern rules",
		Long: `logan processes a log file in a single pass and annotates or filters
its lines: color-highlighting lines matching patterns, capturing events
delimited by start/end pattern pairs, and surfacing state transitions.

Rules come from subcommand flags or from a config file (use-config).
An INPUT of "-" reads from standard input.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.colorMode, "color", "auto", `when to emit colors: "auto", "always" or "never"`)
	pf.BoolVar(&opts.noSummary, "no-summary", false, "suppress the end-of-run tracker summary")

	cmd.AddCommand(
		newColorizeCmd(opts),
		newEventsCmd(opts),
		newStatesCmd(opts),
		newUseConfigCmd(opts),
	)
	return cmd
}

func newColorizeCmd(root *rootOptions) *cobra.Command {
	var (
		prefix string
		rules  []string
	)
	cmd := &cobra.Command{
		Use:   "colorize -p PATTERN=COLOR [-p ...] INPUT",
		Short: "Color lines matching patterns, first match wins",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &config.Config{Prefix: prefix}
			for _, rule := range rules {
				patternValue, colorValue, err := splitPatternColor(rule)
				if err != nil {
					return err
				}
				cfg.PatternColors = append(cfg.PatternColors, config.PatternColor{
					Pattern: patternValue,
					Color:   colorValue,
				})
			}
			return runWithConfig(root, cfg, args[0])
		},
	}
	addPrefixFlag(cmd.Flags(), &prefix)
	cmd.Flags().StringArrayVarP(&rules, "pattern", "p", nil,
		"PATTERN=COLOR rule (repeatable, evaluated in order)")
	_ = cmd.MarkFlagRequired("pattern")
	return cmd
}

func newEventsCmd(root *rootOptions) *cobra.Command {
	var (
		prefix string
		color  string
	)
	cmd := &cobra.Command{
		Use:   "events [flags] START END INPUT",
		Short: "Capture line spans between a start and an end pattern",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			colorValue, err := config.ParseColor(color)
			if err != nil {
				return err
			}
			cfg := &config.Config{
				Prefix: prefix,
				EventPatterns: []config.EventPattern{
					{StartPattern: args[0], EndPattern: args[1], Color: colorValue},
				},
			}
			return runWithConfig(root, cfg, args[2])
		},
	}
	addPrefixFlag(cmd.Flags(), &prefix)
	cmd.Flags().StringVarP(&color, "color-tag", "c", "6", "palette index (0-255) for event lines")
	return cmd
}

func newStatesCmd(root *rootOptions) *cobra.Command {
	var (
		prefix string
		color  string
	)
	cmd := &cobra.Command{
		Use:   "states [flags] PATTERN INPUT",
		Short: "Surface state transition lines matching a pattern",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			colorValue, err := config.ParseColor(color)
			if err != nil {
				return err
			}
			cfg := &config.Config{
				Prefix: prefix,
				StatePatterns: []config.StatePattern{
					{Pattern: args[0], Color: colorValue},
				},
			}
			return runWithConfig(root, cfg, args[1])
		},
	}
	addPrefixFlag(cmd.Flags(), &prefix)
	cmd.Flags().StringVarP(&color, "color-tag", "c", "5", "palette index (0-255) for transition lines")
	return cmd
}

func newUseConfigCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "use-config CONFIG INPUT",
		Short: "Load colorize/event/state rules from a config file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			return runWithConfig(root, cfg, args[1])
		},
	}
}

func addPrefixFlag(fs *flag.FlagSet, prefix *string) {
	fs.StringVarP(prefix, "prefix", "P", "", "prefix prepended to every pattern")
}

// splitPatternColor splits a -p value at its last "=" so the pattern part
// may itself contain "=".
func splitPatternColor(rule string) (string, config.ColorValue, error) {
	i := strings.LastIndex(rule, "=")
	if i <= 0 {
		return "", 0, fmt.Errorf("invalid pattern rule %q (want PATTERN=COLOR)", rule)
	}
	color, err := config.ParseColor(rule[i+1:])
	if err != nil {
		return "", 0, err
	}
	return rule[:i], color, nil
}

// runWithConfig validates and builds the processor, opens the input, and
// drives the run. All pattern errors surface here, before the first line
// is read.
func runWithConfig(root *rootOptions, cfg *config.Config, input string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	proc, err := cfg.Build()
	if err != nil {
		return err
	}

	mode, err := render.ParseMode(root.colorMode)
	if err != nil {
		return err
	}

	in, closeIn, err := openInput(input)
	if err != nil {
		return err
	}
	defer closeIn()

	app := NewApplication(proc, render.NewRenderer(render.Enabled(mode, os.Stdout)), os.Stdout)
	app.ShowSummary = !root.noSummary
	return app.Run(in)
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	// #nosec G304 - the input path is supplied by the user on the command line
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
