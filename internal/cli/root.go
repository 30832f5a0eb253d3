// Package cli implements the reel command line.
package cli

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/llehouerou/reel/internal/config"
)

// Options are the root command's flags.
type Options struct {
	ConfigPath string
	Engine     string
	NoState    bool
	Headless   bool
}

func newRootCmd() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "reel [files...]",
		Short: "Play media clips laid out on a shared timeline",
		Long: "reel places audio and video clips on one timeline and plays them\n" +
			"in step with a single cursor. Append @start to a file to place it,\n" +
			"e.g. reel intro.mp3 outro.mp3@1:30.",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd.Context(), opts, args, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.ConfigPath, "config", "c", "", "Read configuration from this file only")
	f.StringVarP(&opts.Engine, "engine", "e", "", "Media engine: beep or mpv (overrides the config)")
	f.BoolVar(&opts.NoState, "no-state", false, "Do not load or save placements and the cursor")
	f.BoolVar(&opts.Headless, "headless", false, "Play to the end without the terminal UI")
	lo.Must0(cmd.RegisterFlagCompletionFunc("engine", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{config.EngineBeep, config.EngineMPV}, cobra.ShellCompDirectiveNoFileComp
	}))

	cmd.AddCommand(newProbeCmd())
	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "reel: %v\n", err)
		os.Exit(1)
	}
}
