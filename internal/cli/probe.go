package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/llehouerou/reel/internal/config"
	rlog "github.com/llehouerou/reel/internal/log"
	"github.com/llehouerou/reel/internal/media"
	"github.com/llehouerou/reel/internal/ui/render"
)

func newProbeCmd() *cobra.Command {
	var configPath, engine string
	cmd := &cobra.Command{
		Use:   "probe files...",
		Short: "Print the duration and size reel reads from each file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if engine != "" {
				cfg.Engine = engine
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			b := newBackend(cfg, rlog.Component("media"))
			return printProbes(cmd.OutOrStdout(), args, b.probe)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Read configuration from this file only")
	cmd.Flags().StringVarP(&engine, "engine", "e", "", "Media engine: beep or mpv")
	return cmd
}

// printProbes writes one aligned row per source. Borders are blank so the
// output stays greppable when piped.
func printProbes(out io.Writer, sources []string, probe prober) error {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		StyleFunc(func(_, _ int) lipgloss.Style {
			return lipgloss.NewStyle().PaddingRight(1)
		}).
		Headers("SOURCE", "TITLE", "FORMAT", "LENGTH", "SIZE", "VIDEO")

	failed := 0
	for _, src := range sources {
		info, err := probe(src)
		if err != nil {
			failed++
			t.Row(src, fmt.Sprintf("error: %v", err), "", "", "", "")
			continue
		}
		t.Row(src, info.Title, info.Format, render.Timecode(info.Duration),
			render.Size(info.Size), videoSize(info))
	}
	if _, err := fmt.Fprintln(out, t.String()); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d sources could not be probed", failed, len(sources))
	}
	return nil
}

func videoSize(info *media.Info) string {
	if info.Width == 0 || info.Height == 0 {
		return "-"
	}
	return fmt.Sprintf("%dx%d", info.Width, info.Height)
}
