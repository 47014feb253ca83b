package main

import (
	"fmt"
	"io"
	"strings"

	"aliasdemo/internal/accumulate"
	"aliasdemo/internal/config"
	"aliasdemo/internal/demo"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	traceTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7C3AED")).
			Bold(true)

	traceHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#6B7280")).
				Underline(true)

	traceAliasStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)
)

func newTraceCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "trace",
		Short: "Show every addition step and the value read at each one",
		Long: `Prints one row per element: the element before the addition, the value read
for that step, and the element after. The reread and index modes are traced;
cached mode reads the value once, so only its result line is printed.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := demo.NewRunner(opts.cfg, opts.logger).Compute()
			if err != nil {
				return err
			}
			return renderTrace(cmd.OutOrStdout(), opts.cfg, res)
		},
	}
}

func renderTrace(w io.Writer, cfg *config.Config, res *demo.Result) error {
	var sb strings.Builder

	sb.WriteString(traceTitleStyle.Render(fmt.Sprintf("Initial %v, value aliases index %d (mode %s)",
		res.Initial, cfg.Sequence.AliasIndex, res.Mode)))
	sb.WriteString("\n")

	if len(res.Steps) > 0 {
		sb.WriteString(traceHeaderStyle.Render(fmt.Sprintf("%-6s %-8s %-8s %-8s", "step", "before", "value", "after")))
		sb.WriteString("\n")
		for _, s := range res.Steps {
			sb.WriteString(formatStep(s, cfg.Sequence.AliasIndex))
			sb.WriteString("\n")
		}
	} else if res.Mode != config.ModeReread {
		sb.WriteString(fmt.Sprintf("no per-step trace in %s mode\n", res.Mode))
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return err
	}
	return demo.Format(w, res.Final)
}

func formatStep(s accumulate.Step, aliasIndex int) string {
	line := fmt.Sprintf("%-6d %-8d %-8d %-8d", s.Index+1, s.Before, s.Addend, s.After)
	if s.Index == aliasIndex {
		return traceAliasStyle.Render(line) + "  <- value now reads " + fmt.Sprint(s.After)
	}
	return line
}
