package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comalice/countlesson/internal/core"
	"github.com/comalice/countlesson/internal/lesson"
	"github.com/comalice/countlesson/internal/production"
)

var (
	chartJSON bool
	chartYAML bool
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Print the lesson phase chart (DOT by default)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Export only reads structure; guards are never evaluated.
		chart, err := lesson.NewChart(lesson.Guards{})
		if err != nil {
			return fmt.Errorf("failed to build chart: %w", err)
		}

		v := &production.DefaultVisualizer{}
		out := cmd.OutOrStdout()
		switch {
		case chartJSON:
			data, err := v.ExportJSON(chart)
			if err != nil {
				return fmt.Errorf("failed to export chart: %w", err)
			}
			_, err = fmt.Fprintln(out, string(data))
			return err
		case chartYAML:
			data, err := v.ExportYAML(chart)
			if err != nil {
				return fmt.Errorf("failed to export chart: %w", err)
			}
			_, err = out.Write(data)
			return err
		}
		m := core.NewMachine(chart, core.WithVisualizer(v), core.WithLogger(logger.Named("chart")))
		if err := m.Start(); err != nil {
			return fmt.Errorf("failed to start chart: %w", err)
		}
		_, err = fmt.Fprint(out, m.Visualize())
		return err
	},
}
