// countlesson runs the addition counting lesson in a terminal.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/comalice/countlesson/internal/config"
	"github.com/comalice/countlesson/internal/logging"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "countlesson",
	Short: "Narrated addition lesson with counting tokens",
	Long: `countlesson walks a learner through five addition exercises.

Two colored groups of tokens are drawn, counted aloud and added. The first
exercise is a worked example; the rest ask for the total and explain
mistakes by adding or ghosting tokens.

Run without arguments to start the lesson.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}

		logCfg := cfg.Logging
		if isInteractive(cmd) && logCfg.File == "" {
			// stderr would draw over the full-screen program.
			logCfg.File = filepath.Join(os.TempDir(), "countlesson.log")
		}
		logger, err = logging.New(logCfg)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runLesson,
}

// isInteractive reports whether cmd starts the full-screen program.
func isInteractive(cmd *cobra.Command) bool {
	return !cmd.HasParent() || cmd.Name() == "run"
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "countlesson.yaml", "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	chartCmd.Flags().BoolVar(&chartJSON, "json", false, "print the chart as JSON")
	chartCmd.Flags().BoolVar(&chartYAML, "yaml", false, "print the chart as YAML")
	chartCmd.MarkFlagsMutuallyExclusive("json", "yaml")

	configCmd.Flags().BoolVar(&configWrite, "write", false, "write the effective config to --config")

	rootCmd.AddCommand(runCmd, chartCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
