package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mdaseq/mdaseq"
	"github.com/mdaseq/mdaseq/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mdaseq",
	Short: "mdaseq expands declarative multi-dimensional acquisitions",
	Long: `mdaseq reads a YAML or JSON multi-dimensional acquisition sequence and
expands it into the ordered, fully resolved stream of events a microscope
control loop would execute.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		return logging.New(slog.LevelDebug)
	}
	return logging.New(slog.LevelWarn)
}

func loadSequence(path string) (*mdaseq.Sequence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return mdaseq.Parse(data)
}
