package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a sequence definition for consistency",
	Long:  `Parses the sequence file and reports configuration errors and suspicious axis/plan combinations.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger(cmd)
		seq, err := loadSequence(args[0])
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		logger.Debug("sequence parsed", "uid", seq.UID(), "axes", seq.UsedAxes())
		for _, w := range seq.Warnings() {
			fmt.Printf("Warning: %s\n", w)
		}
		fmt.Println("Sequence is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
