package main

import (
	"fmt"
	"strings"

	"github.com/mdaseq/mdaseq"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of mdaseq",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mdaseq version %s\n", strings.TrimSpace(mdaseq.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
