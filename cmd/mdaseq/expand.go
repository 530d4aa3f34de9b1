package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/mdaseq/mdaseq"
	"github.com/spf13/cobra"
)

var expandCmd = &cobra.Command{
	Use:   "expand <file>",
	Short: "Expand a sequence into its acquisition events",
	Long: `Runs the expansion engine over the sequence and writes every resolved
event to stdout, as a table or as one JSON object per line.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runExpand(cmd, args[0]); err != nil {
			fmt.Printf("Expansion failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	expandCmd.Flags().String("output", "table", "Output format: table or json")
	expandCmd.Flags().Int("limit", 0, "Stop after this many events (0 = all)")
	expandCmd.Flags().String("fov", "", "Field of view size as WIDTHxHEIGHT, in microns")
	rootCmd.AddCommand(expandCmd)
}

func runExpand(cmd *cobra.Command, path string) error {
	logger := newLogger(cmd)
	seq, err := loadSequence(path)
	if err != nil {
		return err
	}
	for _, w := range seq.Warnings() {
		logger.Warn(w)
	}

	if fov, _ := cmd.Flags().GetString("fov"); fov != "" {
		w, h, err := parseFOV(fov)
		if err != nil {
			return err
		}
		seq.SetFOVSize(w, h)
	}

	output, _ := cmd.Flags().GetString("output")
	limit, _ := cmd.Flags().GetInt("limit")

	switch output {
	case "json":
		return expandJSON(seq, limit)
	case "table":
		return expandTable(seq, limit)
	}
	return fmt.Errorf("unknown output format %q (want table or json)", output)
}

func expandJSON(seq *mdaseq.Sequence, limit int) error {
	enc := json.NewEncoder(os.Stdout)
	n := 0
	for ev := range seq.Events() {
		if limit > 0 && n == limit {
			break
		}
		if err := enc.Encode(ev); err != nil {
			return err
		}
		n++
	}
	return nil
}

func expandTable(seq *mdaseq.Sequence, limit int) error {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tINDEX\tCHANNEL\tPOS\tX\tY\tZ\tTIME\tAF")
	n := 0
	for ev := range seq.Events() {
		if limit > 0 && n == limit {
			break
		}
		ch := ""
		if ev.Channel != nil {
			ch = ev.Channel.Config
		}
		af := ""
		if ev.Autofocus != nil {
			af = ev.Autofocus.Device
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			ev.GlobalIndex,
			indexCell(ev),
			ch,
			ev.PosName,
			floatCell(ev.X),
			floatCell(ev.Y),
			floatCell(ev.Z),
			floatCell(ev.MinStartTime),
			af,
		)
		n++
	}
	return w.Flush()
}

func indexCell(ev mdaseq.Event) string {
	var parts []string
	for _, a := range ev.Sequence.AxisOrder() {
		if i, ok := ev.Index[a]; ok {
			parts = append(parts, fmt.Sprintf("%s%d", a, i))
		}
	}
	return strings.Join(parts, " ")
}

func floatCell(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *v)
}

func parseFOV(s string) (w, h float64, err error) {
	if _, err := fmt.Sscanf(s, "%fx%f", &w, &h); err != nil {
		return 0, 0, fmt.Errorf("invalid fov %q (want WIDTHxHEIGHT)", s)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("fov dimensions must be positive")
	}
	return w, h, nil
}
