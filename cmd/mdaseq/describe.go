package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mdaseq/mdaseq"
	"github.com/mdaseq/mdaseq/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var describeCmd = &cobra.Command{
	Use:   "describe <file>",
	Short: "Summarize a sequence without expanding it to stdout",
	Long:  `Prints the axes, plans and event count of a sequence as a readable summary.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		seq, err := loadSequence(args[0])
		if err != nil {
			fmt.Printf("Error reading sequence: %v\n", err)
			os.Exit(1)
		}

		md := describeMarkdown(args[0], seq)
		if term.IsTerminal(int(os.Stdout.Fd())) {
			tui.PrintBanner(mdaseq.Version)
			render := tui.NewRenderer()
			if out, err := render(md); err == nil {
				fmt.Print(out)
				return
			}
		}
		fmt.Print(md)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}

func describeMarkdown(path string, seq *mdaseq.Sequence) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", path)
	fmt.Fprintf(&b, "Axis order: `%s`\n\n", mdaseq.AxisOrderString(seq.AxisOrder()))

	b.WriteString("| Axis | Size |\n|------|------|\n")
	for _, a := range seq.AxisOrder() {
		fmt.Fprintf(&b, "| %s | %d |\n", a, seq.Size(a))
	}
	b.WriteString("\n")

	if chans := seq.Channels(); len(chans) > 0 {
		b.WriteString("## Channels\n\n| Config | Group | Exposure (ms) |\n|--------|-------|---------------|\n")
		for _, c := range chans {
			exp := "-"
			if c.Exposure != nil {
				exp = fmt.Sprintf("%g", *c.Exposure)
			}
			group := c.Group
			if group == "" {
				group = mdaseq.DefaultChannelGroup
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n", c.Config, group, exp)
		}
		b.WriteString("\n")
	}

	if positions := seq.StagePositions(); len(positions) > 0 {
		fmt.Fprintf(&b, "## Stage positions\n\n")
		for i, p := range positions {
			name := p.Name
			if name == "" {
				name = fmt.Sprintf("position %d", i)
			}
			fmt.Fprintf(&b, "- **%s** (x=%s y=%s z=%s)", name, coord(p.X), coord(p.Y), coord(p.Z))
			if p.Sequence != nil {
				fmt.Fprintf(&b, " with sub-sequence `%s`", p.Sequence)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	for _, w := range seq.Warnings() {
		fmt.Fprintf(&b, "> ⚠️ %s\n\n", w)
	}

	fmt.Fprintf(&b, "**Total events:** %d\n", seq.TotalCount())
	return b.String()
}

func coord(v *float64) string {
	if v == nil {
		return "·"
	}
	return fmt.Sprintf("%g", *v)
}
