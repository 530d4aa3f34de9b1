package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the mdaseq ASCII art banner.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Subtle gradient-like color scheme (Indigo/Violet)
	s1 := termenv.String(`                _`).Foreground(p.Color("#818cf8"))
	s2 := termenv.String(`  _ __ ___   __| | __ _ ___  ___  __ _`).Foreground(p.Color("#a78bfa"))
	s3 := termenv.String(" | '_ ` _ \\ / _` |/ _` / __|/ _ \\/ _` |").Foreground(p.Color("#c084fc"))
	s4 := termenv.String(` | | | | | | (_| | (_| \__ \  __/ (_| |`).Foreground(p.Color("#e879f9"))
	s5 := termenv.String(` |_| |_| |_|\__,_|\__,_|___/\___|\__, |`).Foreground(p.Color("#f472b6"))
	s6 := termenv.String(`                                 |_|`).Foreground(p.Color("#fb7185"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(s6)
	if version != "" {
		fmt.Println(termenv.String("  " + version).Foreground(p.Color("#94a3b8")).Italic())
	}
	fmt.Println()
}
