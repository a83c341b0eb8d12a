package report

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner shown by interactive commands.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Subtle gradient, indigo to rose.
	s1 := termenv.String(`      _                `).Foreground(p.Color("#818cf8"))
	s2 := termenv.String(`  ___(_) _____   _____ `).Foreground(p.Color("#a78bfa"))
	s3 := termenv.String(` / __| |/ _ \ \ / / _ \`).Foreground(p.Color("#c084fc"))
	s4 := termenv.String(` \__ \ |  __/\ V /  __/`).Foreground(p.Color("#e879f9"))
	s5 := termenv.String(` |___/_|\___| \_/ \___|`).Foreground(p.Color("#f472b6"))
	v := termenv.String("  v" + version).Foreground(p.Color("#fb7185")).Faint()

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(v)
	fmt.Println()
}
