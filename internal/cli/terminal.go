package cli

import (
	"fmt"
	"strings"

	"github.com/bastiangx/kanaserve/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	kanaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	candStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

// formatCandidates renders one numbered line per candidate, with its
// learned count when non-zero.
func formatCandidates(res suggest.Result, count func(string) int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", dimStyle.Render(fmt.Sprintf("%d candidates for %s:", len(res.Candidates), res.Reading)))
	for i, c := range res.Candidates {
		line := fmt.Sprintf("%2d. %s", i+1, candStyle.Render(c))
		if n := count(c); n > 0 {
			line += " " + dimStyle.Render(fmt.Sprintf("(x%s)", formatWithCommas(n)))
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// formatWithCommas formats an integer with comma separators
func formatWithCommas(n int) string {
	str := fmt.Sprintf("%d", n)
	if n < 1000 && n > -1000 {
		return str
	}
	sign := ""
	if n < 0 {
		sign, str = "-", str[1:]
	}
	var b strings.Builder
	for i, char := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(char)
	}
	return sign + b.String()
}

// Banner renders the version box shown by the version command.
func Banner(name, version string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("212")).
		Padding(0, 2)
	return box.Render(titleStyle.Render(name) + " " + dimStyle.Render(version))
}
