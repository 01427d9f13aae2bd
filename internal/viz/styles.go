package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

type styles struct {
	panel, title, label, value, graph, hint lipgloss.Style
	running, paused, alert                  lipgloss.Style
}

func newStyles(t Theme) styles {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	return styles{
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), false, false, false, true).
			BorderForeground(t.Border).
			Padding(0, 2).
			Width(44),
		title:   fg(t.Title).Bold(true).MarginBottom(1),
		label:   fg(t.Label).Width(12),
		value:   fg(t.Value),
		graph:   fg(t.Graph),
		hint:    fg(t.Label).Italic(true).MarginTop(1),
		running: fg(t.Running).Bold(true),
		paused:  fg(t.Paused).Bold(true),
		alert:   fg(t.Alert).Bold(true),
	}
}

// GradientText colors text with a blend from one hex color to another.
func GradientText(text, from, to string) string {
	start, err1 := colorful.Hex(from)
	end, err2 := colorful.Hex(to)
	runes := []rune(text)
	if err1 != nil || err2 != nil || len(runes) < 2 {
		return text
	}

	var b strings.Builder
	for i, r := range runes {
		c := start.BlendHcl(end, float64(i)/float64(len(runes)-1)).Clamped()
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return b.String()
}

// AnimatedSpinner returns frame of animated spinner
func AnimatedSpinner(frame int) string {
	spinners := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return spinners[frame%len(spinners)]
}

// ProgressBar renders a bar filled to percent of width.
func ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	filled = min(max(filled, 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
