package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name    string
	Title   lipgloss.Color
	Accent  lipgloss.Color
	Graph   lipgloss.Color
	Label   lipgloss.Color
	Value   lipgloss.Color
	Running lipgloss.Color
	Paused  lipgloss.Color
	Alert   lipgloss.Color
	Border  lipgloss.Color
}

// Available themes
var (
	ThemeNebula = Theme{
		Name:    "nebula",
		Title:   lipgloss.Color("#ff6ad5"),
		Accent:  lipgloss.Color("#8795e8"),
		Graph:   lipgloss.Color("#94d0ff"),
		Label:   lipgloss.Color("#8888aa"),
		Value:   lipgloss.Color("#e6e6ff"),
		Running: lipgloss.Color("#5cf2a0"),
		Paused:  lipgloss.Color("#ffb86c"),
		Alert:   lipgloss.Color("#ff5555"),
		Border:  lipgloss.Color("#44445a"),
	}

	ThemeSolar = Theme{
		Name:    "solar",
		Title:   lipgloss.Color("#ffb000"),
		Accent:  lipgloss.Color("#ff6c11"),
		Graph:   lipgloss.Color("#ffd319"),
		Label:   lipgloss.Color("#a08060"),
		Value:   lipgloss.Color("#fff5e0"),
		Running: lipgloss.Color("#b5e853"),
		Paused:  lipgloss.Color("#ff9f43"),
		Alert:   lipgloss.Color("#ff4757"),
		Border:  lipgloss.Color("#5a4030"),
	}

	ThemeMono = Theme{
		Name:    "mono",
		Title:   lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#cccccc"),
		Graph:   lipgloss.Color("#aaaaaa"),
		Label:   lipgloss.Color("#777777"),
		Value:   lipgloss.Color("#eeeeee"),
		Running: lipgloss.Color("#ffffff"),
		Paused:  lipgloss.Color("#999999"),
		Alert:   lipgloss.Color("#ff0000"),
		Border:  lipgloss.Color("#444444"),
	}

	Themes = []Theme{
		ThemeNebula,
		ThemeSolar,
		ThemeMono,
	}
)

// GetTheme returns a theme by name, falling back to the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// NextTheme returns the theme after t, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
