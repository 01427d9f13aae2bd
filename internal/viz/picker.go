package viz

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	pickTitle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	pickActive = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
	pickItem   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	pickNote   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

// Choice is one selectable entry of a Picker.
type Choice struct {
	Key  string
	Note string
}

// Picker is a small menu used to choose a preset before a live run.
type Picker struct {
	title    string
	choices  []Choice
	cursor   int
	selected int
}

func NewPicker(title string, choices []Choice) Picker {
	return Picker{title: title, choices: choices, selected: -1}
}

// Selected returns the chosen key, or false if the menu was left without
// a choice.
func (p Picker) Selected() (string, bool) {
	if p.selected < 0 {
		return "", false
	}
	return p.choices[p.selected].Key, true
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.choices)-1 {
			p.cursor++
		}
	case "enter", " ":
		if len(p.choices) > 0 {
			p.selected = p.cursor
			return p, tea.Quit
		}
	}
	return p, nil
}

func (p Picker) View() string {
	var b strings.Builder
	b.WriteString(pickTitle.Render(p.title) + "\n")
	for i, c := range p.choices {
		line := "  " + pickItem.Render(c.Key)
		if i == p.cursor {
			line = pickActive.Render("> " + c.Key)
		}
		if c.Note != "" {
			line += "  " + pickNote.Render(c.Note)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(pickNote.Render("\n↑↓ select  enter start  q quit"))
	return b.String()
}
