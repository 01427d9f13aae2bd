package viz

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/accretion/internal/dynamo"
	"github.com/san-kum/accretion/internal/physics"
)

const (
	defaultCols     = 80
	defaultRows     = 30
	panelWidth      = 48
	historyCapacity = 2000
	chartPoints     = 120
)

// Stepper produces frames one at a time. *sim.Simulator satisfies it.
type Stepper interface {
	Step() (*dynamo.Frame, error)
	Merges() int
}

type TickMsg time.Time

type sample struct {
	frame  *dynamo.Frame
	energy float64
}

// Model is the bubbletea model for both live runs and replays. In live mode
// the Stepper is advanced once per tick; scrubbing moves a play head over
// the frames kept so far and resumes stepping once the head is back at the
// newest frame. In replay mode all frames are known up front.
type Model struct {
	stepper  Stepper
	history  []sample
	head     int
	total    int
	running  bool
	finished bool
	err      error

	title    string
	view     View
	fps      int
	canvas   *Canvas
	camera   *Camera
	theme    Theme
	styles   styles
	tick     int
	showHelp bool
}

// NewLive returns a model that steps s at fps frames per second.
func NewLive(s Stepper, title string, v View, fps int) Model {
	m := newModel(title, v, fps)
	m.stepper = s
	return m
}

// NewReplay returns a model that plays stored frames.
func NewReplay(frames []*dynamo.Frame, title string, v View, fps int) Model {
	m := newModel(title, v, fps)
	m.history = make([]sample, len(frames))
	for i, f := range frames {
		m.history[i] = newSample(f)
	}
	m.total = len(frames)
	m.finished = true
	return m
}

func newModel(title string, v View, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	return Model{
		head:    -1,
		running: true,
		title:   title,
		view:    v,
		fps:     fps,
		canvas:  NewCanvas(defaultCols, defaultRows),
		camera:  NewCamera(),
		theme:   Themes[0],
		styles:  newStyles(Themes[0]),
	}
}

func newSample(f *dynamo.Frame) sample {
	ke, pe := physics.Energy(f.Post, f.Vel, f.Mass)
	return sample{frame: f, energy: ke + pe}
}

// WithTheme selects the initial color theme.
func (m Model) WithTheme(name string) Model {
	m.theme = GetTheme(name)
	m.styles = newStyles(m.theme)
	return m
}

// Err returns the error that stopped a live run, if any.
func (m Model) Err() error { return m.err }

// Frame returns the frame under the play head, or nil before the first one.
func (m Model) Frame() *dynamo.Frame {
	if m.head < 0 || m.head >= len(m.history) {
		return nil
	}
	return m.history[m.head].frame
}

func (m Model) Running() bool { return m.running }

func (m Model) Finished() bool { return m.finished }

func (m Model) live() bool { return m.stepper != nil }

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

// Update handles input events and advances the play head.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		cols := max(msg.Width-panelWidth-4, 20)
		rows := max(msg.Height-2, 10)
		m.canvas = NewCanvas(cols, rows)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "{":
			m.scrub(-10)
		case "}":
			m.scrub(10)
		case "home":
			m.scrub(-len(m.history))
		case "t":
			m.theme = NextTheme(m.theme)
			m.styles = newStyles(m.theme)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "left", "h":
			m.camera.Move(-0.1, 0, m.view)
		case "right", "l":
			m.camera.Move(0.1, 0, m.view)
		case "up", "k":
			m.camera.Move(0, -0.1, m.view)
		case "down", "j":
			m.camera.Move(0, 0.1, m.view)
		case "0":
			m.camera.Reset()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		m.tick++
		if m.running {
			m.advance()
		}
		return m, m.tickCmd()
	}
	return m, nil
}

// advance moves the head one frame forward, stepping the simulation when
// the head is already on the newest frame.
func (m *Model) advance() {
	if m.head < len(m.history)-1 {
		m.head++
		return
	}
	if !m.live() || m.finished {
		m.running = false
		return
	}

	f, err := m.stepper.Step()
	if err != nil {
		m.finished = true
		m.running = false
		if !errors.Is(err, dynamo.ErrFinished) {
			m.err = err
		}
		return
	}
	m.history = append(m.history, newSample(f))
	m.total++
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
	m.head = len(m.history) - 1
}

// scrub moves the play head by n frames and pauses playback.
func (m *Model) scrub(n int) {
	if len(m.history) == 0 {
		return
	}
	m.running = false
	m.head = min(max(m.head+n, 0), len(m.history)-1)
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return m.styles.alert.Render("ERROR")
	case m.running:
		return m.styles.running.Render(AnimatedSpinner(m.tick) + " RUNNING")
	case m.finished && m.head == len(m.history)-1:
		return m.styles.paused.Render("FINISHED")
	default:
		return m.styles.paused.Render("PAUSED")
	}
}

func (m Model) series() (counts, energy []float64) {
	from := max(0, m.head+1-chartPoints)
	for _, s := range m.history[from : m.head+1] {
		counts = append(counts, float64(s.frame.Len()))
		energy = append(energy, s.energy)
	}
	return counts, energy
}

func (m Model) row(label, value string) string {
	return m.styles.label.Render(label) + m.styles.value.Render(value) + "\n"
}

// View renders the canvas and the side panel.
func (m Model) View() string {
	m.canvas.Clear()
	f := m.Frame()
	if f != nil {
		shown, v := m.camera.Apply(f, m.view)
		DrawFrame(m.canvas, shown, v)
	}

	var s strings.Builder
	s.WriteString(m.styles.title.Render(GradientText(strings.ToUpper(m.title), string(m.theme.Title), string(m.theme.Accent))) + "\n")
	s.WriteString(m.status() + "\n\n")

	if f != nil {
		s.WriteString(m.row("Step", fmt.Sprintf("%d", f.Step)))
		s.WriteString(m.row("Bodies", fmt.Sprintf("%d", f.Len())))
		if f.Lock >= 0 && f.Lock < f.Len() {
			s.WriteString(m.row("Lock", fmt.Sprintf("#%d  m=%.3g", f.Lock, f.Mass[f.Lock])))
		}
		if m.live() {
			s.WriteString(m.row("Merges", fmt.Sprintf("%d", m.stepper.Merges())))
		}
		s.WriteString(m.row("Energy", fmt.Sprintf("%.4g", m.history[m.head].energy)))
		s.WriteString(m.row("Zoom", fmt.Sprintf("%.2fx", m.camera.Zoom)))
		if !m.live() && m.total > 0 {
			s.WriteString(m.row("Frame", fmt.Sprintf("%d/%d", m.head+1, m.total)))
			s.WriteString(m.styles.graph.Render(ProgressBar(float64(m.head+1)/float64(m.total), 30)) + "\n")
		}

		counts, energy := m.series()
		if len(counts) > 1 {
			s.WriteString("\n" + m.styles.graph.Render(asciigraph.Plot(counts,
				asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("bodies"))) + "\n")
			s.WriteString("\n" + m.styles.graph.Render(asciigraph.Plot(energy,
				asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("energy"))) + "\n")
		}
	} else {
		s.WriteString(m.styles.label.Render("waiting for the first frame") + "\n")
	}

	if m.err != nil {
		s.WriteString("\n" + m.styles.alert.Render(m.err.Error()) + "\n")
	}
	if m.showHelp {
		s.WriteString(m.styles.hint.Render(helpText))
	} else {
		s.WriteString(m.styles.hint.Render("SP:Pause [ ]:Scrub T:Theme ?:Help Q:Quit"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, m.canvas.Render(), m.styles.panel.Render(s.String()))
}

const helpText = `Space     pause/resume
[ ]       one frame back/forward
{ }       ten frames back/forward
Home      first kept frame
+ -       zoom
arrows    pan
0         reset camera
t         cycle themes
q         quit`
