package viz

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/muesli/termenv"

	"github.com/san-kum/voxanim/internal/animator"
	"github.com/san-kum/voxanim/internal/volume"
)

const (
	defaultCols    = 64
	defaultRows    = 24
	histogramBins  = 24
	histogramWidth = 22
)

type TickMsg time.Time

// Model plays an animation frame by frame.
type Model struct {
	anim       *animator.Animation
	profile    termenv.Profile
	frame      int
	playing    bool
	showHelp   bool
	theme      int
	cols, rows int
	interval   time.Duration
	cells      map[int]string
	hists      map[int][]float64
}

func NewModel(anim *animator.Animation, profile termenv.Profile) Model {
	return Model{
		anim:     anim,
		profile:  profile,
		playing:  anim.Len() > 1,
		cols:     defaultCols,
		rows:     defaultRows,
		interval: time.Duration(float64(time.Second) / anim.FPS()),
		cells:    make(map[int]string),
		hists:    make(map[int][]float64),
	}
}

// WithTheme selects a sidebar theme by name.
func (m Model) WithTheme(name string) Model {
	m.theme = ThemeIndex(name)
	return m
}

func (m Model) Frame() int { return m.frame }

func (m Model) Playing() bool { return m.playing }

func (m Model) Theme() Theme { return Themes[m.theme] }

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles keys, resizes and playback ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.playing = !m.playing
		case "right", "l":
			m.playing = false
			m.step(1)
		case "left", "h":
			m.playing = false
			m.step(-1)
		case "home", "g":
			m.frame = 0
		case "end", "G":
			m.frame = max(0, m.anim.Len()-1)
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.cols = max(8, msg.Width-sidebarWidth-8)
		m.rows = max(4, msg.Height-4)
		m.cells = make(map[int]string)
	case TickMsg:
		if m.playing {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

// advance moves playback forward, wrapping or stopping at the end.
func (m *Model) advance() {
	n := m.anim.Len()
	if n == 0 {
		m.playing = false
		return
	}
	if m.frame+1 < n {
		m.frame++
		return
	}
	if m.anim.Loop() {
		m.frame = 0
		return
	}
	m.playing = false
}

func (m *Model) step(dir int) {
	n := m.anim.Len()
	if n == 0 {
		return
	}
	next := m.frame + dir
	switch {
	case next < 0 && m.anim.Loop():
		next = n - 1
	case next < 0:
		next = 0
	case next >= n && m.anim.Loop():
		next = 0
	case next >= n:
		next = n - 1
	}
	m.frame = next
}

func (m Model) frameView() string {
	if s, ok := m.cells[m.frame]; ok {
		return s
	}
	img, err := m.anim.Image(m.frame)
	if err != nil {
		return errorStyle.Render(err.Error())
	}
	var s string
	if m.profile == termenv.Ascii {
		s = Braille(img, m.cols, m.rows).String()
	} else {
		s = HalfBlocks(img, m.cols, m.rows, m.profile)
	}
	m.cells[m.frame] = s
	return s
}

func (m Model) histogram() []float64 {
	if h, ok := m.hists[m.frame]; ok {
		return h
	}
	f, err := m.anim.Frame(m.frame)
	if err != nil {
		return nil
	}
	lo, hi := m.anim.Range()
	h := volume.Histogram(f.Image.Data, histogramBins, lo, hi)
	m.hists[m.frame] = h
	return h
}

func (m Model) sidebar() string {
	th := m.Theme()
	n := m.anim.Len()
	slices := m.anim.Slices()

	header := lipgloss.NewStyle().Bold(true).Foreground(th.Header)
	value := lipgloss.NewStyle().Foreground(th.Text)
	muted := lipgloss.NewStyle().Foreground(th.Muted)

	var s strings.Builder
	s.WriteString(header.Render(strings.ToUpper(m.anim.Caption(m.frame))) + "\n")

	status := lipgloss.NewStyle().Bold(true).Foreground(th.Paused).Render("PAUSED")
	if m.playing {
		status = lipgloss.NewStyle().Bold(true).Foreground(th.Playing).Render("PLAYING")
	}
	s.WriteString(status + "\n\n")

	s.WriteString(labelStyle.Render("Frame") + value.Render(fmt.Sprintf("%d/%d", m.frame+1, n)) + "\n")
	s.WriteString(labelStyle.Render("Slice") + value.Render(fmt.Sprintf("%d", slices[m.frame])) + "\n")
	s.WriteString(labelStyle.Render("FPS") + value.Render(fmt.Sprintf("%g", m.anim.FPS())) + "\n")
	lo, hi := m.anim.Range()
	s.WriteString(labelStyle.Render("Range") + value.Render(fmt.Sprintf("%.3g .. %.3g", lo, hi)) + "\n\n")

	s.WriteString(lipgloss.NewStyle().Foreground(th.Accent).Render(Slider(m.frame, n, 30)) + "\n")
	rendered := m.anim.Rendered()
	s.WriteString(ProgressBar(float64(rendered)/float64(n), 20) + muted.Render(fmt.Sprintf(" %d/%d rendered", rendered, n)) + "\n")

	if hist := m.histogram(); len(hist) > 1 {
		chart := asciigraph.Plot(hist,
			asciigraph.Height(5),
			asciigraph.Width(histogramWidth),
			asciigraph.Caption("Intensity"))
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(th.Graph).Render(chart) + "\n")
	}

	s.WriteString(muted.Render("\n" + Separator(30) + "\nSP:Play ←→:Step Q:Quit\nT:Theme ?:Help"))
	return s.String()
}

// View renders the frame and the sidebar side by side.
func (m Model) View() string {
	if m.anim.Len() == 0 {
		return "no frames to show\n"
	}
	mainView := lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.frameView()),
		sidebarStyle.Render(m.sidebar()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space     - Pause/Resume playback   ║
║  Left/H    - Previous frame          ║
║  Right/L   - Next frame              ║
║  Home/End  - First/last frame        ║
║  T         - Cycle themes            ║
║  ?         - Toggle this help        ║
║  Q         - Quit                    ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// Viewer is the terminal display host.
type Viewer struct {
	Profile termenv.Profile
	Theme   string
	Options []tea.ProgramOption
}

// DetectProfile reports the colour support of standard output.
func DetectProfile() termenv.Profile {
	return termenv.NewOutput(os.Stdout).EnvColorProfile()
}

// Show runs the viewer until the user quits or ctx is canceled. Progress
// output is silenced while the viewer owns the terminal.
func (v Viewer) Show(ctx context.Context, anim *animator.Animation) error {
	anim.SetProgress(nil)
	m := NewModel(anim, v.Profile).WithTheme(v.Theme)
	opts := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, v.Options...)
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}
