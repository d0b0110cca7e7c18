package viz

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/aerosim/internal/config"
	"github.com/san-kum/aerosim/internal/control"
	"github.com/san-kum/aerosim/internal/dynamo"
	"github.com/san-kum/aerosim/internal/experiment"
	"github.com/san-kum/aerosim/internal/logging"
	"github.com/san-kum/aerosim/internal/sim"
)

const (
	fieldCols       = 60
	fieldRows       = 20
	historyCapacity = 600
	trailLength     = 90
	// Terminals report key presses and repeats but never releases, so one
	// wind press blows for this many seconds of sim time.
	windHold = 0.25
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model runs an experiment in real time. The selected body additionally
// takes keyboard input through a manual controller.
type Model struct {
	cfg       *config.Config
	registry  *experiment.Registry
	log       *logging.Logger
	exp       *experiment.Experiment
	manual    *control.Manual
	selected  int
	t         float64
	windDir   float64
	windUntil float64
	running   bool
	frame     sim.Frame
	canvas    *Canvas
	view      Viewport
	trails    map[dynamo.Handle][]dynamo.Vec2
	speed     []float64
	energy    []float64
	history   []sim.Frame
	playHead  int
	showHelp  bool
	err       error
}

func NewModel(cfg *config.Config, registry *experiment.Registry, log *logging.Logger) (Model, error) {
	if registry == nil {
		registry = experiment.NewRegistry()
	}
	if log == nil {
		log = logging.Nop()
	}
	canvas := NewCanvas(fieldCols, fieldRows)
	m := Model{
		cfg:      cfg.Clone(),
		registry: registry,
		log:      log,
		manual:   control.NewManual(),
		canvas:   canvas,
		view:     NewViewport(canvas, cfg.World.Width, cfg.World.Height),
		running:  true,
		playHead: -1,
	}
	if err := m.build(); err != nil {
		return Model{}, err
	}
	m.draw()
	return m, nil
}

// build creates a fresh experiment and attaches the manual controller to
// the selected body.
func (m *Model) build() error {
	exp, err := experiment.Build(m.cfg.Clone(), m.registry, m.log)
	if err != nil {
		return err
	}
	m.exp = exp
	m.t = 0
	m.manual.Release()
	m.windDir = 0
	m.selected = min(m.selected, len(exp.Handles())-1)
	m.trails = make(map[dynamo.Handle][]dynamo.Vec2)
	m.speed = m.speed[:0]
	m.energy = m.energy[:0]
	m.history = m.history[:0]
	m.playHead = -1
	m.err = nil
	m.frame = exp.GetSimulator().Frame(0)
	m.attach()
	return nil
}

func (m *Model) selectedHandle() dynamo.Handle {
	return m.exp.Handles()[m.selected]
}

func (m *Model) attach() {
	h := m.selectedHandle()
	m.exp.GetSimulator().SetController(h, control.Sum{m.exp.Controller(h), m.manual})
}

func (m *Model) selectNext() {
	h := m.selectedHandle()
	m.exp.GetSimulator().SetController(h, m.exp.Controller(h))
	m.manual.Release()
	m.windDir = 0
	m.selected = (m.selected + 1) % len(m.exp.Handles())
	m.attach()
}

func (m *Model) blow(dir float64) {
	m.manual.Wind(dir)
	m.windDir = dir
	m.windUntil = m.t + windHold
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "a", "left":
			m.blow(-1)
		case "d", "right":
			m.blow(1)
		case "w", "up":
			m.manual.Tilt(1)
		case "s", "down":
			m.manual.Tilt(-1)
		case "tab":
			m.selectNext()
		case "r":
			if err := m.build(); err != nil {
				m.err = err
			}
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "?":
			m.showHelp = !m.showHelp
		}
		m.draw()
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				m.step()
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		m.draw()
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	if m.err != nil {
		return
	}
	if m.windDir != 0 && m.t >= m.windUntil {
		m.manual.Wind(0)
		m.windDir = 0
	}

	sc := m.exp.SimConfig()
	frame, err := m.exp.GetSimulator().Tick(context.Background(), m.t, sc.Dt, sc.Parallel)
	if err != nil {
		m.err = err
		m.running = false
		return
	}
	m.t = frame.Time
	m.frame = frame

	total := 0.0
	for _, s := range frame.Bodies {
		trail := append(m.trails[s.Handle], s.Position)
		if len(trail) > trailLength {
			trail = trail[1:]
		}
		m.trails[s.Handle] = trail
		total += m.exp.World().Energy(s)
	}
	if s, ok := frame.Body(m.selectedHandle()); ok {
		m.speed = appendCapped(m.speed, dynamo.Speed(s.Velocity))
	}
	m.energy = appendCapped(m.energy, total)
	m.history = append(m.history, frame)
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func appendCapped(xs []float64, v float64) []float64 {
	xs = append(xs, v)
	if len(xs) > historyCapacity {
		xs = xs[1:]
	}
	return xs
}

// scrub moves the replay head through recorded frames. Stepping past the
// newest frame returns to live mode.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

// shown is the frame currently on screen, live or replayed.
func (m *Model) shown() sim.Frame {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		return m.history[m.playHead]
	}
	return m.frame
}

func (m *Model) draw() {
	c := m.canvas
	c.Clear()
	dx, dy := c.Dots()
	c.DrawRect(0, 0, dx-1, dy-1)

	frame := m.shown()
	for _, trail := range m.trails {
		for _, p := range trail {
			c.Set(m.view.Project(p))
		}
	}
	sel := m.selectedHandle()
	for _, s := range frame.Bodies {
		cx, cy := m.view.Project(s.Position)
		r := m.view.Scale(s.Radius)
		c.DrawCircle(cx, cy, r)
		if s.Handle == sel {
			// nose line: positive angle of attack points up on screen
			l := float64(r + 3)
			c.DrawLine(cx, cy, cx+int(math.Round(l*math.Cos(s.AngleOfAttack))), cy-int(math.Round(l*math.Sin(s.AngleOfAttack))))
		}
	}
}

func (m Model) Time() float64                      { return m.t }
func (m Model) Running() bool                      { return m.running }
func (m Model) Frame() sim.Frame                   { return m.frame }
func (m Model) Selected() dynamo.Handle            { return m.selectedHandle() }
func (m Model) Experiment() *experiment.Experiment { return m.exp }
func (m Model) Err() error                         { return m.err }

func (m Model) View() string {
	frame := m.shown()
	field := FieldPanel.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(TitleStyle.Render("AEROSIM") + "  " + Subtle.Render(m.cfg.Controller) + "\n")
	switch {
	case m.err != nil:
		s.WriteString(ErrorStyle.Render("HALTED") + "\n")
	case m.playHead != -1:
		s.WriteString(StatusPaused.Render(fmt.Sprintf("REPLAY %.2fs", frame.Time-m.t)) + "\n")
	case !m.running:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n")
	default:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n")
	}
	s.WriteString("\n")

	s.WriteString(Stat("time", fmt.Sprintf("%.2f s", frame.Time)) + "\n")
	if m.cfg.Duration > 0 {
		s.WriteString(Stat("progress", ProgressBar(frame.Time/m.cfg.Duration, 16)) + "\n")
	}
	s.WriteString(Stat("body", fmt.Sprintf("%d/%d", m.selected+1, len(m.exp.Handles()))) + "\n")
	if b, ok := frame.Body(m.selectedHandle()); ok {
		s.WriteString(Stat("position", fmt.Sprintf("%6.2f %6.2f", b.Position[0], b.Position[1])) + "\n")
		s.WriteString(Stat("velocity", fmt.Sprintf("%6.2f %6.2f", b.Velocity[0], b.Velocity[1])) + "\n")
		s.WriteString(Stat("speed", fmt.Sprintf("%.2f m/s", dynamo.Speed(b.Velocity))) + "\n")
		s.WriteString(Stat("aoa", fmt.Sprintf("%.1f°", b.AngleOfAttack*180/math.Pi)) + "\n")
		ground := "no"
		if b.OnGround {
			ground = "yes"
		}
		s.WriteString(Stat("ground", ground) + "\n")
		if b.Contacts != 0 {
			s.WriteString(MetricLabel.Render("contact") + ContactStyle.Render(b.Contacts.String()) + "\n")
		}
	}
	wind := "calm"
	switch {
	case m.windDir < 0:
		wind = fmt.Sprintf("← %.1f N", control.WindForce)
	case m.windDir > 0:
		wind = fmt.Sprintf("→ %.1f N", control.WindForce)
	}
	s.WriteString(Stat("wind", wind) + "\n\n")

	s.WriteString(MetricLabel.Render("energy") + Sparkline(m.energy, 20) + "\n")
	if len(m.speed) > 1 {
		s.WriteString("\n" + asciigraph.Plot(m.speed, asciigraph.Height(5), asciigraph.Width(24), asciigraph.Caption("speed")) + "\n")
	}
	if m.err != nil {
		s.WriteString("\n" + ErrorStyle.Render(m.err.Error()) + "\n")
	}

	if m.showHelp {
		s.WriteString("\n" + KeyHint.Render("a/d wind  w/s aoa  tab body\nspace pause  r reset  [/] replay\nq quit"))
	} else {
		s.WriteString("\n" + KeyHint.Render("? help"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, field, StatsPanel.Render(s.String()))
}

// Run opens the live view in the terminal and blocks until it is closed.
func Run(cfg *config.Config, registry *experiment.Registry, log *logging.Logger) error {
	m, err := NewModel(cfg, registry, log)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
