package tui

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/StuyPulse/StuyLib-sub001/internal/experiment"
	"github.com/StuyPulse/StuyLib-sub001/internal/geom"
	"github.com/StuyPulse/StuyLib-sub001/internal/plant"
)

const (
	historyLen   = 120
	manualStep   = 0.5
	tunableScale = 1.1
	// tunableNudge is where a zero gain starts when stepped up.
	tunableNudge = 0.01
)

// Messages carry their runner so a view ignores a stopped run's leftovers.
type frameMsg struct {
	r *Runner
	f Frame
}

type doneMsg struct {
	r   *Runner
	err error
}

// Live is the view of a running experiment. It plots the last few seconds
// of setpoint, measurement and output, and lets the operator retune gains,
// take manual control and pause the loop.
type Live struct {
	exp    *experiment.Experiment
	runner *Runner
	keys   []string

	cursor    int
	manualOut float64
	width     int

	setpoints    []float64
	measurements []float64
	outputs      []float64
	last         Frame
	frames       int
	done         bool
	err          error
}

func NewLive(exp *experiment.Experiment, opts ...RunnerOption) Live {
	return Live{
		exp:    exp,
		runner: NewRunner(exp, opts...),
		keys:   exp.Tunables().Keys(),
		width:  80,
	}
}

func (m Live) Init() tea.Cmd {
	m.runner.Start(context.Background())
	return next(m.runner)
}

func next(r *Runner) tea.Cmd {
	return func() tea.Msg {
		f, ok, err := r.Next()
		if !ok {
			return doneMsg{r: r, err: err}
		}
		return frameMsg{r: r, f: f}
	}
}

func (m Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case frameMsg:
		if msg.r != m.runner {
			return m, nil
		}
		m.record(msg.f)
		return m, next(m.runner)
	case doneMsg:
		if msg.r != m.runner {
			return m, nil
		}
		m.done = true
		m.err = msg.err
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Live) record(f Frame) {
	m.last = f
	m.frames++
	m.setpoints = push(m.setpoints, f.Setpoint)
	m.measurements = push(m.measurements, f.Measurement)
	m.outputs = push(m.outputs, f.Output)
}

func push(xs []float64, x float64) []float64 {
	xs = append(xs, x)
	if len(xs) > historyLen {
		xs = xs[1:]
	}
	return xs
}

func (m Live) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.runner.Stop()
		return m, tea.Quit
	case " ", "p":
		m.runner.TogglePause()
	case "m":
		m.exp.Override(!m.exp.Overridden())
	case "]":
		m.setManual(m.manualOut + manualStep)
	case "[":
		m.setManual(m.manualOut - manualStep)
	case "0":
		m.setManual(0)
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.keys)-1 {
			m.cursor++
		}
	case "right", "l":
		m.scaleTunable(tunableScale)
	case "left", "h":
		m.scaleTunable(1 / tunableScale)
	case "+", "=":
		m.runner.SetSpeed(math.Min(m.runner.Speed()*2, 16))
	case "-", "_":
		m.runner.SetSpeed(math.Max(m.runner.Speed()/2, 0.25))
	}
	return m, nil
}

func (m *Live) setManual(u float64) {
	m.manualOut = geom.ClampMagnitude(u, plant.DefaultMaxVoltage)
	m.exp.SetManualOutput(m.manualOut)
}

func (m *Live) scaleTunable(k float64) {
	if len(m.keys) == 0 {
		return
	}
	name := m.keys[m.cursor]
	v, _ := m.exp.Tunables().Get(name)
	switch {
	case v == 0 && k > 1:
		v = tunableNudge
	case v*k < tunableNudge/2 && k < 1:
		v = 0
	default:
		v *= k
	}
	m.exp.Tunables().Set(name, v)
}

func (m Live) View() string {
	var b strings.Builder
	cfg := m.exp.Config()

	b.WriteString(titleStyle.Render("STUYLIB"))
	b.WriteString(subtleStyle.Render(fmt.Sprintf("  %s · %s · %s", cfg.Mechanism, cfg.Controller, cfg.Integrator)))
	b.WriteString("  ")
	b.WriteString(m.status())
	b.WriteString("\n\n")

	duration := cfg.Sim.Duration
	fmt.Fprintf(&b, "%s %s %s\n",
		labelStyle.Render(fmt.Sprintf("t %6.2f / %.2f s", m.last.Time, duration)),
		ProgressBar(m.last.Time/duration, 30),
		subtleStyle.Render(fmt.Sprintf("x%.2g", m.runner.Speed())))
	b.WriteString(separator(m.chartWidth() + 26))
	b.WriteString("\n")

	lo, hi := bounds(append(append([]float64(nil), m.setpoints...), m.measurements...))
	w := m.chartWidth()
	m.row(&b, "setpoint", m.last.Setpoint, "", Sparkline(m.setpoints, w, lo, hi))
	m.row(&b, "measurement", m.last.Measurement, "", Sparkline(m.measurements, w, lo, hi))
	m.row(&b, "output", m.last.Output, "V", Sparkline(m.outputs, w, -plant.DefaultMaxVoltage, plant.DefaultMaxVoltage))
	b.WriteString("\n")

	b.WriteString(panelStyle.Render(m.tunablesView()))
	b.WriteString("\n")
	if len(m.last.Metrics) > 0 {
		b.WriteString(panelStyle.Render(m.metricsView()))
		b.WriteString("\n")
	}

	manual := "auto"
	if m.exp.Overridden() {
		manual = manualStyle.Render(fmt.Sprintf("manual %+.1f V", m.manualOut))
	}
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("control"), manual)

	if m.err != nil {
		b.WriteString(manualStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(hintStyle.Render("↑↓ select  ←→ tune  m manual  [ ] output  p pause  +/- speed  q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Live) status() string {
	switch {
	case m.done:
		return subtleStyle.Render("[DONE]")
	case m.runner.Paused():
		return pausedStyle.Render("[PAUSED]")
	}
	return runningStyle.Render("[RUNNING]")
}

func (m Live) chartWidth() int {
	return max(10, min(historyLen, m.width-30))
}

func (m Live) row(b *strings.Builder, label string, v float64, unit, chart string) {
	fmt.Fprintf(b, "%s %s %s\n",
		labelStyle.Render(fmt.Sprintf("%-12s", label)),
		valueStyle.Render(fmt.Sprintf("%9.3f %-1s", v, unit)),
		chart)
}

func (m Live) tunablesView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("gains"))
	for i, name := range m.keys {
		v, _ := m.exp.Tunables().Get(name)
		line := fmt.Sprintf("%-10s %9.4f", name, v)
		b.WriteString("\n")
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("▸ " + line))
		} else {
			b.WriteString("  " + line)
		}
	}
	return b.String()
}

func (m Live) metricsView() string {
	names := make([]string, 0, len(m.last.Metrics))
	for name := range m.last.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(titleStyle.Render("metrics"))
	for _, name := range names {
		fmt.Fprintf(&b, "\n%s %s", labelStyle.Render(fmt.Sprintf("%-14s", name)), valueStyle.Render(fmt.Sprintf("%.4f", m.last.Metrics[name])))
	}
	return b.String()
}

// Frames is the number of steps received so far.
func (m Live) Frames() int { return m.frames }

func (m Live) Done() bool { return m.done }

func (m Live) Err() error { return m.err }

// Stop ends the run without quitting the program.
func (m Live) Stop() { m.runner.Stop() }
