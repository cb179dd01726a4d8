package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/StuyPulse/StuyLib-sub001/internal/config"
	"github.com/StuyPulse/StuyLib-sub001/internal/experiment"
)

// Builder turns a preset into a ready experiment.
type Builder func(cfg *config.Config) (*experiment.Experiment, error)

type presetItem struct {
	mechanism string
	preset    string
}

// App lists the presets and opens a live view on the chosen one. Leaving
// the live view stops its run and returns to the list.
type App struct {
	items  []presetItem
	cursor int
	build  Builder
	opts   []RunnerOption
	live   *Live
	width  int
	err    error
}

func NewApp(build Builder, opts ...RunnerOption) App {
	if build == nil {
		build = func(cfg *config.Config) (*experiment.Experiment, error) {
			return experiment.New(cfg)
		}
	}

	mechanisms := make([]string, 0, len(config.Presets))
	for mech := range config.Presets {
		mechanisms = append(mechanisms, mech)
	}
	sort.Strings(mechanisms)

	var items []presetItem
	for _, mech := range mechanisms {
		for _, preset := range config.ListPresets(mech) {
			items = append(items, presetItem{mechanism: mech, preset: preset})
		}
	}
	return App{items: items, build: build, opts: opts, width: 80}
}

func (a App) Init() tea.Cmd { return nil }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = ws.Width
	}

	if a.live != nil {
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "ctrl+c":
				a.live.Stop()
				return a, tea.Quit
			case "q", "esc":
				a.live.Stop()
				a.live = nil
				return a, tea.ClearScreen
			}
		}
		lm, cmd := a.live.Update(msg)
		l := lm.(Live)
		a.live = &l
		return a, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.items)-1 {
			a.cursor++
		}
	case "enter", " ":
		return a.open()
	}
	return a, nil
}

func (a App) open() (tea.Model, tea.Cmd) {
	if len(a.items) == 0 {
		return a, nil
	}
	item := a.items[a.cursor]
	cfg := config.GetPreset(item.mechanism, item.preset)

	exp, err := a.build(cfg)
	if err != nil {
		a.err = err
		return a, nil
	}
	a.err = nil

	l := NewLive(exp, a.opts...)
	l.width = a.width
	a.live = &l
	return a, tea.Batch(tea.ClearScreen, l.Init())
}

func (a App) View() string {
	if a.live != nil {
		return a.live.View()
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("STUYLIB"))
	b.WriteString(subtleStyle.Render("  control loop bench"))
	b.WriteString("\n")
	b.WriteString(separator(40))
	b.WriteString("\n\n")

	for i, item := range a.items {
		line := fmt.Sprintf("%-10s %s", item.mechanism, item.preset)
		if i == a.cursor {
			b.WriteString(selectedStyle.Render("▸ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if a.err != nil {
		b.WriteString("\n")
		b.WriteString(manualStyle.Render("error: " + a.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("↑↓ select  enter run  q quit"))
	b.WriteString("\n")
	return b.String()
}

// Run starts the full-screen program on the given model.
func Run(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
