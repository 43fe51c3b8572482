package cli

import (
	"context"
	"reflect"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/weekendly/weekendly/internal/cli/formatter"
)

// appModel is the root bubbletea Model for the board UI. It manages a view
// stack, a one-line status and the optional store watcher.
type appModel struct {
	state     *SharedState
	viewStack []View
	status    string
	quitting  bool

	changes <-chan string
}

// forecastMsg carries the fetched forecast line, empty on failure.
type forecastMsg struct {
	line string
}

func newAppModel(ctx context.Context, app *App) appModel {
	if ctx == nil {
		ctx = context.Background()
	}
	state := &SharedState{App: app, Ctx: ctx}
	m := appModel{state: state}

	if app.Watch != nil {
		ch, err := app.Watch(ctx)
		if err != nil {
			app.logger().Warn("watching store failed", "error", err)
		} else {
			m.changes = ch
		}
	}

	m.viewStack = []View{newBoardView(state)}
	return m
}

// activeView returns the top view on the stack, or nil.
func (m *appModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

// setActiveView replaces the top of the view stack.
func (m *appModel) setActiveView(v View) {
	if len(m.viewStack) > 0 {
		m.viewStack[len(m.viewStack)-1] = v
	}
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m appModel) Init() tea.Cmd {
	cmds := []tea.Cmd{fetchForecastCmd(m.state)}
	if v := m.activeView(); v != nil {
		cmds = append(cmds, v.Init())
	}
	cmds = append(cmds, waitForChange(m.changes))
	return tea.Batch(cmds...)
}

func fetchForecastCmd(state *SharedState) tea.Cmd {
	if state.App.Forecaster == nil {
		return nil
	}
	return func() tea.Msg {
		forecast, err := fetchForecast(state.Ctx, state.App)
		if err != nil {
			state.App.logger().Debug("forecast unavailable", "error", err)
			return forecastMsg{}
		}
		return forecastMsg{line: formatter.FormatForecastLine(forecast)}
	}
}

func waitForChange(ch <-chan string) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		key, ok := <-ch
		if !ok {
			return watchClosedMsg{}
		}
		return storeChangedMsg{key: key}
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		return m.forward(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pushViewMsg:
		m.viewStack = append(m.viewStack, msg.view)
		return m, msg.view.Init()

	case popViewMsg:
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, nil

	case statusMsg:
		m.status = msg.text
		return m, nil

	case forecastMsg:
		m.state.Forecast = msg.line
		return m, nil

	case refreshViewMsg:
		return m.broadcast(msg)

	case wizardCompleteMsg:
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, tea.Batch(msg.nextCmd, func() tea.Msg { return refreshViewMsg{} })

	case storeChangedMsg:
		app := m.state.App
		beforeT, beforeS := app.Templates.ListTemplates(""), app.Schedule.Snapshot()
		app.State.Reload(m.state.Ctx)
		next := waitForChange(m.changes)
		if reflect.DeepEqual(beforeT, app.Templates.ListTemplates("")) &&
			reflect.DeepEqual(beforeS, app.Schedule.Snapshot()) {
			return m, next
		}
		m.status = formatter.Dim("Reloaded: " + msg.key + " changed on disk")
		updated, cmd := m.broadcast(refreshViewMsg{})
		return updated, tea.Batch(cmd, next)

	case watchClosedMsg:
		m.changes = nil
		return m, nil
	}

	return m.forward(msg)
}

// forward hands msg to the active view.
func (m appModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	v := m.activeView()
	if v == nil {
		return m, nil
	}
	updated, cmd := v.Update(msg)
	m.setActiveView(updated.(View))
	return m, cmd
}

// broadcast hands msg to every view so views under a form reload too.
func (m appModel) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	for i, v := range m.viewStack {
		updated, cmd := v.Update(msg)
		m.viewStack[i] = updated.(View)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	// Views with a focused text input get every key, including q and esc.
	if v := m.activeView(); viewCapturesInput(v) {
		return m.forward(msg)
	}

	switch {
	case msg.String() == "q":
		m.quitting = true
		return m, tea.Quit

	case msg.Type == tea.KeyEsc && len(m.viewStack) > 1:
		m.viewStack = m.viewStack[:len(m.viewStack)-1]
		return m, nil
	}

	// Any other key dismisses the status line before the view sees it.
	m.status = ""
	return m.forward(msg)
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.renderHeader()}
	if v := m.activeView(); v != nil {
		sections = append(sections, v.View())
	}
	sections = append(sections, m.renderStatusBar())

	result := strings.Join(sections, "\n")

	// Pad to terminal height so the alt-screen renderer clears stale lines.
	if m.state.Height > 0 {
		lines := strings.Count(result, "\n") + 1
		if lines < m.state.Height {
			result += strings.Repeat("\n", m.state.Height-lines)
		}
	}
	return result
}

// ── rendering helpers ────────────────────────────────────────────────────────

func (m *appModel) renderHeader() string {
	title := formatter.StyleAccent.Render("weekendly")

	var crumbs []string
	for _, v := range m.viewStack {
		if t := v.Title(); t != "" {
			crumbs = append(crumbs, t)
		}
	}
	header := title
	if len(crumbs) > 0 {
		header += " " + formatter.Dim("›") + " " + formatter.Dim(strings.Join(crumbs, " › "))
	}
	if theme := formatter.Theme(); theme != "default" {
		header += "  " + formatter.Dim("["+theme+"]")
	}
	if m.state.Forecast != "" {
		header += "   " + m.state.Forecast
	}

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return header + "\n" + sep + "\n" + m.status
}

func (m *appModel) renderStatusBar() string {
	var hints []string
	if v := m.activeView(); v != nil {
		for _, b := range v.ShortHelp() {
			hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
		}
	}
	if len(m.viewStack) > 1 {
		hints = append(hints, formatter.Dim("esc: back"))
	}
	hints = append(hints, formatter.Dim("q: quit"))

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return sep + "\n" + strings.Join(hints, "  ")
}

// inputCapturer is implemented by views whose text input is sometimes
// focused.
type inputCapturer interface {
	CapturesInput() bool
}

// viewCapturesInput reports whether v should receive every key, bypassing
// global keys like q and esc.
func viewCapturesInput(v View) bool {
	if v == nil {
		return false
	}
	if v.ID() == ViewForm {
		return true
	}
	if c, ok := v.(inputCapturer); ok {
		return c.CapturesInput()
	}
	return false
}
