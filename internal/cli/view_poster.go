package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/weekendly/weekendly/internal/cli/formatter"
	"github.com/weekendly/weekendly/internal/export"
	"github.com/weekendly/weekendly/internal/weather"
)

// posterView shows the shareable plan card with the weekend forecast.
type posterView struct {
	state    *SharedState
	forecast []weather.DayForecast
	save     key.Binding
}

// posterForecastMsg delivers the forecast to the poster.
type posterForecastMsg struct {
	forecast []weather.DayForecast
}

func newPosterView(state *SharedState) *posterView {
	return &posterView{
		state: state,
		save:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save json")),
	}
}

func (v *posterView) Init() tea.Cmd {
	state := v.state
	return func() tea.Msg {
		forecast, _ := fetchForecast(state.Ctx, state.App)
		return posterForecastMsg{forecast: forecast}
	}
}

func (v *posterView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case posterForecastMsg:
		v.forecast = msg.forecast
	case tea.KeyMsg:
		if key.Matches(msg, v.save) {
			return v, v.saveExport()
		}
	}
	return v, nil
}

// saveExport writes the JSON snapshot to the default file name in the
// working directory.
func (v *posterView) saveExport() tea.Cmd {
	app := v.state.App
	now := app.now()
	data, err := export.JSON(app.Schedule.Snapshot(), now)
	if err != nil {
		return func() tea.Msg { return statusError(err) }
	}
	name := export.Filename(now)
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return func() tea.Msg { return statusError(fmt.Errorf("writing export: %w", err)) }
	}
	return statusCmd(formatter.Success("Saved " + name))
}

func (v *posterView) View() string {
	return formatter.FormatPoster(v.state.App.Schedule.Snapshot(), v.forecast)
}

func (v *posterView) ID() ViewID    { return ViewPoster }
func (v *posterView) Title() string { return "poster" }
func (v *posterView) ShortHelp() []key.Binding {
	return []key.Binding{v.save}
}
