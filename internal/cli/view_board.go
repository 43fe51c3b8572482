package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/weekendly/weekendly/internal/cli/formatter"
	"github.com/weekendly/weekendly/internal/domain"
	"github.com/weekendly/weekendly/internal/dragdrop"
	"github.com/weekendly/weekendly/internal/export"
)

const minColumnWidth = 24

type boardKeyMap struct {
	Left, Right, Up, Down key.Binding
	Pick, Drop            key.Binding
	MoveUp, MoveDown      key.Binding
	Edit, Add, NewDay     key.Binding
	Remove, RemoveDay     key.Binding
	Clear, Filter         key.Binding
	Poster, Reload        key.Binding
	Cancel                key.Binding
}

func newBoardKeyMap() boardKeyMap {
	return boardKeyMap{
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←→", "column")),
		Right:     key.NewBinding(key.WithKeys("right", "l")),
		Up:        key.NewBinding(key.WithKeys("up", "k")),
		Down:      key.NewBinding(key.WithKeys("down", "j")),
		Pick:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pick up")),
		Drop:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
		MoveUp:    key.NewBinding(key.WithKeys("K"), key.WithHelp("K/J", "move")),
		MoveDown:  key.NewBinding(key.WithKeys("J")),
		Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "new activity")),
		NewDay:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new day")),
		Remove:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove")),
		RemoveDay: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete day")),
		Clear:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear day")),
		Filter:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Poster:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "poster")),
		Reload:    key.NewBinding(key.WithKeys("r")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// dragState is a card that has been picked up and not yet dropped.
type dragState struct {
	payload []byte
	label   string
	itemID  string // empty when carrying a template
}

// boardView shows the activity library next to one column per day. Cards
// move between columns through the same drag payloads a pointer drag uses.
type boardView struct {
	state *SharedState
	keys  boardKeyMap

	templates []domain.ActivityTemplate
	days      []domain.Day

	col  int   // 0 is the library, i+1 is days[i]
	rows []int // cursor row per column

	drag *dragState

	filter    textinput.Model
	filtering bool
}

func newBoardView(state *SharedState) *boardView {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "title or category"
	ti.CharLimit = 64

	v := &boardView{state: state, keys: newBoardKeyMap(), filter: ti}
	v.reload()
	return v
}

// reload re-reads the planner and clamps the cursor.
func (v *boardView) reload() {
	app := v.state.App
	v.templates = app.Templates.ListTemplates(v.filter.Value())
	v.days = app.Schedule.Snapshot().Days

	cols := len(v.days) + 1
	for len(v.rows) < cols {
		v.rows = append(v.rows, 0)
	}
	v.rows = v.rows[:cols]
	v.col = max(0, min(v.col, cols-1))
	for c := range v.rows {
		v.rows[c] = max(0, min(v.rows[c], v.columnLen(c)-1))
	}
}

func (v *boardView) columnLen(c int) int {
	if c == 0 {
		return len(v.templates)
	}
	return len(v.days[c-1].Items)
}

func (v *boardView) currentTemplate() (domain.ActivityTemplate, bool) {
	if v.col != 0 || len(v.templates) == 0 {
		return domain.ActivityTemplate{}, false
	}
	return v.templates[v.rows[0]], true
}

func (v *boardView) currentDay() (string, bool) {
	if v.col == 0 {
		return "", false
	}
	return v.days[v.col-1].Key, true
}

func (v *boardView) currentItem() (string, domain.ScheduledItem, bool) {
	day, ok := v.currentDay()
	if !ok || v.columnLen(v.col) == 0 {
		return "", domain.ScheduledItem{}, false
	}
	return day, v.days[v.col-1].Items[v.rows[v.col]], true
}

// focusItem moves the cursor to id wherever it now is.
func (v *boardView) focusItem(id string) {
	for d, day := range v.days {
		for i, it := range day.Items {
			if it.ID == id {
				v.col, v.rows[d+1] = d+1, i
				return
			}
		}
	}
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (v *boardView) Init() tea.Cmd { return nil }

func (v *boardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshViewMsg:
		v.reload()
		return v, nil
	case tea.KeyMsg:
		if v.filtering {
			return v.updateFilter(msg)
		}
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *boardView) CapturesInput() bool { return v.filtering }

func (v *boardView) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		v.filtering = false
		v.filter.Blur()
		return v, nil
	case tea.KeyEsc:
		v.filtering = false
		v.filter.Blur()
		v.filter.SetValue("")
		v.reload()
		return v, nil
	}
	var cmd tea.Cmd
	v.filter, cmd = v.filter.Update(msg)
	v.rows[0] = 0
	v.reload()
	return v, cmd
}

func (v *boardView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx, app := v.state.Ctx, v.state.App

	switch {
	case key.Matches(msg, v.keys.Left):
		v.col = max(0, v.col-1)
	case key.Matches(msg, v.keys.Right):
		v.col = min(len(v.days), v.col+1)
	case key.Matches(msg, v.keys.Up):
		v.rows[v.col] = max(0, v.rows[v.col]-1)
	case key.Matches(msg, v.keys.Down):
		v.rows[v.col] = max(0, min(v.columnLen(v.col)-1, v.rows[v.col]+1))

	case key.Matches(msg, v.keys.Pick):
		return v, v.pick()
	case key.Matches(msg, v.keys.Drop):
		return v, v.drop()
	case key.Matches(msg, v.keys.Cancel):
		if v.drag != nil {
			v.drag = nil
			return v, statusCmd(formatter.Dim("Put it back."))
		}
		if v.filter.Value() != "" {
			v.filter.SetValue("")
			v.reload()
		}

	case key.Matches(msg, v.keys.MoveUp), key.Matches(msg, v.keys.MoveDown):
		day, it, ok := v.currentItem()
		if !ok {
			return v, nil
		}
		move := app.Schedule.MoveUp
		if key.Matches(msg, v.keys.MoveDown) {
			move = app.Schedule.MoveDown
		}
		if move(ctx, day, it.ID) {
			v.reload()
			v.focusItem(it.ID)
		}

	case key.Matches(msg, v.keys.Edit):
		return v, v.edit()
	case key.Matches(msg, v.keys.Add):
		f := &templateFields{}
		return v, startWizardCmd(v.state, "New activity", templateForm(f), func() tea.Cmd {
			return func() tea.Msg { return applyCreateTemplate(v.state, f) }
		})
	case key.Matches(msg, v.keys.NewDay):
		var name string
		return v, startWizardCmd(v.state, "New day", dayForm(&name), func() tea.Cmd {
			return func() tea.Msg { return applyAddDay(v.state, name) }
		})
	case key.Matches(msg, v.keys.Remove):
		return v, v.remove()
	case key.Matches(msg, v.keys.RemoveDay):
		day, ok := v.currentDay()
		if !ok {
			return v, nil
		}
		var confirmed bool
		prompt := fmt.Sprintf("Delete %s and everything planned in it?", day)
		return v, startWizardCmd(v.state, "Delete day", confirmForm(prompt, &confirmed), func() tea.Cmd {
			return func() tea.Msg { return applyRemoveDay(v.state, day, confirmed) }
		})
	case key.Matches(msg, v.keys.Clear):
		day, ok := v.currentDay()
		if !ok {
			return v, nil
		}
		app.Schedule.ClearDay(ctx, day)
		v.reload()
		return v, statusCmd(formatter.Success("Cleared " + day))

	case key.Matches(msg, v.keys.Filter):
		v.col = 0
		v.filtering = true
		return v, v.filter.Focus()
	case key.Matches(msg, v.keys.Poster):
		return v, pushView(newPosterView(v.state))
	case key.Matches(msg, v.keys.Reload):
		app.State.Reload(ctx)
		v.reload()
		return v, statusCmd(formatter.Dim("Reloaded from storage."))
	}
	return v, nil
}

// pick starts carrying the focused card, or puts back the one carried.
func (v *boardView) pick() tea.Cmd {
	if v.drag != nil {
		v.drag = nil
		return statusCmd(formatter.Dim("Put it back."))
	}

	var (
		p     dragdrop.Payload
		label string
		id    string
	)
	if t, ok := v.currentTemplate(); ok {
		p, label = dragdrop.FromTemplate(t), t.Title
	} else if day, it, ok := v.currentItem(); ok {
		p, label, id = dragdrop.FromItem(day, it.ID), it.Title, it.ID
	} else {
		return nil
	}

	raw, err := dragdrop.Encode(p)
	if err != nil {
		return func() tea.Msg { return statusError(err) }
	}
	v.drag = &dragState{payload: raw, label: label, itemID: id}
	return statusCmd(formatter.StyleWarn.Render("✋ ") + "Carrying " + formatter.Bold(label) + formatter.Dim(" · move to a day and press enter"))
}

// drop releases the carried card on the focused column. Dropping on the
// library is dropping outside any day.
func (v *boardView) drop() tea.Cmd {
	if v.drag == nil {
		return nil
	}
	d := v.drag
	v.drag = nil

	day, ok := v.currentDay()
	if !ok {
		return statusCmd(formatter.Dim("Dropped outside a day; nothing changed."))
	}
	out := v.state.App.Schedule.Drop(v.state.Ctx, day, d.payload)
	v.reload()
	if out.Applied {
		v.focusItem(out.Item.ID)
	}
	return statusCmd(describeDrop(out))
}

func (v *boardView) edit() tea.Cmd {
	if t, ok := v.currentTemplate(); ok {
		f := templateFieldsFrom(t)
		return startWizardCmd(v.state, "Edit "+t.Title, templateForm(f), func() tea.Cmd {
			return func() tea.Msg { return applyEditTemplate(v.state, t.ID, f) }
		})
	}
	if day, it, ok := v.currentItem(); ok {
		f := itemFieldsFrom(it)
		return startWizardCmd(v.state, "Edit "+it.Title, itemForm(it.Title, f), func() tea.Cmd {
			return func() tea.Msg { return applyEditItem(v.state, day, it.ID, f) }
		})
	}
	return nil
}

func (v *boardView) remove() tea.Cmd {
	ctx, app := v.state.Ctx, v.state.App
	if t, ok := v.currentTemplate(); ok {
		app.Templates.DeleteTemplate(ctx, t.ID)
		v.reload()
		return statusCmd(formatter.Success("Deleted " + formatter.Bold(t.Title) + formatter.Dim(" · scheduled copies stay")))
	}
	if day, it, ok := v.currentItem(); ok {
		app.Schedule.RemoveItem(ctx, day, it.ID)
		v.reload()
		return statusCmd(formatter.Success("Removed " + formatter.Bold(it.Title) + " from " + day))
	}
	return nil
}

// ── rendering ────────────────────────────────────────────────────────────────

func (v *boardView) View() string {
	ncols := len(v.days) + 1
	width := minColumnWidth
	if v.state.Width > 0 {
		width = max(minColumnWidth, v.state.Width/ncols)
	}

	cols := make([]string, 0, ncols)
	cols = append(cols, v.renderColumn(0, v.libraryTitle(), v.libraryLines(), width))
	for i, d := range v.days {
		cols = append(cols, v.renderColumn(i+1, v.dayTitle(i+1, d), v.dayLines(i+1, d), width))
	}

	board := lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	if v.drag != nil {
		board = formatter.StyleWarn.Render("✋ "+v.drag.label) + "\n" + board
	}
	return board
}

func (v *boardView) libraryTitle() string {
	title := "Activities"
	if q := v.filter.Value(); q != "" && !v.filtering {
		title += " /" + q
	}
	return title
}

func (v *boardView) dayTitle(c int, d domain.Day) string {
	title := fmt.Sprintf("%s (%d)", formatter.DayTitle(d.Key), len(d.Items))
	if v.drag != nil && c == v.col {
		title += " ⤓"
	}
	return title
}

func (v *boardView) libraryLines() []string {
	var lines []string
	if v.filtering {
		lines = append(lines, v.filter.View())
	}
	if len(v.templates) == 0 {
		return append(lines, formatter.Dim("no activities"))
	}
	for i, t := range v.templates {
		text := formatter.Icon(t.Category) + " " + t.Title + " " + formatter.Dim(t.EstimatedDuration)
		lines = append(lines, v.cursorLine(0, i, text))
	}
	return lines
}

func (v *boardView) dayLines(c int, d domain.Day) []string {
	if len(d.Items) == 0 {
		return []string{formatter.Dim("drop activities here")}
	}
	lines := make([]string, len(d.Items))
	for i, it := range d.Items {
		text := formatter.StyleAccent.Render(export.TimeOrAllDay(it.TimeLabel)) + " " + it.Title + " " + formatter.Vibe(it.Vibe)
		if v.drag != nil && v.drag.itemID == it.ID {
			text = "✋ " + text
		}
		lines[i] = v.cursorLine(c, i, text)
	}
	return lines
}

func (v *boardView) cursorLine(c, row int, text string) string {
	if c == v.col && row == v.rows[c] {
		return formatter.StyleAccent.Render("▸ ") + text
	}
	return "  " + text
}

func (v *boardView) renderColumn(c int, title string, lines []string, width int) string {
	border := formatter.ColorDim
	if c == v.col {
		border = formatter.ColorAccent
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(max(1, width-2))
	body := formatter.StyleHeader.Render(title) + "\n" + strings.Join(lines, "\n")
	return style.Render(body)
}

func (v *boardView) ID() ViewID    { return ViewBoard }
func (v *boardView) Title() string { return "" }

func (v *boardView) ShortHelp() []key.Binding {
	if v.filtering {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "keep filter")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		}
	}
	if v.drag != nil {
		return []key.Binding{v.keys.Left, v.keys.Drop, v.keys.Cancel}
	}
	return []key.Binding{
		v.keys.Left, v.keys.Pick, v.keys.MoveUp, v.keys.Edit, v.keys.Add,
		v.keys.NewDay, v.keys.Remove, v.keys.Filter, v.keys.Poster,
	}
}
