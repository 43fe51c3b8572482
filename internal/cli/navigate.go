package cli

import tea "github.com/charmbracelet/bubbletea"

// Navigation messages used by views to request view transitions.
// The appModel handles these in its Update method.

// pushViewMsg pushes a new view onto the navigation stack.
type pushViewMsg struct {
	view View
}

// popViewMsg returns to the previous view.
type popViewMsg struct{}

// statusMsg replaces the one-line status under the header.
type statusMsg struct {
	text string
}

// refreshViewMsg asks every view on the stack to reload from the planner.
type refreshViewMsg struct{}

// storeChangedMsg reports a slot written by another process.
type storeChangedMsg struct {
	key string
}

// watchClosedMsg reports that the store watcher stopped.
type watchClosedMsg struct{}

// wizardCompleteMsg is sent when a form completes or is cancelled. The
// appModel pops the form, then runs nextCmd.
type wizardCompleteMsg struct {
	nextCmd tea.Cmd
}

func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

func popView() tea.Cmd {
	return func() tea.Msg { return popViewMsg{} }
}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

// wizardCompleteStatus pops the form and shows text as the status.
func wizardCompleteStatus(text string) tea.Msg {
	return wizardCompleteMsg{nextCmd: statusCmd(text)}
}
