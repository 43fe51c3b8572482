package cli

import "context"

// SharedState holds what every view needs, shared by pointer.
type SharedState struct {
	App *App

	// Ctx scopes planner calls made from the UI.
	Ctx context.Context

	// Terminal dimensions
	Width  int
	Height int

	// Forecast line shown in the header once fetched.
	Forecast string
}

// ContentHeight returns the rows left for the active view after the header
// (title, separator, status) and the hint bar (separator, hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 5
	if h < 1 {
		return 1
	}
	return h
}
