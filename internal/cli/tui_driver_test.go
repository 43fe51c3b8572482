package cli

import (
	"context"
	"testing"

	"github.com/weekendly/weekendly/internal/teatest"
)

const maxCursorSteps = 50

// TestDriver wraps teatest.Driver with access to appModel internals (view
// stack, status line, board cursor) that the generic driver can't see.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver builds the appModel for app, sets the terminal size and
// drains Init.
func NewTestDriver(t *testing.T, app *App) *TestDriver {
	t.Helper()

	m := newAppModel(context.Background(), app)
	d := teatest.New(t, m, teatest.WithSize(160, 40))
	d.DrainInit()

	return &TestDriver{Driver: d}
}

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ViewStackLen returns the number of views on the stack.
func (d *TestDriver) ViewStackLen() int {
	return len(d.appModel().viewStack)
}

// Status returns the current status line.
func (d *TestDriver) Status() string {
	return d.appModel().status
}

// Board returns the board view at the bottom of the stack.
func (d *TestDriver) Board() *boardView {
	d.T.Helper()
	m := d.appModel()
	b, ok := m.viewStack[0].(*boardView)
	if !ok {
		d.T.Fatalf("bottom view is %T, not the board", m.viewStack[0])
	}
	return b
}

// FocusColumn moves the board cursor to column c, 0 being the library.
func (d *TestDriver) FocusColumn(c int) {
	d.T.Helper()
	for i := 0; i < maxCursorSteps && d.Board().col > c; i++ {
		d.PressLeft()
	}
	for i := 0; i < maxCursorSteps && d.Board().col < c; i++ {
		d.PressRight()
	}
	if got := d.Board().col; got != c {
		d.T.Fatalf("cursor stuck at column %d, want %d", got, c)
	}
}

// FocusRow moves the cursor within the focused column to row r.
func (d *TestDriver) FocusRow(r int) {
	d.T.Helper()
	b := d.Board()
	for i := 0; i < maxCursorSteps && b.rows[b.col] > r; i++ {
		d.PressUp()
	}
	for i := 0; i < maxCursorSteps && b.rows[b.col] < r; i++ {
		d.PressDown()
	}
	if got := b.rows[b.col]; got != r {
		d.T.Fatalf("cursor stuck at row %d, want %d", got, r)
	}
}
