// Package teatest drives a bubbletea model synchronously in tests.
//
// Messages go straight into Update and every returned Cmd is executed on
// the spot, so a test observes the model exactly as a running program would
// after the keystroke settles. Cmds that block (cursor blink timers, file
// watchers) are abandoned after a short timeout.
package teatest

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds how many chained Cmds a single event may produce.
const MaxDrainDepth = 100

// cmdTimeout separates message factories, which return immediately, from
// timer and watcher Cmds that park on a channel.
const cmdTimeout = 10 * time.Millisecond

// Driver feeds events to a tea.Model and keeps the latest model value.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting records that a Cmd produced tea.QuitMsg.
	Quitting bool

	// Seen counts delivered messages by dynamic type name.
	Seen map[string]int
}

// Option configures a Driver.
type Option func(*Driver)

// New returns a driver for model. Call DrainInit before sending events.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model, Seen: make(map[string]int)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithSize delivers a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.T.Helper()
		d.Model, _ = d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

// DrainInit runs the model's Init command to completion.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drain(d.Model.Init(), 0)
}

// Send delivers msg and drains whatever it triggers. Nothing is delivered
// once the model has quit.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	d.record(msg)
	var cmd tea.Cmd
	d.Model, cmd = d.Model.Update(msg)
	d.drain(cmd, 0)
}

// Resize delivers a new terminal size.
func (d *Driver) Resize(w, h int) {
	d.T.Helper()
	d.Send(tea.WindowSizeMsg{Width: w, Height: h})
}

func (d *Driver) key(t tea.KeyType) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: t})
}

// PressKey sends a single rune.
func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

func (d *Driver) PressEnter() { d.T.Helper(); d.key(tea.KeyEnter) }
func (d *Driver) PressEsc()   { d.T.Helper(); d.key(tea.KeyEsc) }
func (d *Driver) PressCtrlC() { d.T.Helper(); d.key(tea.KeyCtrlC) }
func (d *Driver) PressSpace() { d.T.Helper(); d.key(tea.KeySpace) }
func (d *Driver) PressTab()   { d.T.Helper(); d.key(tea.KeyTab) }
func (d *Driver) PressUp()    { d.T.Helper(); d.key(tea.KeyUp) }
func (d *Driver) PressDown()  { d.T.Helper(); d.key(tea.KeyDown) }
func (d *Driver) PressLeft()  { d.T.Helper(); d.key(tea.KeyLeft) }
func (d *Driver) PressRight() { d.T.Helper(); d.key(tea.KeyRight) }

// View renders the current model.
func (d *Driver) View() string {
	return d.Model.View()
}

// ViewContains reports whether the rendered view contains s.
func (d *Driver) ViewContains(s string) bool {
	return strings.Contains(d.View(), s)
}

func (d *Driver) record(msg tea.Msg) {
	d.Seen[fmt.Sprintf("%T", msg)]++
}

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest: gave up after %d chained commands", MaxDrainDepth)
		return
	}

	msg := run(cmd)
	if msg == nil || isBlink(msg) {
		return
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, sub := range batch {
			d.drain(sub, depth+1)
		}
		return
	}

	if cmds, ok := asSequence(msg); ok {
		for _, sub := range cmds {
			d.drain(sub, depth+1)
		}
		return
	}

	d.record(msg)
	if _, ok := msg.(tea.QuitMsg); ok {
		d.Quitting = true
		d.Model, _ = d.Model.Update(msg)
		return
	}

	var next tea.Cmd
	d.Model, next = d.Model.Update(msg)
	d.drain(next, depth+1)
}

// run executes cmd, returning nil when it does not finish within cmdTimeout.
func run(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}

var cmdType = reflect.TypeOf(tea.Cmd(nil))

// asSequence unpacks the unexported slice tea.Sequence produces. Draining
// in order keeps the sequencing guarantee.
func asSequence(msg tea.Msg) ([]tea.Cmd, bool) {
	v := reflect.ValueOf(msg)
	if v.Kind() != reflect.Slice || v.Type().Elem() != cmdType {
		return nil, false
	}
	cmds := make([]tea.Cmd, v.Len())
	for i := range cmds {
		cmds[i], _ = v.Index(i).Interface().(tea.Cmd)
	}
	return cmds, true
}

// isBlink matches the unexported blink messages of bubbles/cursor, which
// would otherwise schedule another blocking timer.
func isBlink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(fmt.Sprintf("%T", msg)), "blink")
}
