// Package teatest drives bubbletea models synchronously in tests.
//
// Driver stands in for tea.Program: it calls Update directly and runs every
// returned Cmd to completion before the next key, so a test can press keys
// and assert on the model without goroutines or a terminal.
package teatest

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds how many chained Cmds one Send may run.
const MaxDrainDepth = 100

// cmdTimeout is how long a Cmd may block before the driver skips it. Saves
// against a test database finish well inside it; timers and tickers do not.
const cmdTimeout = 250 * time.Millisecond

// Driver is a synchronous harness for any tea.Model.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once a Cmd yields tea.QuitMsg. The model still sees
	// the message, but later sends are dropped like a stopped program.
	Quitting bool
}

// New creates a Driver and runs the model's Init command.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	d.drainCmd(d.Model.Init(), 0)
	return d
}

// Option configures the Driver during construction.
type Option func(*Driver)

// WithSize sends a WindowSizeMsg before Init runs.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.T.Helper()
		updated, _ := d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
		d.Model = updated
	}
}

// Send dispatches msg through Update and drains the resulting Cmds.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	d.drainCmd(cmd, 0)
}

// Press sends each key in order. Keys use bubbletea's names ("up",
// "shift+down", "ctrl+s", "esc"); anything else is typed as runes.
func (d *Driver) Press(keys ...string) {
	d.T.Helper()
	for _, k := range keys {
		d.Send(KeyMsg(k))
	}
}

// View returns the model's current rendering.
func (d *Driver) View() string {
	return d.Model.View()
}

var namedKeys = map[string]tea.KeyType{
	"enter":      tea.KeyEnter,
	"esc":        tea.KeyEsc,
	"tab":        tea.KeyTab,
	"backspace":  tea.KeyBackspace,
	"up":         tea.KeyUp,
	"down":       tea.KeyDown,
	"left":       tea.KeyLeft,
	"right":      tea.KeyRight,
	"shift+up":   tea.KeyShiftUp,
	"shift+down": tea.KeyShiftDown,
	"ctrl+c":     tea.KeyCtrlC,
	"ctrl+s":     tea.KeyCtrlS,
}

// KeyMsg builds the key message bubbletea would deliver for name.
func KeyMsg(name string) tea.KeyMsg {
	if t, ok := namedKeys[strings.ToLower(name)]; ok {
		return tea.KeyMsg{Type: t}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
}

func (d *Driver) drainCmd(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest.Driver: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	msg := execCmdWithTimeout(cmd)
	if msg == nil {
		return
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, sub := range batch {
			d.drainCmd(sub, depth+1)
		}
		return
	}

	if _, ok := msg.(tea.QuitMsg); ok {
		d.Quitting = true
		updated, _ := d.Model.Update(msg)
		d.Model = updated
		return
	}

	updated, next := d.Model.Update(msg)
	d.Model = updated
	d.drainCmd(next, depth+1)
}

// execCmdWithTimeout runs cmd and returns its message, or nil when it does
// not finish within cmdTimeout.
func execCmdWithTimeout(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() {
		ch <- cmd()
	}()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}
