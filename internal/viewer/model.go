// Package viewer is an interactive playground for a console: it shows the
// 80x25 grid and feeds typed lines, with escapes such as \e[31m decoded,
// through the byte dispatcher.
package viewer

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stlalpha/vgaterm/internal/console"
	"github.com/stlalpha/vgaterm/internal/render"
)

const refreshInterval = 100 * time.Millisecond

// KeyMap defines the viewer key bindings.
type KeyMap struct {
	Send       key.Binding
	Clear      key.Binding
	ToggleMode key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send line"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear"),
		),
		ToggleMode: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "toggle mode"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}

type tickMsg time.Time

// Model is the BubbleTea model for the console viewer.
type Model struct {
	con      *console.Shared
	keys     KeyMap
	input    textinput.Model
	renderer *lipgloss.Renderer
	live     bool // A background feed is writing to con
	status   lipgloss.Style
	message  string
}

// New creates a viewer over con. Set live when another goroutine feeds con
// so the screen refreshes on a timer.
func New(con *console.Shared, r *lipgloss.Renderer, live bool) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = `text, \e[31m, \n ...`
	ti.CharLimit = 256
	ti.Width = 76
	ti.Focus()

	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Model{
		con:      con,
		keys:     DefaultKeyMap(),
		input:    ti,
		renderer: r,
		live:     live,
		status:   r.NewStyle().Reverse(true),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, tea.SetWindowTitle("vgaterm")}
	if m.live {
		cmds = append(cmds, tick())
	}
	return tea.Batch(cmds...)
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		// Returning the model is enough to trigger a repaint.
		return m, tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Clear):
			m.con.Clear()
			m.message = "cleared"
			return m, nil
		case key.Matches(msg, m.keys.ToggleMode):
			if m.con.State().Mode == console.Terminal {
				m.con.SetMode(0)
			} else {
				m.con.SetMode(1)
			}
			m.message = "mode " + m.con.State().Mode.String()
			return m, nil
		case key.Matches(msg, m.keys.Send):
			line := m.input.Value()
			m.con.Write(console.ParseEscapes(line))
			m.input.Reset()
			m.message = fmt.Sprintf("sent %d bytes", len(line))
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	st := m.con.State()
	var b strings.Builder
	b.WriteString(render.Styled(m.renderer, st.Screen))
	b.WriteByte('\n')

	status := fmt.Sprintf(" %-8s  cursor %2d,%2d  color %02X  %s",
		st.Mode, st.X, st.Y, st.Color, m.message)
	if pad := 80 - len(status); pad > 0 {
		status += strings.Repeat(" ", pad)
	}
	b.WriteString(m.status.Render(status))
	b.WriteByte('\n')
	b.WriteString(m.input.View())
	return b.String()
}
