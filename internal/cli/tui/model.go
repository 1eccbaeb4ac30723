// Package tui hosts the view editor in a terminal.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/leapview/internal/cli/output"
	"github.com/leapstack-labs/leapview/internal/editor/parts"
	"github.com/leapstack-labs/leapview/pkg/core"
)

// field is the header or canvas value being edited in the input line.
type field int

const (
	fieldNone field = iota
	fieldName
	fieldDescription
	fieldSource
)

func (f field) label() string {
	switch f {
	case fieldName:
		return "Name"
	case fieldDescription:
		return "Description"
	case fieldSource:
		return "Add source (connection:path)"
	}
	return ""
}

// Model is the bubbletea model of the terminal view editor.
type Model struct {
	ctx    context.Context
	editor *parts.Editor
	styles output.Styles

	input  textinput.Model
	field  field
	cursor int

	status    string
	statusErr bool

	width    int
	height   int
	quitting bool
}

// New creates a model over an opened editor.
func New(ctx context.Context, e *parts.Editor) Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 60

	return Model{
		ctx:    ctx,
		editor: e,
		styles: output.NewStyles(lipgloss.DefaultRenderer()),
		input:  ti,
		width:  100,
		height: 30,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("leapview: " + m.editor.Header().VirtualizationName())
}

// Editor returns the hosted editor.
func (m Model) Editor() *parts.Editor { return m.editor }

// Status returns the last status line.
func (m Model) Status() (string, bool) { return m.status, m.statusErr }

// Editing reports whether the input line is active.
func (m Model) Editing() bool { return m.field != fieldNone }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(20, msg.Width-20)
		return m, nil

	case tea.KeyMsg:
		if m.field != fieldNone {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.field = fieldNone
		m.input.Blur()
		m.setStatus("Cancelled", false)
		return m, nil
	case "enter":
		m.commit(m.field, m.input.Value())
		m.field = fieldNone
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := m.editor
	rows := e.MessageLog().Rows()

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "n":
		return m.beginInput(fieldName, e.Header().Name())
	case "d":
		return m.beginInput(fieldDescription, e.Header().Description())
	case "a":
		return m.beginInput(fieldSource, "")

	case "x":
		sources := e.Canvas().Sources()
		if len(sources) == 0 {
			m.setStatus("No sources to remove", true)
			return m, nil
		}
		last := sources[len(sources)-1]
		e.Canvas().RemoveSource(last)
		m.setStatus("Removed "+last.String(), false)

	case "l":
		e.ToggleLayout()
		m.setStatus("Layout: "+layoutLabel(e), false)

	case "r":
		e.SetReadOnly(!e.Header().ReadOnly())
		if e.Header().ReadOnly() {
			m.setStatus("Read-only", false)
		} else {
			m.setStatus("Editable", false)
		}

	case "p":
		if err := e.RunPreview(m.ctx); err != nil {
			m.setStatus(err.Error(), true)
			break
		}
		m.setStatus(fmt.Sprintf("%d row(s) loaded", e.Preview().Results().RowCount()), false)

	case "s", "ctrl+s":
		if err := e.Save(m.ctx); err != nil {
			m.setStatus(err.Error(), true)
			break
		}
		m.setStatus("Saved", false)

	case "c":
		e.MessageLog().Clear()
		m.cursor = 0
		m.setStatus("Messages cleared", false)

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
	case "delete", "backspace":
		if m.cursor < len(rows) {
			e.MessageLog().Delete(rows[m.cursor].ID)
			if m.cursor > 0 && m.cursor >= e.MessageLog().Len() {
				m.cursor--
			}
		}
	}
	return m, nil
}

func (m Model) beginInput(f field, value string) (tea.Model, tea.Cmd) {
	if m.editor.Header().ReadOnly() {
		m.setStatus("View is read-only", true)
		return m, nil
	}
	m.field = f
	m.input.Placeholder = f.label()
	m.input.SetValue(value)
	m.input.CursorEnd()
	cmd := m.input.Focus()
	return m, cmd
}

func (m *Model) commit(f field, value string) {
	e := m.editor
	switch f {
	case fieldName:
		e.Header().SetName(value)
		m.setStatus("Name set", false)
	case fieldDescription:
		e.Header().SetDescription(value)
		m.setStatus("Description set", false)
	case fieldSource:
		ref, err := core.ParseSourceRef(value)
		if err != nil {
			m.setStatus(err.Error(), true)
			return
		}
		e.Canvas().AddSource(ref)
		m.setStatus("Added "+ref.String(), false)
	}
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}
