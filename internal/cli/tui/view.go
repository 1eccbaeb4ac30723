package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leapview/internal/editor"
	"github.com/leapstack-labs/leapview/internal/editor/parts"
	"github.com/leapstack-labs/leapview/pkg/core"
)

const help = "n name · d description · a/x source · l layout · r read-only · p preview · s save · c clear · ↑↓ del messages · q quit"

func layoutLabel(e *parts.Editor) string {
	switch e.Session().GetEditorConfig() {
	case editor.LayoutCanvasOnly:
		return "canvas"
	case editor.LayoutResultsOnly:
		return "results"
	default:
		return "full"
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	e := m.editor
	st := m.styles
	var b strings.Builder

	// Toolbar
	badges := []string{
		st.Badge.Render(e.Header().VirtualizationName()),
		st.Muted.Render("layout: " + layoutLabel(e)),
	}
	if e.Header().ReadOnly() {
		badges = append(badges, st.Warning.Render("read-only"))
	}
	if e.CanSave() {
		badges = append(badges, st.Success.Render("unsaved changes"))
	}
	b.WriteString(strings.Join(badges, "  "))
	b.WriteString("\n\n")

	// Header
	name := e.Header().Name()
	if name == "" {
		name = st.Muted.Render("(unnamed view)")
	}
	b.WriteString(st.Header.Render(name))
	b.WriteString("\n")
	if d := e.Header().Description(); d != "" {
		b.WriteString(d)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.field != fieldNone {
		b.WriteString(st.Focused.Render(m.field.label()+": ") + m.input.View())
		b.WriteString("\n\n")
	}

	if e.IsShowingCanvas() {
		b.WriteString(st.Header.Render("Sources"))
		b.WriteString("\n")
		sources := e.Canvas().Sources()
		if len(sources) == 0 {
			b.WriteString(st.Muted.Render("  none"))
			b.WriteString("\n")
		}
		for _, s := range sources {
			b.WriteString("  • " + s.String() + "\n")
		}
		b.WriteString("\n")
	}

	if e.IsShowingResults() {
		b.WriteString(st.Header.Render("Preview"))
		b.WriteString("\n")
		b.WriteString(renderResults(e.Preview().Results(), m.height/2))
		b.WriteString("\n")
	}

	b.WriteString(st.Header.Render(fmt.Sprintf("Messages (%d errors, %d warnings, %d info)",
		e.ErrorCount(), e.WarningCount(), e.InfoCount())))
	b.WriteString("\n")
	for i, msg := range e.MessageLog().Rows() {
		style := st.Muted
		switch {
		case msg.IsError():
			style = st.Error
		case msg.IsWarning():
			style = st.Warning
		}
		prefix := "  "
		if i == m.cursor {
			prefix = st.Focused.Render("> ")
		}
		b.WriteString(prefix + style.Render(msg.String()) + "\n")
	}
	b.WriteString("\n")

	if m.status != "" {
		if m.statusErr {
			b.WriteString(st.Error.Render(m.status))
		} else {
			b.WriteString(st.Success.Render(m.status))
		}
		b.WriteString("\n")
	}
	b.WriteString(st.Muted.Render(help))

	return lipgloss.NewStyle().MaxWidth(m.width).Render(b.String())
}

// renderResults renders at most maxRows rows of a preview.
func renderResults(results *core.QueryResults, maxRows int) string {
	if results.RowCount() == 0 {
		return "  (no rows, press p to preview)\n"
	}
	if maxRows < 1 {
		maxRows = 10
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	header := make(table.Row, len(results.Columns))
	for i, c := range results.Columns {
		header[i] = c.Label
	}
	t.AppendHeader(header)
	for i, r := range results.Rows {
		if i == maxRows {
			break
		}
		row := make(table.Row, len(r))
		for j, v := range r {
			if v == nil {
				row[j] = "NULL"
			} else {
				row[j] = v
			}
		}
		t.AppendRow(row)
	}
	out := t.Render() + "\n"
	if n := results.RowCount(); n > maxRows {
		out += fmt.Sprintf("  … %d more row(s)\n", n-maxRows)
	}
	return out
}
