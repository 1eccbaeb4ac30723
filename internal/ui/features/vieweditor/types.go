// Package vieweditor provides the web view editor feature.
package vieweditor

import (
	"github.com/leapstack-labs/leapview/internal/editor"
	"github.com/leapstack-labs/leapview/internal/editor/message"
	"github.com/leapstack-labs/leapview/internal/editor/parts"
	"github.com/leapstack-labs/leapview/pkg/core"
)

// Signals are the client-side values sent with editor actions.
type Signals struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ReadOnly    bool   `json:"readonly"`
	Source      string `json:"source"`
}

// EditorData is a render snapshot of an open editor. It is taken while the
// editor is locked so rendering never touches live part state.
type EditorData struct {
	ID             string
	Virtualization string
	Name           string
	Description    string
	ReadOnly       bool
	Valid          bool

	Layout      editor.Layout
	ShowCanvas  bool
	ShowResults bool
	CanSave     bool

	Errors   int
	Warnings int
	Infos    int

	Sources        []core.SourceRef
	CanvasFocused  bool
	Results        *core.QueryResults
	PreviewFocused bool
	Messages       []*message.Message

	Status string
}

// Snapshot captures the presentation state of e's parts.
func Snapshot(id string, e *parts.Editor) EditorData {
	s := e.Session()
	return EditorData{
		ID:             id,
		Virtualization: e.Header().VirtualizationName(),
		Name:           e.Header().Name(),
		Description:    e.Header().Description(),
		ReadOnly:       e.Header().ReadOnly(),
		Valid:          s.ViewIsValid(),
		Layout:         s.GetEditorConfig(),
		ShowCanvas:     e.IsShowingCanvas(),
		ShowResults:    e.IsShowingResults(),
		CanSave:        e.CanSave(),
		Errors:         e.ErrorCount(),
		Warnings:       e.WarningCount(),
		Infos:          e.InfoCount(),
		Sources:        e.Canvas().Sources(),
		CanvasFocused:  e.Canvas().Focused(),
		Results:        e.Preview().Results(),
		PreviewFocused: e.Preview().Focused(),
		Messages:       e.MessageLog().Rows(),
	}
}

// SignalsOf returns the client signals matching d.
func SignalsOf(d EditorData) Signals {
	return Signals{Name: d.Name, Description: d.Description, ReadOnly: d.ReadOnly}
}
