package event

import (
	"github.com/leapstack-labs/leapview/internal/editor/message"
	"github.com/leapstack-labs/leapview/pkg/core"
)

// Payload is the typed data carried by an event. Each event type has exactly one
// payload type; the set is closed to this package.
type Payload interface {
	Type() Type
	args() []any
}

// ViewChangedPayload announces the view under edit.
type ViewChangedPayload struct{ View *core.View }

// ViewNameChangedPayload carries the new view name.
type ViewNameChangedPayload struct{ Name string }

// ViewDescriptionChangedPayload carries the new view description.
type ViewDescriptionChangedPayload struct{ Description string }

// ViewValidChangedPayload carries the new validity state.
type ViewValidChangedPayload struct{ Valid bool }

// ViewSourcesChangedPayload carries the replacement source list.
type ViewSourcesChangedPayload struct{ Sources []core.SourceRef }

// ReadOnlyChangedPayload carries the new readonly flag.
type ReadOnlyChangedPayload struct{ ReadOnly bool }

// EditorConfigChangedPayload carries the id of the newly displayed layout.
type EditorConfigChangedPayload struct{ LayoutID string }

// PreviewResultsChangedPayload carries the new preview results.
type PreviewResultsChangedPayload struct{ Results *core.QueryResults }

// LogMessageAddedPayload carries the appended message.
type LogMessageAddedPayload struct{ Message *message.Message }

// LogMessageDeletedPayload carries the removed message.
type LogMessageDeletedPayload struct{ Message *message.Message }

// LogMessagesClearedPayload has no data.
type LogMessagesClearedPayload struct{}

// ShowEditorPartPayload names the part to bring into view.
type ShowEditorPartPayload struct{ Part Part }

// CanvasSelectionChangedPayload has no data.
type CanvasSelectionChangedPayload struct{}

func (ViewChangedPayload) Type() Type            { return ViewChanged }
func (ViewNameChangedPayload) Type() Type        { return ViewNameChanged }
func (ViewDescriptionChangedPayload) Type() Type { return ViewDescriptionChanged }
func (ViewValidChangedPayload) Type() Type       { return ViewValidChanged }
func (ViewSourcesChangedPayload) Type() Type     { return ViewSourcesChanged }
func (ReadOnlyChangedPayload) Type() Type        { return ReadOnlyChanged }
func (EditorConfigChangedPayload) Type() Type    { return EditorConfigChanged }
func (PreviewResultsChangedPayload) Type() Type  { return PreviewResultsChanged }
func (LogMessageAddedPayload) Type() Type        { return LogMessageAdded }
func (LogMessageDeletedPayload) Type() Type      { return LogMessageDeleted }
func (LogMessagesClearedPayload) Type() Type     { return LogMessagesCleared }
func (ShowEditorPartPayload) Type() Type         { return ShowEditorPart }
func (CanvasSelectionChangedPayload) Type() Type { return CanvasSelectionChanged }

func (p ViewChangedPayload) args() []any            { return []any{p.View} }
func (p ViewNameChangedPayload) args() []any        { return []any{p.Name} }
func (p ViewDescriptionChangedPayload) args() []any { return []any{p.Description} }
func (p ViewValidChangedPayload) args() []any       { return []any{p.Valid} }
func (p ViewSourcesChangedPayload) args() []any     { return []any{p.Sources} }
func (p ReadOnlyChangedPayload) args() []any        { return []any{p.ReadOnly} }
func (p EditorConfigChangedPayload) args() []any    { return []any{p.LayoutID} }
func (p PreviewResultsChangedPayload) args() []any  { return []any{p.Results} }
func (p LogMessageAddedPayload) args() []any        { return []any{p.Message} }
func (p LogMessageDeletedPayload) args() []any      { return []any{p.Message} }
func (LogMessagesClearedPayload) args() []any       { return []any{} }
func (p ShowEditorPartPayload) args() []any         { return []any{p.Part} }
func (CanvasSelectionChangedPayload) args() []any   { return []any{} }
