// Package editor holds the state of a view being edited and broadcasts every
// change to the parts of the editor.
//
// A Session is the only writer of that state. Parts observe it by subscribing
// to its events and change it only through its mutators. All calls are
// synchronous and a Session must be used from one goroutine at a time.
package editor

import (
	"log/slog"

	"github.com/leapstack-labs/leapview/internal/editor/event"
	"github.com/leapstack-labs/leapview/internal/editor/message"
	"github.com/leapstack-labs/leapview/pkg/core"
)

// Session is the single authoritative holder of the view under edit,
// its message log, the preview results and the editor layout.
type Session struct {
	logger *slog.Logger

	subscribers []*subscriber
	nextSubID   uint64

	view               *core.View
	virtualization     *core.Virtualization
	initialName        string
	initialDescription string

	log          message.Log
	results      *core.QueryResults
	readOnly     bool
	viewIsValid  bool
	editorConfig Layout
}

// NewSession creates an empty session. If logger is nil, a discard logger is used.
func NewSession(logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{logger: logger}
}

// --- Context ---

// SetEditorVirtualization sets the virtualization whose view is being edited.
// Only the first call has an effect. No event is fired.
func (s *Session) SetEditorVirtualization(v *core.Virtualization) {
	if v == nil {
		return
	}
	if s.virtualization != nil {
		s.logger.Debug("setEditorVirtualization called more than once", "virtualization", v.ID)
		return
	}
	s.virtualization = v
}

// GetEditorVirtualization returns the virtualization, if one has been set.
func (s *Session) GetEditorVirtualization() (*core.Virtualization, bool) {
	return s.virtualization, s.virtualization != nil
}

// SetEditorView sets the view being edited. Only the first call has an effect.
// The initial name and description are captured for HasChanges. A view without
// a name gets an ERR0110 message before VIEW_CHANGED fires.
func (s *Session) SetEditorView(view *core.View, source event.Part) {
	if view == nil {
		return
	}
	if s.view != nil {
		s.logger.Debug("setEditorView called more than once", "view", view.Name)
		return
	}

	s.view = view
	s.initialName = view.Name
	s.initialDescription = view.Description
	if !view.HasName() {
		s.AddMessage(message.New(message.ERR0110), source)
	}
	s.fire(event.New(source, event.ViewChangedPayload{View: view}))
}

// GetEditorView returns the view under edit, if one has been set.
func (s *Session) GetEditorView() (*core.View, bool) {
	return s.view, s.view != nil
}

// --- View properties ---

// GetViewName returns the view name, or "" if unset.
func (s *Session) GetViewName() string {
	if s.view == nil {
		return ""
	}
	return s.view.Name
}

// GetViewDescription returns the view description, or "" if unset.
func (s *Session) GetViewDescription() string {
	if s.view == nil {
		return ""
	}
	return s.view.Description
}

// SetViewName renames the view and fires VIEW_NAME_CHANGED. When the name
// becomes empty an ERR0110 message is added; when it stops being empty the
// message is deleted.
func (s *Session) SetViewName(newName string, source event.Part) {
	if !s.requireView("setViewName") {
		return
	}

	wasEmpty := !s.view.HasName()
	s.view.SetName(newName)
	isEmpty := !s.view.HasName()

	switch {
	case !wasEmpty && isEmpty:
		s.AddMessage(message.New(message.ERR0110), source)
	case wasEmpty && !isEmpty:
		s.DeleteMessage(message.ERR0110.ID, source)
	}

	s.fire(event.New(source, event.ViewNameChangedPayload{Name: newName}))
}

// SetViewDescription updates the view description and fires VIEW_DESCRIPTION_CHANGED.
func (s *Session) SetViewDescription(newDescription string, source event.Part) {
	if !s.requireView("setViewDescription") {
		return
	}
	s.view.SetDescription(newDescription)
	s.fire(event.New(source, event.ViewDescriptionChangedPayload{Description: newDescription}))
}

// SetViewSources replaces the view sources and fires VIEW_SOURCES_CHANGED.
func (s *Session) SetViewSources(newSources []core.SourceRef, source event.Part) {
	if !s.requireView("setViewSources") {
		return
	}
	s.view.Sources = append([]core.SourceRef(nil), newSources...)
	s.fire(event.New(source, event.ViewSourcesChangedPayload{Sources: s.view.Sources}))
}

// HasChanges reports whether the name or description differ from the values
// captured when the view was set.
func (s *Session) HasChanges() bool {
	if s.view == nil {
		return false
	}
	return s.view.Name != s.initialName || s.view.Description != s.initialDescription
}

// MarkSaved recaptures the initial name and description after the view has been
// persisted, so HasChanges reports false until the next edit.
func (s *Session) MarkSaved() {
	if s.view == nil {
		return
	}
	s.initialName = s.view.Name
	s.initialDescription = s.view.Description
}

// InitialName returns the view name captured when the view was set or last saved.
func (s *Session) InitialName() string {
	return s.initialName
}

func (s *Session) requireView(op string) bool {
	if s.view == nil {
		s.logger.Debug(op+" called before setEditorView")
		return false
	}
	return true
}

// --- Editor flags ---

// IsReadOnly reports whether the editor is readonly.
func (s *Session) IsReadOnly() bool {
	return s.readOnly
}

// SetReadOnly fires READONLY_CHANGED when the value changes.
func (s *Session) SetReadOnly(newValue bool, source event.Part) {
	if s.readOnly == newValue {
		return
	}
	s.readOnly = newValue
	s.fire(event.New(source, event.ReadOnlyChangedPayload{ReadOnly: newValue}))
}

// ViewIsValid reports the view validation state.
func (s *Session) ViewIsValid() bool {
	return s.viewIsValid
}

// SetViewIsValid fires VIEW_VALID_CHANGED when the value changes.
func (s *Session) SetViewIsValid(newValue bool, source event.Part) {
	if s.viewIsValid == newValue {
		return
	}
	s.viewIsValid = newValue
	if s.view != nil {
		s.view.Valid = newValue
	}
	s.fire(event.New(source, event.ViewValidChangedPayload{Valid: newValue}))
}

// GetEditorConfig returns the displayed layout, or "" before one has been set.
func (s *Session) GetEditorConfig() Layout {
	return s.editorConfig
}

// SetEditorConfig fires EDITOR_CONFIG_CHANGED when the layout changes.
func (s *Session) SetEditorConfig(newLayout Layout, source event.Part) {
	if s.editorConfig == newLayout {
		return
	}
	s.editorConfig = newLayout
	s.fire(event.New(source, event.EditorConfigChangedPayload{LayoutID: string(newLayout)}))
}

// --- Preview ---

// GetPreviewResults returns the latest preview results, or nil.
func (s *Session) GetPreviewResults() *core.QueryResults {
	return s.results
}

// SetPreviewResults replaces the preview results and always fires
// PREVIEW_RESULTS_CHANGED, even when results is the current value.
func (s *Session) SetPreviewResults(results *core.QueryResults, source event.Part) {
	s.results = results
	s.fire(event.New(source, event.PreviewResultsChangedPayload{Results: results}))
}

// ShowEditorPart asks the parts to bring part into view.
func (s *Session) ShowEditorPart(part event.Part, source event.Part) {
	s.fire(event.New(source, event.ShowEditorPartPayload{Part: part}))
}

// --- Message log ---

// GetMessages returns a copy of the active messages in insertion order.
func (s *Session) GetMessages() []*message.Message {
	return s.log.Messages()
}

// HasMessage reports whether a message with the given id is in the log.
func (s *Session) HasMessage(id string) bool {
	return s.log.Has(id)
}

// AddMessage appends msg and fires LOG_MESSAGE_ADDED. A nil message, or one
// whose id is already in the log, is ignored. An unknown severity is stored
// as ERROR.
func (s *Session) AddMessage(msg *message.Message, source event.Part) {
	if msg == nil {
		return
	}
	msg, ok := msg.Normalized()
	if !ok {
		s.logger.Debug("unknown message type, stored as error", "id", msg.ID)
	}
	if !s.log.Add(msg) {
		s.logger.Debug("message already in log", "id", msg.ID)
		return
	}
	s.fire(event.New(source, event.LogMessageAddedPayload{Message: msg}))
}

// DeleteMessage removes the message with the given id and fires
// LOG_MESSAGE_DELETED. Unknown ids are ignored without an event.
func (s *Session) DeleteMessage(id string, source event.Part) {
	msg, ok := s.log.Delete(id)
	if !ok {
		return
	}
	s.fire(event.New(source, event.LogMessageDeletedPayload{Message: msg}))
}

// ClearMessages empties the log and fires LOG_MESSAGES_CLEARED.
func (s *Session) ClearMessages(source event.Part) {
	s.log.Clear()
	s.fire(event.New(source, event.LogMessagesClearedPayload{}))
}

// GetErrorMessageCount returns the number of error messages.
func (s *Session) GetErrorMessageCount() int {
	return s.log.Count(message.TypeError)
}

// GetWarningMessageCount returns the number of warning messages.
func (s *Session) GetWarningMessageCount() int {
	return s.log.Count(message.TypeWarning)
}

// GetInfoMessageCount returns the number of info messages.
func (s *Session) GetInfoMessageCount() int {
	return s.log.Count(message.TypeInfo)
}
