package parts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapview/internal/editor"
	"github.com/leapstack-labs/leapview/internal/editor/event"
	"github.com/leapstack-labs/leapview/internal/editor/message"
	"github.com/leapstack-labs/leapview/pkg/core"
)

// Errors returned by Editor.Save.
var (
	ErrNothingToSave    = errors.New("nothing to save")
	ErrNoVirtualization = errors.New("no virtualization selected")
	ErrViewHasErrors    = errors.New("view has errors")
	ErrNoPreviewer      = errors.New("preview is not configured")
)

// ViewStore persists views. It is satisfied by state.Store.
type ViewStore interface {
	SaveView(ctx context.Context, virtualizationID string, view *core.View) error
	RenameView(ctx context.Context, virtualizationID, oldName, newName string) error
}

// Previewer runs the preview query of the session view and publishes the results.
type Previewer interface {
	Refresh(ctx context.Context, session *editor.Session) error
}

// Validator reports additional problems about the session view.
type Validator interface {
	Apply(session *editor.Session) error
}

// Selection is what the user picked before opening the editor. Either field may be nil.
type Selection struct {
	Virtualization *core.Virtualization
	View           *core.View
	ReadOnly       bool
}

// Option configures an Editor.
type Option func(*Editor)

// WithPreviewer sets the runner used by Editor.RunPreview.
func WithPreviewer(p Previewer) Option {
	return func(e *Editor) { e.previewer = p }
}

// WithValidator adds a validator run whenever the view changes.
func WithValidator(v Validator) Option {
	return func(e *Editor) {
		if v != nil {
			e.validators = append(e.validators, v)
		}
	}
}

// WithLogger sets the editor logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Editor is the composition root of the view editor. It owns the parts,
// opens the session on a selection and drives toolbar actions.
type Editor struct {
	session *editor.Session
	store   ViewStore
	logger  *slog.Logger

	previewer  Previewer
	validators []Validator

	header     *Header
	canvas     *Canvas
	preview    *Preview
	messageLog *MessageLog

	sub    *editor.Subscription
	opened bool
}

// NewEditor creates an editor over session. store may be nil for an editor
// that cannot save.
func NewEditor(session *editor.Session, store ViewStore, opts ...Option) *Editor {
	e := &Editor{
		session:    session,
		store:      store,
		logger:     slog.New(slog.DiscardHandler),
		header:     NewHeader(session),
		canvas:     NewCanvas(session),
		preview:    NewPreview(session),
		messageLog: NewMessageLog(session),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Open activates the parts and loads sel into the session. A missing
// virtualization is reported as ERR0100 and a missing view starts a new one.
// Only the first call has an effect.
func (e *Editor) Open(sel Selection) {
	if e.opened {
		e.logger.Debug("editor already open")
		return
	}
	e.opened = true

	for _, p := range e.Parts() {
		p.Activate()
	}
	e.sub = e.session.Subscribe(e.handle)

	if sel.Virtualization != nil {
		e.session.SetEditorVirtualization(sel.Virtualization)
	} else {
		e.session.AddMessage(message.New(message.ERR0100), event.PartEditor)
	}

	view := core.NewView()
	if sel.View != nil {
		view = sel.View.Clone()
	}
	e.session.SetReadOnly(sel.ReadOnly || !view.Editable, event.PartEditor)
	e.session.SetEditorView(view, event.PartEditor)
	e.session.SetEditorConfig(editor.LayoutFull, event.PartEditor)
}

// Close deactivates every part.
func (e *Editor) Close() {
	e.sub.Unsubscribe()
	for _, p := range e.Parts() {
		p.Deactivate()
	}
}

func (e *Editor) handle(ev event.Event) {
	switch ev.Type() {
	case event.ViewChanged, event.ViewNameChanged, event.ViewDescriptionChanged, event.ViewSourcesChanged:
		e.validate()
		e.updateValidity()
	case event.LogMessageAdded, event.LogMessageDeleted, event.LogMessagesCleared:
		e.updateValidity()
	}
}

func (e *Editor) validate() {
	view, ok := e.session.GetEditorView()
	if !ok {
		return
	}
	switch {
	case len(view.Sources) == 0 && !e.session.HasMessage(message.WRN0100.ID):
		e.session.AddMessage(message.New(message.WRN0100), event.PartEditor)
	case len(view.Sources) > 0:
		e.session.DeleteMessage(message.WRN0100.ID, event.PartEditor)
	}
	for _, v := range e.validators {
		if err := v.Apply(e.session); err != nil {
			e.logger.Warn("validation failed", "view", view.Name, "error", err)
		}
	}
}

func (e *Editor) updateValidity() {
	_, ok := e.session.GetEditorView()
	e.session.SetViewIsValid(ok && e.session.GetErrorMessageCount() == 0, event.PartEditor)
}

// Session returns the session the editor drives.
func (e *Editor) Session() *editor.Session { return e.session }

// Header returns the header part.
func (e *Editor) Header() *Header { return e.header }

// Canvas returns the canvas part.
func (e *Editor) Canvas() *Canvas { return e.canvas }

// Preview returns the preview part.
func (e *Editor) Preview() *Preview { return e.preview }

// MessageLog returns the message log part.
func (e *Editor) MessageLog() *MessageLog { return e.messageLog }

// Parts returns all parts in display order.
func (e *Editor) Parts() []Part {
	return []Part{e.header, e.canvas, e.preview, e.messageLog}
}

// ErrorCount returns the error badge count.
func (e *Editor) ErrorCount() int { return e.session.GetErrorMessageCount() }

// WarningCount returns the warning badge count.
func (e *Editor) WarningCount() int { return e.session.GetWarningMessageCount() }

// InfoCount returns the info badge count.
func (e *Editor) InfoCount() int { return e.session.GetInfoMessageCount() }

// IsShowingCanvas reports whether the current layout includes the canvas.
func (e *Editor) IsShowingCanvas() bool { return e.session.GetEditorConfig().ShowsCanvas() }

// IsShowingResults reports whether the current layout includes the preview results.
func (e *Editor) IsShowingResults() bool { return e.session.GetEditorConfig().ShowsResults() }

// CanSave reports whether the save action is enabled.
func (e *Editor) CanSave() bool {
	return e.IsShowingCanvas() && e.session.HasChanges()
}

// SetLayout switches the editor layout.
func (e *Editor) SetLayout(layout editor.Layout) {
	e.session.SetEditorConfig(layout, event.PartEditor)
}

// ToggleLayout cycles to the next layout.
func (e *Editor) ToggleLayout() {
	e.SetLayout(e.session.GetEditorConfig().Next())
}

// SetReadOnly enables or disables editing.
func (e *Editor) SetReadOnly(readOnly bool) {
	e.session.SetReadOnly(readOnly, event.PartEditor)
}

// RunPreview focuses the preview part and refreshes its results.
func (e *Editor) RunPreview(ctx context.Context) error {
	if e.previewer == nil {
		return ErrNoPreviewer
	}
	e.session.ShowEditorPart(event.PartPreview, event.PartEditor)
	return e.previewer.Refresh(ctx, e.session)
}

// Save persists the view. A renamed view is renamed in the store before it
// is written so the stored copy keeps its identity.
func (e *Editor) Save(ctx context.Context) error {
	if e.store == nil || !e.CanSave() {
		return ErrNothingToSave
	}
	virt, ok := e.session.GetEditorVirtualization()
	if !ok {
		return ErrNoVirtualization
	}
	if n := e.session.GetErrorMessageCount(); n > 0 {
		return fmt.Errorf("%w: %d error(s)", ErrViewHasErrors, n)
	}

	view, _ := e.session.GetEditorView()
	if old := e.session.InitialName(); old != "" && old != view.Name {
		if err := e.store.RenameView(ctx, virt.ID, old, view.Name); err != nil {
			return fmt.Errorf("failed to rename view %q: %w", old, err)
		}
	}
	if err := e.store.SaveView(ctx, virt.ID, view.Clone()); err != nil {
		return fmt.Errorf("failed to save view %q: %w", view.Name, err)
	}

	e.session.MarkSaved()
	e.logger.Info("view saved", "virtualization", virt.ID, "view", view.Name)
	return nil
}
