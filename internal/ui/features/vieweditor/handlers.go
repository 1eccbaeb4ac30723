package vieweditor

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/leapview/internal/editor"
	"github.com/leapstack-labs/leapview/internal/editor/parts"
	"github.com/leapstack-labs/leapview/internal/state"
	"github.com/leapstack-labs/leapview/internal/ui/features/common"
	"github.com/leapstack-labs/leapview/internal/ui/notifier"
	"github.com/leapstack-labs/leapview/internal/ui/workspace"
	"github.com/leapstack-labs/leapview/pkg/core"
	"github.com/starfederation/datastar-go/datastar"
)

// SessionName is the cookie session remembering a browser's open editors.
const SessionName = "leapview-editors"

// Handlers provides HTTP handlers for the view editor feature.
type Handlers struct {
	workspace    *workspace.Workspace
	sessionStore sessions.Store
	logger       *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(ws *workspace.Workspace, sessionStore sessions.Store, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		workspace:    ws,
		sessionStore: sessionStore,
		logger:       logger,
	}
}

// EditViewPage renders the editor for a stored view. A browser reopening the
// same view gets its existing editor back.
func (h *Handlers) EditViewPage(w http.ResponseWriter, r *http.Request) {
	virt := pathParam(r, "id")
	name := pathParam(r, "name")
	readOnly := r.URL.Query().Get("readonly") == "true"
	key := virt + "/" + name

	sess, err := h.sessionStore.Get(r, SessionName)
	if err != nil {
		// A stale or foreign cookie yields a fresh session.
		h.logger.Debug("discarding editor session", "error", err)
	}

	var entry *workspace.Entry
	if id, ok := sess.Values[key].(string); ok {
		if existing, err := h.workspace.Get(id); err == nil {
			entry = existing
		}
	}
	if entry == nil {
		entry, err = h.workspace.Open(r.Context(), virt, name, readOnly)
		if errors.Is(err, state.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		sess.Values[key] = entry.ID
		if err := sess.Save(r, w); err != nil {
			h.logger.Warn("failed to save editor session", "error", err)
		}
	}

	h.renderPage(w, r, entry, name)
}

// NewViewPage opens a fresh editor on a new view of the virtualization.
func (h *Handlers) NewViewPage(w http.ResponseWriter, r *http.Request) {
	entry, err := h.workspace.Open(r.Context(), pathParam(r, "id"), "", false)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.renderPage(w, r, entry, "New view")
}

func (h *Handlers) renderPage(w http.ResponseWriter, r *http.Request, entry *workspace.Entry, title string) {
	virts, err := h.workspace.Virtualizations(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var data EditorData
	_ = entry.Do(func(e *parts.Editor) error {
		data = Snapshot(entry.ID, e)
		return nil
	})

	page := common.Page(title, common.EditorPath(entry.ID, "events"), common.BuildExplorerTree(virts), EditorPage(data))
	if err := page.Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Events is the long-lived SSE stream of an editor. Every session event
// pings it and the shell is re-rendered from the parts.
func (h *Handlers) Events(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.entry(w, r)
	if !ok {
		return
	}

	notify := h.workspace.Notifier()
	updates := notify.Subscribe(entry.ID)
	defer notify.Unsubscribe(entry.ID, updates)

	sse := datastar.NewSSE(w, r)
	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := h.sendShell(sse, entry, ""); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

// SetName applies the name signal through the header part.
func (h *Handlers) SetName(w http.ResponseWriter, r *http.Request) {
	h.withSignals(w, r, func(e *parts.Editor, s Signals) error {
		e.Header().SetName(s.Name)
		return nil
	})
}

// SetDescription applies the description signal through the header part.
func (h *Handlers) SetDescription(w http.ResponseWriter, r *http.Request) {
	h.withSignals(w, r, func(e *parts.Editor, s Signals) error {
		e.Header().SetDescription(s.Description)
		return nil
	})
}

// SetReadOnly applies the readonly signal.
func (h *Handlers) SetReadOnly(w http.ResponseWriter, r *http.Request) {
	h.withSignals(w, r, func(e *parts.Editor, s Signals) error {
		e.SetReadOnly(s.ReadOnly)
		return nil
	})
}

// SetLayout switches the editor layout.
func (h *Handlers) SetLayout(w http.ResponseWriter, r *http.Request) {
	layout := editor.Layout(chi.URLParam(r, "layout"))
	if !slices.Contains(editor.Layouts, layout) {
		http.Error(w, "unknown layout "+string(layout), http.StatusBadRequest)
		return
	}
	h.act(w, r, func(e *parts.Editor) (string, error) {
		e.SetLayout(layout)
		return "", nil
	})
}

// RunPreview refreshes the preview results.
func (h *Handlers) RunPreview(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(e *parts.Editor) (string, error) {
		if err := e.RunPreview(r.Context()); err != nil {
			return "", err
		}
		return strconv.Itoa(e.Preview().Results().RowCount()) + " row(s) loaded", nil
	})
}

// Save persists the view.
func (h *Handlers) Save(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(e *parts.Editor) (string, error) {
		if err := e.Save(r.Context()); err != nil {
			return "", err
		}
		h.workspace.Notifier().Publish(notifier.TopicDefinitions)
		return "Saved", nil
	})
}

// AddSource adds the source signal to the canvas.
func (h *Handlers) AddSource(w http.ResponseWriter, r *http.Request) {
	h.withSignals(w, r, func(e *parts.Editor, s Signals) error {
		ref, err := core.ParseSourceRef(s.Source)
		if err != nil {
			return err
		}
		e.Canvas().AddSource(ref)
		return nil
	})
}

// RemoveSource removes the canvas source at the index in the path.
func (h *Handlers) RemoveSource(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "invalid source index", http.StatusBadRequest)
		return
	}
	h.act(w, r, func(e *parts.Editor) (string, error) {
		sources := e.Canvas().Sources()
		if index < 0 || index >= len(sources) {
			return "", errors.New("no source at index " + strconv.Itoa(index))
		}
		e.Canvas().RemoveSource(sources[index])
		return "", nil
	})
}

// ClearMessages empties the message log.
func (h *Handlers) ClearMessages(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(e *parts.Editor) (string, error) {
		e.MessageLog().Clear()
		return "", nil
	})
}

// DeleteMessage removes one message from the log.
func (h *Handlers) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "mid")
	h.act(w, r, func(e *parts.Editor) (string, error) {
		e.MessageLog().Delete(id)
		return "", nil
	})
}

// CloseEditor closes the editor and redirects the browser home.
func (h *Handlers) CloseEditor(w http.ResponseWriter, r *http.Request) {
	if err := h.workspace.Close(chi.URLParam(r, "eid")); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	sse := datastar.NewSSE(w, r)
	_ = sse.Redirect("/")
}

// withSignals reads the request signals and applies fn to the editor.
func (h *Handlers) withSignals(w http.ResponseWriter, r *http.Request, fn func(*parts.Editor, Signals) error) {
	var signals Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.act(w, r, func(e *parts.Editor) (string, error) {
		return "", fn(e, signals)
	})
}

// act runs fn on the editor and answers with the re-rendered shell. An
// error from fn is shown in the status line rather than failing the request.
func (h *Handlers) act(w http.ResponseWriter, r *http.Request, fn func(*parts.Editor) (string, error)) {
	entry, ok := h.entry(w, r)
	if !ok {
		return
	}

	var statusText string
	_ = entry.Do(func(e *parts.Editor) error {
		text, err := fn(e)
		if err != nil {
			h.logger.Debug("editor action failed", "editor", entry.ID, "path", r.URL.Path, "error", err)
			text = err.Error()
		}
		statusText = text
		return nil
	})

	sse := datastar.NewSSE(w, r)
	if err := h.sendShell(sse, entry, statusText); err != nil {
		_ = sse.ConsoleError(err)
	}
}

func (h *Handlers) sendShell(sse *datastar.ServerSentEventGenerator, entry *workspace.Entry, statusText string) error {
	var data EditorData
	_ = entry.Do(func(e *parts.Editor) error {
		data = Snapshot(entry.ID, e)
		return nil
	})
	data.Status = statusText

	if err := sse.PatchElementTempl(EditorShell(data)); err != nil {
		return err
	}
	return sse.MarshalAndPatchSignals(SignalsOf(data))
}

func (h *Handlers) entry(w http.ResponseWriter, r *http.Request) (*workspace.Entry, bool) {
	entry, err := h.workspace.Get(chi.URLParam(r, "eid"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil, false
	}
	return entry, true
}

func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
