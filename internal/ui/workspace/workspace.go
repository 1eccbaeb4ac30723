// Package workspace keeps the view editors opened by web UI clients.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leapview/internal/editor"
	"github.com/leapstack-labs/leapview/internal/editor/event"
	"github.com/leapstack-labs/leapview/internal/editor/parts"
	"github.com/leapstack-labs/leapview/internal/rules"
	"github.com/leapstack-labs/leapview/internal/state"
	"github.com/leapstack-labs/leapview/internal/ui/notifier"
	"github.com/leapstack-labs/leapview/pkg/core"
)

// ErrUnknownEditor is returned for an editor id that is not open.
var ErrUnknownEditor = errors.New("unknown editor")

// Entry is one open editor. All access to the editor goes through Do,
// which serializes requests from concurrent HTTP handlers.
type Entry struct {
	ID             string
	Virtualization string
	View           string

	mu     sync.Mutex
	editor *parts.Editor
	sub    *editor.Subscription
}

// Do runs fn with exclusive access to the editor.
func (e *Entry) Do(fn func(*parts.Editor) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.editor)
}

// Config holds the collaborators shared by every editor.
type Config struct {
	Store     state.Store
	Previewer parts.Previewer
	Rules     *rules.Engine
	Notifier  *notifier.Notifier
	Logger    *slog.Logger
}

// Workspace is the registry of open editors.
type Workspace struct {
	store     state.Store
	previewer parts.Previewer
	rules     *rules.Engine
	notifier  *notifier.Notifier
	logger    *slog.Logger

	mu      sync.RWMutex
	entries map[string]*Entry
}

// New creates an empty workspace.
func New(cfg Config) *Workspace {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	notify := cfg.Notifier
	if notify == nil {
		notify = notifier.New()
	}
	return &Workspace{
		store:     cfg.Store,
		previewer: cfg.Previewer,
		rules:     cfg.Rules,
		notifier:  notify,
		logger:    logger,
		entries:   make(map[string]*Entry),
	}
}

// Open starts an editor on the named view of the named virtualization.
// An empty viewName starts a new view. A virtualization that does not exist
// opens an editor without one, which reports the problem in its message log.
func (w *Workspace) Open(ctx context.Context, virtualization, viewName string, readOnly bool) (*Entry, error) {
	sel := parts.Selection{ReadOnly: readOnly}

	v, err := w.store.GetVirtualization(ctx, virtualization)
	switch {
	case errors.Is(err, state.ErrNotFound):
		w.logger.Warn("opening editor without virtualization", "virtualization", virtualization)
	case err != nil:
		return nil, fmt.Errorf("failed to load virtualization: %w", err)
	default:
		sel.Virtualization = v
	}

	if viewName != "" && sel.Virtualization != nil {
		view, ok := sel.Virtualization.View(viewName)
		if !ok {
			return nil, fmt.Errorf("view %q: %w", viewName, state.ErrNotFound)
		}
		sel.View = view
	}

	id := uuid.NewString()
	logger := w.logger.With("editor", id)
	session := editor.NewSession(logger)

	opts := []parts.Option{parts.WithLogger(logger)}
	if w.previewer != nil {
		opts = append(opts, parts.WithPreviewer(w.previewer))
	}
	if w.rules != nil {
		opts = append(opts, parts.WithValidator(w.rules.Validator()))
	}

	entry := &Entry{
		ID:             id,
		Virtualization: virtualization,
		View:           viewName,
		editor:         parts.NewEditor(session, w.store, opts...),
	}
	entry.sub = session.Subscribe(func(event.Event) {
		w.notifier.Publish(id)
	})
	entry.editor.Open(sel)

	w.mu.Lock()
	w.entries[id] = entry
	w.mu.Unlock()

	logger.Debug("editor opened", "virtualization", virtualization, "view", viewName)
	return entry, nil
}

// Get returns the open editor with the given id.
func (w *Workspace) Get(id string) (*Entry, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	entry, ok := w.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEditor, id)
	}
	return entry, nil
}

// IDs returns the ids of the open editors, sorted.
func (w *Workspace) IDs() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ids := make([]string, 0, len(w.entries))
	for id := range w.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close closes the editor with the given id and forgets it.
func (w *Workspace) Close(id string) error {
	w.mu.Lock()
	entry, ok := w.entries[id]
	delete(w.entries, id)
	w.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEditor, id)
	}

	return entry.Do(func(e *parts.Editor) error {
		entry.sub.Unsubscribe()
		e.Close()
		return nil
	})
}

// CloseAll closes every open editor.
func (w *Workspace) CloseAll() {
	for _, id := range w.IDs() {
		_ = w.Close(id)
	}
}

// Notifier returns the notifier pinged on editor events.
func (w *Workspace) Notifier() *notifier.Notifier {
	return w.notifier
}

// Store returns the virtualization store.
func (w *Workspace) Store() state.Store {
	return w.store
}

// Virtualizations lists the stored virtualizations.
func (w *Workspace) Virtualizations(ctx context.Context) ([]*core.Virtualization, error) {
	return w.store.ListVirtualizations(ctx)
}
