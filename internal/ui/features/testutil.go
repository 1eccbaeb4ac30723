// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapview/internal/editor/parts"
	"github.com/leapstack-labs/leapview/internal/state"
	"github.com/leapstack-labs/leapview/internal/testutil"
	"github.com/leapstack-labs/leapview/internal/ui/notifier"
	"github.com/leapstack-labs/leapview/internal/ui/workspace"
	"github.com/leapstack-labs/leapview/pkg/core"
)

// TestView is a helper to create stored views with minimal boilerplate.
type TestView struct {
	Virtualization string
	Name           string
	Description    string
	Sources        []string // connection:path
	ReadOnly       bool
}

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Store        *state.SQLiteStore
	Workspace    *workspace.Workspace
	Notifier     *notifier.Notifier
	SessionStore *sessions.CookieStore
}

// FixtureOption configures the workspace of a test fixture.
type FixtureOption func(*workspace.Config)

// WithPreviewer sets the previewer used by the fixture's editors.
func WithPreviewer(p parts.Previewer) FixtureOption {
	return func(c *workspace.Config) { c.Previewer = p }
}

// SetupTestFixture creates an in-memory store holding views, plus a
// workspace and notifier over it.
func SetupTestFixture(t *testing.T, views []TestView, opts ...FixtureOption) *TestFixture {
	t.Helper()

	store := SetupTestStore(t, views...)
	notify := notifier.New()

	cfg := workspace.Config{
		Store:    store,
		Notifier: notify,
		Logger:   testutil.NewTestLogger(t),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	ws := workspace.New(cfg)
	t.Cleanup(ws.CloseAll)

	return &TestFixture{
		Store:        store,
		Workspace:    ws,
		Notifier:     notify,
		SessionStore: NewTestSessionStore(),
	}
}

// SetupTestStore creates an in-memory store with the provided test views.
// Virtualizations are created on first use.
func SetupTestStore(t *testing.T, views ...TestView) *state.SQLiteStore {
	t.Helper()

	store, err := state.OpenStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	for _, tv := range views {
		if _, err := store.GetVirtualization(ctx, tv.Virtualization); err != nil {
			require.NoError(t, store.CreateVirtualization(ctx, &core.Virtualization{ID: tv.Virtualization}))
		}
		if tv.Name == "" {
			continue
		}
		require.NoError(t, store.SaveView(ctx, tv.Virtualization, toView(t, tv)))
	}

	return store
}

// RequestWithPathParams wraps a request with chi URL params given as key, value pairs.
func RequestWithPathParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}

func toView(t *testing.T, tv TestView) *core.View {
	t.Helper()

	view := core.NewView()
	view.SetName(tv.Name)
	view.SetDescription(tv.Description)
	view.Editable = !tv.ReadOnly
	for _, s := range tv.Sources {
		ref, err := core.ParseSourceRef(s)
		require.NoError(t, err)
		view.Sources = append(view.Sources, ref)
	}
	return view
}
