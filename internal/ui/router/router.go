// Package router sets up HTTP routes for the UI server.
package router

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	homeFeature "github.com/leapstack-labs/leapview/internal/ui/features/home"
	editorFeature "github.com/leapstack-labs/leapview/internal/ui/features/vieweditor"
	"github.com/leapstack-labs/leapview/internal/ui/resources"
	"github.com/leapstack-labs/leapview/internal/ui/workspace"
)

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(
	router chi.Router,
	ws *workspace.Workspace,
	sessionStore sessions.Store,
	logger *slog.Logger,
) error {
	// Static assets
	router.Handle("/static/*", resources.Handler())

	// Feature routes
	if err := homeFeature.SetupRoutes(router, ws); err != nil {
		return err
	}

	if err := editorFeature.SetupRoutes(router, ws, sessionStore, logger); err != nil {
		return err
	}

	return nil
}
