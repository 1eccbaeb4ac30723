package home

import (
	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/leapview/internal/ui/workspace"
)

// SetupRoutes configures routes for the home feature.
func SetupRoutes(router chi.Router, ws *workspace.Workspace) error {
	handlers := NewHandlers(ws)

	router.Get("/", handlers.HomePage)
	router.Get("/updates", handlers.HomePageUpdates)

	return nil
}
