package vieweditor

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/leapview/internal/ui/workspace"
)

// SetupRoutes configures routes for the view editor feature.
func SetupRoutes(router chi.Router, ws *workspace.Workspace, sessionStore sessions.Store, logger *slog.Logger) error {
	handlers := NewHandlers(ws, sessionStore, logger)

	router.Get("/virtualizations/{id}/views/{name}/edit", handlers.EditViewPage)
	router.Get("/virtualizations/{id}/new", handlers.NewViewPage)

	router.Route("/editor/{eid}", func(r chi.Router) {
		r.Get("/events", handlers.Events)
		r.Delete("/", handlers.CloseEditor)
		r.Post("/name", handlers.SetName)
		r.Post("/description", handlers.SetDescription)
		r.Post("/readonly", handlers.SetReadOnly)
		r.Post("/layout/{layout}", handlers.SetLayout)
		r.Post("/preview", handlers.RunPreview)
		r.Post("/save", handlers.Save)
		r.Post("/sources", handlers.AddSource)
		r.Delete("/sources/{index}", handlers.RemoveSource)
		r.Post("/messages/clear", handlers.ClearMessages)
		r.Delete("/messages/{mid}", handlers.DeleteMessage)
	})

	return nil
}
