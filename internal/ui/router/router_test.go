package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapview/internal/ui/features"
)

func TestSetupRoutes(t *testing.T) {
	fixture := features.SetupTestFixture(t, []features.TestView{
		{Virtualization: "sales", Name: "Customers"},
	})

	r := chi.NewMux()
	require.NoError(t, SetupRoutes(r, fixture.Workspace, fixture.SessionStore, nil))

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"home", http.MethodGet, "/", http.StatusOK},
		{"stylesheet", http.MethodGet, "/static/leapview.css", http.StatusOK},
		{"edit view", http.MethodGet, "/virtualizations/sales/views/Customers/edit", http.StatusOK},
		{"edit missing view", http.MethodGet, "/virtualizations/sales/views/Nope/edit", http.StatusNotFound},
		{"new view", http.MethodGet, "/virtualizations/sales/new", http.StatusOK},
		{"unknown editor", http.MethodPost, "/editor/nope/save", http.StatusNotFound},
		{"wrong method", http.MethodGet, "/editor/nope/save", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
