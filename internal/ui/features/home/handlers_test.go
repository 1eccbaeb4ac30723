package home

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/leapview/internal/ui/features"
	"github.com/leapstack-labs/leapview/internal/ui/notifier"
)

func setupTestHandlers(t *testing.T, views ...features.TestView) (*Handlers, *features.TestFixture) {
	t.Helper()
	fixture := features.SetupTestFixture(t, views)
	return NewHandlers(fixture.Workspace), fixture
}

func TestHomePage(t *testing.T) {
	tests := []struct {
		name     string
		views    []features.TestView
		wantBody []string
	}{
		{
			name: "empty store",
			wantBody: []string{
				"<!doctype html>",
				"<title>Virtualizations - LeapView</title>",
				"data-init",
				"/updates",
				"ui-content",
				"No virtualizations yet",
			},
		},
		{
			name: "lists views with editor links",
			views: []features.TestView{
				{Virtualization: "sales", Name: "Customers", Sources: []string{"pg:public.customers"}},
				{Virtualization: "sales", Name: "Orders"},
				{Virtualization: "hr"},
			},
			wantBody: []string{
				`href="/virtualizations/sales/views/Customers/edit"`,
				`href="/virtualizations/sales/views/Orders/edit"`,
				`href="/virtualizations/hr/new"`,
				"2 virtualization(s), 2 view(s)",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setupTestHandlers(t, tt.views...)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()

			h.HomePage(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			for _, want := range tt.wantBody {
				assert.Contains(t, body, want, "response should contain %q", want)
			}
		})
	}
}

func TestHomePageUpdates_SendsUpdateOnPublish(t *testing.T) {
	h, fixture := setupTestHandlers(t, features.TestView{Virtualization: "sales", Name: "Customers"})

	req := httptest.NewRequest(http.MethodGet, "/updates", nil)
	ctx, cancel := context.WithTimeout(req.Context(), 300*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.HomePageUpdates(rec, req)
		close(done)
	}()

	// Wait for the subscription before publishing
	assert.Eventually(t, func() bool {
		return fixture.Notifier.Listeners(notifier.TopicDefinitions) == 1
	}, 200*time.Millisecond, 5*time.Millisecond)
	fixture.Notifier.Publish(notifier.TopicDefinitions)

	<-done

	body := rec.Body.String()
	assert.GreaterOrEqual(t, strings.Count(body, "event:"), 1, "should have at least 1 SSE event")
	assert.Contains(t, body, "/virtualizations/sales/views/Customers/edit")
}

func TestHomePageUpdates_NoInitialState(t *testing.T) {
	h, _ := setupTestHandlers(t, features.TestView{Virtualization: "sales", Name: "Customers"})

	req := httptest.NewRequest(http.MethodGet, "/updates", nil)
	ctx, cancel := context.WithTimeout(req.Context(), 50*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	h.HomePageUpdates(rec, req)

	assert.Equal(t, 0, strings.Count(rec.Body.String(), "event:"), "should have no SSE events without publish")
}
