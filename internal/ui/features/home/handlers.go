package home

import (
	"context"
	"net/http"

	"github.com/leapstack-labs/leapview/internal/ui/features/common"
	"github.com/leapstack-labs/leapview/internal/ui/notifier"
	"github.com/leapstack-labs/leapview/internal/ui/workspace"
	"github.com/starfederation/datastar-go/datastar"
)

// Handlers provides HTTP handlers for the home feature.
type Handlers struct {
	workspace *workspace.Workspace
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(ws *workspace.Workspace) *Handlers {
	return &Handlers{workspace: ws}
}

// HomePage renders the virtualization list with full content.
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	data, tree, err := h.buildDashboardData(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := common.Page("Virtualizations", "/updates", tree, Dashboard(data)).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// HomePageUpdates is the long-lived SSE endpoint for the dashboard page.
// It re-renders the list whenever the stored definitions change.
// Initial content is rendered by HomePage.
func (h *Handlers) HomePageUpdates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	notify := h.workspace.Notifier()
	updates := notify.Subscribe(notifier.TopicDefinitions)
	defer notify.Unsubscribe(notifier.TopicDefinitions, updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := h.sendDashboardView(ctx, sse); err != nil {
				_ = sse.ConsoleError(err)
				// Keep the stream open for the next update
			}
		}
	}
}

func (h *Handlers) sendDashboardView(ctx context.Context, sse *datastar.ServerSentEventGenerator) error {
	data, tree, err := h.buildDashboardData(ctx)
	if err != nil {
		return err
	}
	if err := sse.PatchElementTempl(common.Explorer(tree)); err != nil {
		return err
	}
	return sse.PatchElementTempl(Dashboard(data))
}

func (h *Handlers) buildDashboardData(ctx context.Context) (DashboardData, []common.TreeNode, error) {
	virts, err := h.workspace.Virtualizations(ctx)
	if err != nil {
		return DashboardData{}, nil, err
	}

	data := DashboardData{
		Virtualizations: virts,
		Stats: DashboardStats{
			VirtualizationCount: len(virts),
			OpenEditors:         len(h.workspace.IDs()),
		},
	}
	for _, v := range virts {
		data.Stats.ViewCount += len(v.Views)
	}
	return data, common.BuildExplorerTree(virts), nil
}
