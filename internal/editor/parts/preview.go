package parts

import (
	"github.com/leapstack-labs/leapview/internal/editor"
	"github.com/leapstack-labs/leapview/internal/editor/event"
	"github.com/leapstack-labs/leapview/pkg/core"
)

// Preview shows the rows returned by the last preview query.
type Preview struct {
	listener

	results *core.QueryResults
	updates int
	focused bool
}

// NewPreview creates a preview bound to session. Call Activate before use.
func NewPreview(session *editor.Session) *Preview {
	return &Preview{listener: listener{session: session}}
}

// ID implements Part.
func (p *Preview) ID() event.Part { return event.PartPreview }

// Activate loads the current results and subscribes to changes.
func (p *Preview) Activate() {
	p.results = p.session.GetPreviewResults()
	p.subscribe(p.handle)
}

func (p *Preview) handle(e event.Event) {
	switch pl := e.Payload().(type) {
	case event.PreviewResultsChangedPayload:
		p.results = pl.Results
		p.updates++
	case event.ShowEditorPartPayload:
		p.focused = pl.Part == event.PartPreview
	}
}

// Results returns the displayed results, or nil.
func (p *Preview) Results() *core.QueryResults { return p.results }

// Updates returns how many result sets the part has received.
func (p *Preview) Updates() int { return p.updates }

// Focused reports whether the preview was the last part asked to show itself.
func (p *Preview) Focused() bool { return p.focused }
