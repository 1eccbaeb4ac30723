package parts

import (
	"slices"

	"github.com/leapstack-labs/leapview/internal/editor"
	"github.com/leapstack-labs/leapview/internal/editor/event"
	"github.com/leapstack-labs/leapview/pkg/core"
)

// Canvas shows the sources of the view.
type Canvas struct {
	listener

	sources  []core.SourceRef
	readOnly bool
	focused  bool
}

// NewCanvas creates a canvas bound to session. Call Activate before use.
func NewCanvas(session *editor.Session) *Canvas {
	return &Canvas{listener: listener{session: session}}
}

// ID implements Part.
func (c *Canvas) ID() event.Part { return event.PartCanvas }

// Activate loads the current sources and subscribes to changes.
func (c *Canvas) Activate() {
	c.sources = nil
	if v, ok := c.session.GetEditorView(); ok {
		c.sources = slices.Clone(v.Sources)
	}
	c.readOnly = c.session.IsReadOnly()
	c.subscribe(c.handle)
}

func (c *Canvas) handle(e event.Event) {
	switch p := e.Payload().(type) {
	case event.ViewChangedPayload:
		c.sources = slices.Clone(p.View.Sources)
	case event.ViewSourcesChangedPayload:
		c.sources = slices.Clone(p.Sources)
	case event.ReadOnlyChangedPayload:
		c.readOnly = p.ReadOnly
	case event.ShowEditorPartPayload:
		c.focused = p.Part == event.PartCanvas
	}
}

// Sources returns a copy of the displayed sources.
func (c *Canvas) Sources() []core.SourceRef { return slices.Clone(c.sources) }

// ReadOnly reports whether editing is disabled.
func (c *Canvas) ReadOnly() bool { return c.readOnly }

// Focused reports whether the canvas was the last part asked to show itself.
func (c *Canvas) Focused() bool { return c.focused }

// AddSource appends ref to the view sources. Duplicates and readonly edits are ignored.
func (c *Canvas) AddSource(ref core.SourceRef) {
	if c.readOnly || slices.Contains(c.sources, ref) {
		return
	}
	c.session.SetViewSources(append(slices.Clone(c.sources), ref), event.PartCanvas)
}

// RemoveSource drops ref from the view sources.
func (c *Canvas) RemoveSource(ref core.SourceRef) {
	if c.readOnly {
		return
	}
	i := slices.Index(c.sources, ref)
	if i < 0 {
		return
	}
	c.session.SetViewSources(slices.Delete(slices.Clone(c.sources), i, i+1), event.PartCanvas)
}
