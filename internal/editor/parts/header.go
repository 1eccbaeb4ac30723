package parts

import (
	"github.com/leapstack-labs/leapview/internal/editor"
	"github.com/leapstack-labs/leapview/internal/editor/event"
)

// MissingVirtualization is shown in place of the virtualization name when the
// editor was opened without one.
const MissingVirtualization = "< error >"

// Header shows the view name and description and lets the user edit them.
type Header struct {
	listener

	name           string
	description    string
	virtualization string
	readOnly       bool
}

// NewHeader creates a header bound to session. Call Activate before use.
func NewHeader(session *editor.Session) *Header {
	return &Header{listener: listener{session: session}}
}

// ID implements Part.
func (h *Header) ID() event.Part { return event.PartHeader }

// Activate loads the current session values and subscribes to changes.
func (h *Header) Activate() {
	h.name = h.session.GetViewName()
	h.description = h.session.GetViewDescription()
	h.readOnly = h.session.IsReadOnly()
	h.refreshVirtualization()
	h.subscribe(h.handle)
}

func (h *Header) refreshVirtualization() {
	if v, ok := h.session.GetEditorVirtualization(); ok {
		h.virtualization = v.ID
		return
	}
	h.virtualization = MissingVirtualization
}

func (h *Header) handle(e event.Event) {
	switch p := e.Payload().(type) {
	case event.ViewChangedPayload:
		h.name = p.View.Name
		h.description = p.View.Description
		h.refreshVirtualization()
	case event.ViewNameChangedPayload:
		h.name = p.Name
	case event.ViewDescriptionChangedPayload:
		h.description = p.Description
	case event.ReadOnlyChangedPayload:
		h.readOnly = p.ReadOnly
	}
}

// Name returns the displayed view name.
func (h *Header) Name() string { return h.name }

// Description returns the displayed view description.
func (h *Header) Description() string { return h.description }

// VirtualizationName returns the virtualization id, or MissingVirtualization.
func (h *Header) VirtualizationName() string { return h.virtualization }

// ReadOnly reports whether editing is disabled.
func (h *Header) ReadOnly() bool { return h.readOnly }

// SetName renames the view. Ignored while readonly.
func (h *Header) SetName(name string) {
	if h.readOnly {
		return
	}
	h.session.SetViewName(name, event.PartHeader)
}

// SetDescription updates the view description. Ignored while readonly.
func (h *Header) SetDescription(description string) {
	if h.readOnly {
		return
	}
	h.session.SetViewDescription(description, event.PartHeader)
}
