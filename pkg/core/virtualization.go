package core

// Virtualization is a named collection of views exposed as a data service.
type Virtualization struct {
	ID          string  `json:"id" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Views       []*View `json:"views,omitempty" yaml:"views,omitempty"`
}

// View returns the view with the given name.
func (v *Virtualization) View(name string) (*View, bool) {
	for _, view := range v.Views {
		if view.Name == name {
			return view, true
		}
	}
	return nil, false
}

// ViewNames returns the names of all views in declaration order.
func (v *Virtualization) ViewNames() []string {
	names := make([]string, 0, len(v.Views))
	for _, view := range v.Views {
		names = append(names, view.Name)
	}
	return names
}
