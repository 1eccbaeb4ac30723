package core

import (
	"fmt"
	"strings"
)

// View is a virtual table definition backed by one or more physical sources.
// An empty Name or Description means the value has not been set.
type View struct {
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Sources     []SourceRef `json:"sources,omitempty" yaml:"sources,omitempty"`
	Selected    bool        `json:"-" yaml:"-"`
	Valid       bool        `json:"valid" yaml:"-"`
	Editable    bool        `json:"editable" yaml:"editable,omitempty"`
}

// NewView returns an empty, editable view.
func NewView() *View {
	return &View{Editable: true}
}

// SetName sets the view name.
func (v *View) SetName(name string) {
	v.Name = name
}

// SetDescription sets the view description.
func (v *View) SetDescription(description string) {
	v.Description = description
}

// HasName reports whether the view has a non-empty name.
func (v *View) HasName() bool {
	return v.Name != ""
}

// Clone returns a deep copy of the view.
func (v *View) Clone() *View {
	if v == nil {
		return nil
	}
	clone := *v
	clone.Sources = append([]SourceRef(nil), v.Sources...)
	return &clone
}

// SourceRef identifies a schema node on a source connection used as view input.
type SourceRef struct {
	Connection string `json:"connection" yaml:"connection"`
	Path       string `json:"path" yaml:"path"`
}

// String renders the reference as connection:path.
func (s SourceRef) String() string {
	return s.Connection + ":" + s.Path
}

// PathParts splits the dotted path into its segments.
func (s SourceRef) PathParts() []string {
	return strings.Split(s.Path, ".")
}

// ParseSourceRef parses a connection:path reference such as "pg:public.customers".
func ParseSourceRef(s string) (SourceRef, error) {
	conn, path, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || conn == "" || path == "" {
		return SourceRef{}, fmt.Errorf("invalid source reference %q: expected connection:path", s)
	}
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			return SourceRef{}, fmt.Errorf("invalid source reference %q: empty path segment", s)
		}
	}
	return SourceRef{Connection: conn, Path: path}, nil
}
