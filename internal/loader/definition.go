// Package loader reads virtualization definitions from YAML files, imports
// them into the state store and watches the definitions directory.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/leapstack-labs/leapview/pkg/core"
	"gopkg.in/yaml.v3"
)

// Definition is the on-disk form of a virtualization.
//
//	name: sales
//	description: Sales data
//	views:
//	  - name: Customers
//	    sources: ["pg:public.customers"]
type Definition struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description,omitempty"`
	Views       []ViewDefinition `yaml:"views,omitempty"`
}

// ViewDefinition is the on-disk form of a view.
type ViewDefinition struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Sources     []string `yaml:"sources,omitempty"`
	Editable    *bool    `yaml:"editable,omitempty"`
}

// ParseError reports a definition that could not be read.
type ParseError struct {
	File    string
	Message string
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return e.Message
}

// Parse decodes a single definition document. Unknown fields are rejected.
func Parse(data []byte) (*core.Virtualization, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Message: "empty definition"}
		}
		return nil, &ParseError{Message: fmt.Sprintf("invalid YAML: %v", err)}
	}
	return def.toCore()
}

func (d *Definition) toCore() (*core.Virtualization, error) {
	if d.Name == "" {
		return nil, &ParseError{Message: "virtualization name is required"}
	}

	v := &core.Virtualization{ID: d.Name, Description: d.Description}
	seen := make(map[string]bool, len(d.Views))
	for i, vd := range d.Views {
		if vd.Name == "" {
			return nil, &ParseError{Message: fmt.Sprintf("view %d of %s has no name", i+1, d.Name)}
		}
		if seen[vd.Name] {
			return nil, &ParseError{Message: fmt.Sprintf("duplicate view %q in %s", vd.Name, d.Name)}
		}
		seen[vd.Name] = true

		view := core.NewView()
		view.SetName(vd.Name)
		view.SetDescription(vd.Description)
		if vd.Editable != nil {
			view.Editable = *vd.Editable
		}
		for _, raw := range vd.Sources {
			ref, err := core.ParseSourceRef(raw)
			if err != nil {
				return nil, &ParseError{Message: fmt.Sprintf("view %q: %v", vd.Name, err)}
			}
			view.Sources = append(view.Sources, ref)
		}
		v.Views = append(v.Views, view)
	}
	return v, nil
}

// FromCore converts a virtualization back to its on-disk form.
func FromCore(v *core.Virtualization) *Definition {
	def := &Definition{Name: v.ID, Description: v.Description}
	for _, view := range v.Views {
		vd := ViewDefinition{Name: view.Name, Description: view.Description}
		if !view.Editable {
			editable := false
			vd.Editable = &editable
		}
		for _, s := range view.Sources {
			vd.Sources = append(vd.Sources, s.String())
		}
		def.Views = append(def.Views, vd)
	}
	return def
}

// LoadFile reads one definition file.
func LoadFile(path string) (*core.Virtualization, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the configured definitions directory
	if err != nil {
		return nil, fmt.Errorf("failed to read definition: %w", err)
	}
	v, err := Parse(data)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.File = path
		}
		return nil, err
	}
	return v, nil
}

// LoadDir reads every .yaml and .yml file under dir, in path order.
func LoadDir(dir string) ([]*core.Virtualization, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsDefinitionFile(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	sort.Strings(paths)

	out := make([]*core.Virtualization, 0, len(paths))
	for _, p := range paths {
		v, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// IsDefinitionFile reports whether path has a definition extension.
func IsDefinitionFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yaml" || ext == ".yml"
}

// WriteFile writes v as a definition file.
func WriteFile(path string, v *core.Virtualization) error {
	data, err := yaml.Marshal(FromCore(v))
	if err != nil {
		return fmt.Errorf("failed to encode definition: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write definition: %w", err)
	}
	return nil
}
