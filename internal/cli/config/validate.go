package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/leapstack-labs/leapview/pkg/adapter"
)

// Validate checks if the connection is usable.
func (c *ConnectionConfig) Validate() error {
	if c.Type == "" {
		return fmt.Errorf("connection type is required")
	}
	c.Type = strings.ToLower(c.Type)
	if !adapter.IsRegistered(c.Type) {
		return &adapter.UnknownAdapterError{Type: c.Type, Available: adapter.ListAdapters()}
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.StatePath == "" {
		return fmt.Errorf("state_path is required")
	}
	if c.PreviewLimit < 0 {
		return fmt.Errorf("preview_limit must not be negative")
	}

	names := make([]string, 0, len(c.Connections))
	for name := range c.Connections {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		conn := c.Connections[name]
		if conn == nil {
			return fmt.Errorf("connection %q is empty", name)
		}
		if err := conn.Validate(); err != nil {
			return fmt.Errorf("invalid connection %q: %w", name, err)
		}
	}
	return nil
}

// ValidateDefinitionsDir checks that the definitions directory exists.
func (c *Config) ValidateDefinitionsDir() error {
	if _, err := os.Stat(c.DefinitionsDir); os.IsNotExist(err) {
		return fmt.Errorf("definitions directory does not exist: %s\nHint: Run 'leapview init' or set definitions_dir in leapview.yaml", c.DefinitionsDir)
	}
	return nil
}
