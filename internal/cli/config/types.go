// Package config provides configuration management for the LeapView CLI.
package config

import (
	"time"

	"github.com/leapstack-labs/leapview/pkg/core"
)

// Default configuration values.
const (
	DefaultConfigFile     = "leapview.yaml"
	DefaultStateFile      = ".leapview/state.db"
	DefaultDefinitionsDir = "definitions"
	DefaultRulesDir       = "rules"
	DefaultOutput         = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultPreviewLimit   = 100
	DefaultUIPort         = 8765
	DefaultDebounce       = 100 * time.Millisecond
)

// ConnectionConfig describes a source database views read from.
type ConnectionConfig struct {
	Type     string            `koanf:"type"`
	Database string            `koanf:"database"`
	Host     string            `koanf:"host"`
	Port     int               `koanf:"port"`
	User     string            `koanf:"user"`
	Password string            `koanf:"password"`
	Schema   string            `koanf:"schema"`
	Options  map[string]string `koanf:"options"`
	Params   map[string]any    `koanf:"params"`
}

// AdapterConfig converts the connection into the adapter configuration.
func (c *ConnectionConfig) AdapterConfig() core.AdapterConfig {
	return core.AdapterConfig{
		Type:     c.Type,
		Path:     c.Database,
		Database: c.Database,
		Host:     c.Host,
		Port:     c.Port,
		Username: c.User,
		Password: c.Password,
		Schema:   c.Schema,
		Options:  c.Options,
		Params:   c.Params,
	}
}

// UIConfig holds configuration for the UI server.
type UIConfig struct {
	Port          int           `koanf:"port"`
	SessionSecret string        `koanf:"session_secret"`
	Watch         bool          `koanf:"watch"`
	Debounce      time.Duration `koanf:"debounce"`
}

// DefaultUIConfig returns a UIConfig with default values.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Port:     DefaultUIPort,
		Watch:    true,
		Debounce: DefaultDebounce,
	}
}

// GetUIConfig returns the UI config with defaults applied for any unset values.
func (c *Config) GetUIConfig() *UIConfig {
	if c.UI == nil {
		return DefaultUIConfig()
	}
	ui := c.UI
	if ui.Port == 0 {
		ui.Port = DefaultUIPort
	}
	if ui.Debounce == 0 {
		ui.Debounce = DefaultDebounce
	}
	return ui
}

// Config holds all CLI configuration options.
type Config struct {
	StatePath      string                       `koanf:"state_path"`
	DefinitionsDir string                       `koanf:"definitions_dir"`
	RulesDir       string                       `koanf:"rules_dir"`
	Verbose        bool                         `koanf:"verbose"`
	OutputFormat   string                       `koanf:"output"`
	PreviewLimit   int                          `koanf:"preview_limit"`
	Connections    map[string]*ConnectionConfig `koanf:"connections"`
	UI             *UIConfig                    `koanf:"ui"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// AdapterConfigs returns the adapter configuration of every connection keyed by name.
func (c *Config) AdapterConfigs() map[string]core.AdapterConfig {
	out := make(map[string]core.AdapterConfig, len(c.Connections))
	for name, conn := range c.Connections {
		if conn == nil {
			continue
		}
		out[name] = conn.AdapterConfig()
	}
	return out
}
