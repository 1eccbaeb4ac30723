package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/leapview/internal/cli/config"
	"github.com/leapstack-labs/leapview/internal/cli/output"
	"github.com/leapstack-labs/leapview/internal/preview"
	"github.com/leapstack-labs/leapview/internal/state"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode, err := output.ParseMode(cfg.OutputFormat)
	if err != nil {
		mode = output.ModeAuto
	}
	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode),
	}
}

// OpenStore opens the state database, creating its directory if needed.
// The caller closes the store.
func (cc *CommandContext) OpenStore() (*state.SQLiteStore, error) {
	stateDir := filepath.Dir(cc.Cfg.StatePath)
	if cc.Cfg.StatePath != ":memory:" && stateDir != "." && stateDir != "" {
		if err := os.MkdirAll(stateDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}
	store, err := state.OpenStore(cc.Cfg.StatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}
	return store, nil
}

// NewRunner creates a preview runner over the configured connections.
func (cc *CommandContext) NewRunner() *preview.Runner {
	return preview.NewRunner(cc.Cfg.AdapterConfigs(),
		preview.WithLimit(cc.Cfg.PreviewLimit),
		preview.WithLogger(cc.Logger),
	)
}

// getConfig returns the current configuration, falling back to defaults when
// a command runs without the root command.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		StatePath:      getEnvOrDefault("LEAPVIEW_STATE_PATH", config.DefaultStateFile),
		DefinitionsDir: getEnvOrDefault("LEAPVIEW_DEFINITIONS_DIR", config.DefaultDefinitionsDir),
		RulesDir:       getEnvOrDefault("LEAPVIEW_RULES_DIR", config.DefaultRulesDir),
		Verbose:        os.Getenv("LEAPVIEW_VERBOSE") == "true",
		OutputFormat:   os.Getenv("LEAPVIEW_OUTPUT"),
		PreviewLimit:   config.DefaultPreviewLimit,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
