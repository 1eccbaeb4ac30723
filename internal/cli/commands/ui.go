package commands

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/gorilla/securecookie"
	"github.com/leapstack-labs/leapview/internal/loader"
	"github.com/leapstack-labs/leapview/internal/rules"
	"github.com/leapstack-labs/leapview/internal/ui"
	"github.com/spf13/cobra"
)

// UIOptions holds options for the ui command.
type UIOptions struct {
	Port      int
	NoBrowser bool
	Watch     bool
}

// NewUICommand creates the ui command.
func NewUICommand() *cobra.Command {
	opts := &UIOptions{}

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Start the LeapView web editor",
		Long: `Start a local web server providing the browser view editor.

The UI provides:
- Virtualization and view explorer
- View editor with live validation
- Data preview from source connections
- Live reload when definition files change`,
		Example: `  # Start UI on default port
  leapview ui

  # Start on custom port
  leapview ui --port 3000

  # Start without auto-opening browser
  leapview ui --no-browser`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Re-import definitions when files change")

	return cmd
}

func runUI(cmd *cobra.Command, opts *UIOptions) error {
	cc := NewCommandContext(cmd)
	cfg := cc.Cfg
	logger := cc.Logger
	uiCfg := cfg.GetUIConfig()

	port := uiCfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}
	watch := uiCfg.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	store, err := cc.OpenStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	// Import definitions on startup so the explorer reflects the files.
	if _, err := os.Stat(cfg.DefinitionsDir); err == nil {
		res, err := loader.ImportDir(cmd.Context(), store, cfg.DefinitionsDir, logger)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		cc.Renderer.StatusLine("definitions", "ok", fmt.Sprintf("%d virtualizations, %d views", res.Created+res.Updated, res.Views))
	} else {
		watch = false
	}

	engine, err := rules.LoadDir(cfg.RulesDir, logger)
	if err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}

	server := ui.NewServer(ui.Config{
		Store:          store,
		Previewer:      cc.NewRunner(),
		Rules:          engine,
		Port:           port,
		Watch:          watch,
		Debounce:       uiCfg.Debounce,
		SessionSecret:  sessionSecret(uiCfg.SessionSecret),
		Logger:         logger,
		DefinitionsDir: cfg.DefinitionsDir,
	})

	url := fmt.Sprintf("http://localhost:%d", port)
	if !opts.NoBrowser {
		go openBrowser(url)
	}

	cc.Renderer.Println("Starting UI server on " + url)
	cc.Renderer.Println("Press Ctrl+C to stop")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	return server.Serve(ctx)
}

// sessionSecret returns the configured cookie secret or a random one. A random
// secret invalidates browser sessions on restart.
func sessionSecret(configured string) string {
	if configured != "" {
		return configured
	}
	return base64.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32))
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
