package commands

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/leapstack-labs/leapview/internal/cli/tui"
	"github.com/leapstack-labs/leapview/internal/editor"
	"github.com/leapstack-labs/leapview/internal/editor/parts"
	"github.com/leapstack-labs/leapview/internal/rules"
	"github.com/leapstack-labs/leapview/internal/state"
	"github.com/spf13/cobra"
)

// EditOptions holds options for the edit command.
type EditOptions struct {
	ReadOnly bool
}

// NewEditCommand creates the edit command.
func NewEditCommand() *cobra.Command {
	opts := &EditOptions{}

	cmd := &cobra.Command{
		Use:   "edit <virtualization> [view]",
		Short: "Edit a view in the terminal",
		Long: `Open the view editor in the terminal.

Without a view name a new view is started in the virtualization. Changes are
validated as you type; press s to save and q to quit.`,
		Example: `  # Edit an existing view
  leapview edit sales Customers

  # Start a new view
  leapview edit sales`,
		Args: cobra.RangeArgs(1, 2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			return completeNames(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			store, err := cc.OpenStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			viewName := ""
			if len(args) > 1 {
				viewName = args[1]
			}
			e, err := openEditor(cmd.Context(), cc, store, args[0], viewName, opts.ReadOnly)
			if err != nil {
				return err
			}
			defer e.Close()

			p := tea.NewProgram(tui.New(cmd.Context(), e),
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return fmt.Errorf("editor failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.ReadOnly, "read-only", false, "Open the view without editing")
	return cmd
}

// openEditor builds an editor with the configured previewer and rules and
// opens it on the named view. An empty viewName starts a new view.
func openEditor(ctx context.Context, cc *CommandContext, store *state.SQLiteStore, virtualization, viewName string, readOnly bool) (*parts.Editor, error) {
	sel := parts.Selection{ReadOnly: readOnly}

	virt, err := store.GetVirtualization(ctx, virtualization)
	switch {
	case errors.Is(err, state.ErrNotFound):
		return nil, fmt.Errorf("virtualization %q not found", virtualization)
	case err != nil:
		return nil, err
	}
	sel.Virtualization = virt

	if viewName != "" {
		view, ok := virt.View(viewName)
		if !ok {
			return nil, fmt.Errorf("view %q not found in %s", viewName, virtualization)
		}
		sel.View = view
	}

	opts := []parts.Option{
		parts.WithLogger(cc.Logger),
		parts.WithPreviewer(cc.NewRunner()),
	}
	engine, err := rules.LoadDir(cc.Cfg.RulesDir, cc.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	opts = append(opts, parts.WithValidator(engine.Validator()))

	e := parts.NewEditor(editor.NewSession(cc.Logger), store, opts...)
	e.Open(sel)
	return e, nil
}
