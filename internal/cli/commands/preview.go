package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/leapstack-labs/leapview/internal/state"
	"github.com/spf13/cobra"
)

// PreviewOptions holds options for the preview command.
type PreviewOptions struct {
	Format string
	Limit  int
	REPL   bool
}

// NewPreviewCommand creates the preview command.
func NewPreviewCommand() *cobra.Command {
	opts := &PreviewOptions{}

	cmd := &cobra.Command{
		Use:   "preview <virtualization> [view]",
		Short: "Preview the rows of a view",
		Long: `Run the sample query of a view against its source connection and print the rows.

With --repl, opens an interactive session on a virtualization where each
view can be previewed by name.`,
		Example: `  # Preview a view as a table
  leapview preview sales Customers

  # Output as CSV
  leapview preview sales Customers --format csv

  # Interactive mode
  leapview preview sales --repl`,
		Args: cobra.RangeArgs(1, 2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			return completeNames(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "table", "Output format: table, json, csv, md")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Maximum rows to fetch (default: preview_limit from config)")
	cmd.Flags().BoolVar(&opts.REPL, "repl", false, "Start an interactive preview session")

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return resultFormats, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runPreview(cmd *cobra.Command, args []string, opts *PreviewOptions) error {
	cc := NewCommandContext(cmd)
	if opts.Limit > 0 {
		cc.Cfg.PreviewLimit = opts.Limit
	}

	if _, err := os.Stat(cc.Cfg.StatePath); cc.Cfg.StatePath != ":memory:" && os.IsNotExist(err) {
		return fmt.Errorf("state database not found at %s (run 'leapview import' first)", cc.Cfg.StatePath)
	}

	store, err := cc.OpenStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()
	virt, err := store.GetVirtualization(ctx, args[0])
	if errors.Is(err, state.ErrNotFound) {
		return fmt.Errorf("virtualization %q not found", args[0])
	}
	if err != nil {
		return err
	}

	runner := cc.NewRunner()

	if opts.REPL {
		return runPreviewREPL(cmd, cc, virt, runner, opts.Format)
	}
	if len(args) < 2 {
		return fmt.Errorf("view name required (or use --repl)")
	}

	view, ok := virt.View(args[1])
	if !ok {
		return fmt.Errorf("view %q not found in %s", args[1], virt.ID)
	}

	results, err := runner.Run(ctx, view)
	if err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}
	return renderResults(cmd.OutOrStdout(), results, opts.Format)
}
