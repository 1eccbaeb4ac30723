package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/leapview/internal/loader"
	"github.com/leapstack-labs/leapview/internal/state"
	"github.com/spf13/cobra"
)

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "export <virtualization> [file]",
		Short: "Write a virtualization back to a definition file",
		Long: `Write a virtualization from the state database as a YAML definition.

Views saved from the editors only live in the state database until they are
exported. The file defaults to <definitions_dir>/<virtualization>.yaml.`,
		Example: `  # Export to the definitions directory
  leapview export sales

  # Export to a specific file
  leapview export sales ./backup/sales.yaml --force`,
		Args: cobra.RangeArgs(1, 2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return completeNames(cmd, args)
			}
			return nil, cobra.ShellCompDirectiveDefault
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			path := filepath.Join(cc.Cfg.DefinitionsDir, args[0]+".yaml")
			if len(args) > 1 {
				path = args[1]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists. Use --force to overwrite", path)
			}

			store, err := cc.OpenStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			virt, err := store.GetVirtualization(cmd.Context(), args[0])
			if errors.Is(err, state.ErrNotFound) {
				return fmt.Errorf("virtualization %q not found", args[0])
			}
			if err != nil {
				return err
			}

			if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}
			if err := loader.WriteFile(path, virt); err != nil {
				return err
			}
			cc.Renderer.StatusLine(path, "created", fmt.Sprintf("%d views", len(virt.Views)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}
