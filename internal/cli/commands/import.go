package commands

import (
	"fmt"
	"path/filepath"

	"github.com/leapstack-labs/leapview/internal/cli/output"
	"github.com/leapstack-labs/leapview/internal/loader"
	"github.com/spf13/cobra"
)

// NewImportCommand creates the import command.
func NewImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [directory]",
		Short: "Import virtualization definitions into the state database",
		Long: `Read every YAML definition in the definitions directory and write it to the
state database. New virtualizations are created; views of existing ones are
updated by name.`,
		Example: `  # Import from definitions_dir
  leapview import

  # Import another directory
  leapview import ./shared/definitions`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			dir := cc.Cfg.DefinitionsDir
			if len(args) > 0 {
				dir = args[0]
			}
			if abs, err := filepath.Abs(dir); err == nil {
				dir = abs
			}

			store, err := cc.OpenStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			res, err := loader.ImportDir(cmd.Context(), store, dir, cc.Logger)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			r := cc.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(output.ImportOutput{
					Directory: dir,
					Created:   res.Created,
					Updated:   res.Updated,
					Views:     res.Views,
				})
			}

			r.StatusLine("virtualizations", "created", fmt.Sprintf("%d", res.Created))
			r.StatusLine("virtualizations", "updated", fmt.Sprintf("%d", res.Updated))
			r.StatusLine("views", "saved", fmt.Sprintf("%d", res.Views))
			r.Success(fmt.Sprintf("Imported definitions from %s", dir))
			return nil
		},
	}
	return cmd
}
