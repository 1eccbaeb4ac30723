package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/leapview/internal/cli/config"
	"github.com/leapstack-labs/leapview/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new LeapView project",
		Long: `Initialize a new LeapView project with default directory structure and configuration.

This creates:
  - definitions/ directory for virtualization definitions (YAML)
  - rules/ directory for Starlark validation rules
  - leapview.yaml configuration file

Use --example to create a demo project with a DuckDB connection, a
virtualization definition and a validation rule.`,
		Example: `  # Initialize in current directory
  leapview init

  # Initialize with a working example
  leapview init --example

  # Force overwrite existing config
  leapview init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cc := NewCommandContext(cmd)
			template := "minimal"
			if example {
				template = "example"
			}
			return runInit(cc.Renderer, dir, template, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	cmd.Flags().BoolVar(&example, "example", false, "Create an example project with a connection, definitions and rules")

	return cmd
}

func runInit(r *output.Renderer, dir, template string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, config.DefaultConfigFile)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", config.DefaultConfigFile)
	}

	if err := copyTemplate(template, dir, force); err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	files, _ := listTemplateFiles(template)
	groups := groupTemplateFiles(files)
	for _, group := range []struct{ key, title string }{
		{"config", "Configuration"},
		{"definitions", "Definitions"},
		{"rules", "Rules"},
		{"data", "Data"},
	} {
		if len(groups[group.key]) == 0 {
			continue
		}
		r.Header(2, group.title)
		for _, f := range groups[group.key] {
			r.StatusLine(f, "created", "")
		}
		r.Println("")
	}

	r.Success("LeapView project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Add connections to leapview.yaml")
	r.Println("  2. Describe virtualizations in definitions/")
	r.Println("  3. Run 'leapview import' to load them")
	r.Println("  4. Run 'leapview ui' or 'leapview edit <virtualization>' to edit views")

	return nil
}
