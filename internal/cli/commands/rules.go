package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/leapview/internal/cli/output"
	"github.com/leapstack-labs/leapview/internal/rules"
	"github.com/spf13/cobra"
)

// RuleInfo is the JSON form of a loaded rule script.
type RuleInfo struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect validation rule scripts",
		Long: `Rule scripts are Starlark files in rules_dir. Each defines check(view) and
returns a list of problem(id, description, type="ERROR") findings, which the
editor shows in its message log.`,
	}

	cmd.AddCommand(newRulesListCommand())
	cmd.AddCommand(newRulesNewCommand())

	return cmd
}

func newRulesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List rule scripts and check that they compile",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			engine, err := rules.LoadDir(cc.Cfg.RulesDir, cc.Logger)
			if err != nil {
				return err
			}

			loaded := engine.Rules()
			infos := make([]RuleInfo, len(loaded))
			for i, rule := range loaded {
				infos[i] = RuleInfo{Name: rule.Name, Path: rule.Path}
			}

			r := cc.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(infos)
			}
			if len(infos) == 0 {
				r.Muted(fmt.Sprintf("No rules in %s", cc.Cfg.RulesDir))
				return nil
			}

			rows := make([][]string, len(infos))
			for i, info := range infos {
				rows[i] = []string{info.Name, info.Path}
			}
			r.Header(2, "Rules")
			r.Table([]string{"Name", "Path"}, rows)
			return nil
		},
	}
}

const ruleTemplate = `# %s reports problems about a view.
#
# view has name, description, editable and sources; each source has connection and path.
def check(view):
    problems = []
    if not view.sources:
        problems.append(problem("%s", "View reads no sources.", type="warning"))
    return problems
`

func newRulesNewCommand() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:     "new <name>",
		Short:   "Create a rule script from a template",
		Example: `  leapview rules new naming --id RUL0100`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			path := filepath.Join(cc.Cfg.RulesDir, args[0]+rules.Extension)
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("rule %s already exists", path)
			}
			if err := os.MkdirAll(cc.Cfg.RulesDir, 0750); err != nil {
				return fmt.Errorf("failed to create rules directory: %w", err)
			}

			src := fmt.Sprintf(ruleTemplate, args[0], id)
			if err := rules.NewEngine(cc.Logger).Add(path, []byte(src)); err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(src), 0600); err != nil {
				return fmt.Errorf("failed to write rule: %w", err)
			}
			cc.Renderer.StatusLine(path, "created", "")
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "RUL0001", "Message id reported by the rule")
	return cmd
}
