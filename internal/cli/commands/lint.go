package commands

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/leapview/internal/cli/output"
	"github.com/leapstack-labs/leapview/internal/editor"
	"github.com/leapstack-labs/leapview/internal/editor/message"
	"github.com/leapstack-labs/leapview/internal/editor/parts"
	"github.com/leapstack-labs/leapview/internal/rules"
	"github.com/leapstack-labs/leapview/internal/state"
	"github.com/leapstack-labs/leapview/pkg/core"
	"github.com/spf13/cobra"
)

// ErrLintIssues is returned when lint reports at least one message.
var ErrLintIssues = errors.New("lint issues found")

// LintOptions holds options for the lint command.
type LintOptions struct {
	Severity string // Minimum severity: error, warning, info
}

// LintResult is the lint outcome of one view.
type LintResult struct {
	Virtualization string             `json:"virtualization"`
	View           string             `json:"view"`
	Messages       []*message.Message `json:"messages"`
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [virtualization]",
		Short: "Validate stored views",
		Long: `Open every stored view in the editor and report the messages it raises.

Views are checked by the same built-in validation and rule scripts as the
interactive editors. The command fails when any message at or above the
given severity is reported.`,
		Example: `  # Lint every virtualization
  leapview lint

  # Lint one virtualization, errors only
  leapview lint sales --severity error`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			return completeNames(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Severity, "severity", "warning", "Minimum severity: error, warning, info")
	_ = cmd.RegisterFlagCompletionFunc("severity", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"error", "warning", "info"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runLint(cmd *cobra.Command, args []string, opts *LintOptions) error {
	minSeverity, err := message.ParseType(strings.ToUpper(opts.Severity))
	if err != nil {
		return err
	}

	cc := NewCommandContext(cmd)
	store, err := cc.OpenStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()
	var virts []*core.Virtualization
	if len(args) > 0 {
		virt, err := store.GetVirtualization(ctx, args[0])
		if errors.Is(err, state.ErrNotFound) {
			return fmt.Errorf("virtualization %q not found", args[0])
		}
		if err != nil {
			return err
		}
		virts = []*core.Virtualization{virt}
	} else {
		if virts, err = store.ListVirtualizations(ctx); err != nil {
			return err
		}
	}

	engine, err := rules.LoadDir(cc.Cfg.RulesDir, cc.Logger)
	if err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}

	results := lintVirtualizations(cc, engine, virts, minSeverity)
	issues := 0
	for _, res := range results {
		issues += len(res.Messages)
	}

	r := cc.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(results); err != nil {
			return err
		}
	} else {
		renderLintResults(r, results)
	}

	if issues > 0 {
		return ErrLintIssues
	}
	return nil
}

// lintVirtualizations opens each view in a read-only editor and collects the
// messages at or above minSeverity. Views without messages are omitted.
func lintVirtualizations(cc *CommandContext, engine *rules.Engine, virts []*core.Virtualization, minSeverity message.Type) []LintResult {
	var results []LintResult
	for _, virt := range virts {
		for _, view := range virt.Views {
			e := parts.NewEditor(editor.NewSession(cc.Logger), nil,
				parts.WithLogger(cc.Logger),
				parts.WithValidator(engine.Validator()),
			)
			e.Open(parts.Selection{Virtualization: virt, View: view, ReadOnly: true})

			var msgs []*message.Message
			for _, m := range e.MessageLog().Rows() {
				if severityRank(m.Type) >= severityRank(minSeverity) {
					msgs = append(msgs, m)
				}
			}
			e.Close()

			if len(msgs) == 0 {
				continue
			}
			slices.SortFunc(msgs, func(a, b *message.Message) int {
				if d := severityRank(b.Type) - severityRank(a.Type); d != 0 {
					return d
				}
				return strings.Compare(a.ID, b.ID)
			})
			results = append(results, LintResult{Virtualization: virt.ID, View: view.Name, Messages: msgs})
		}
	}
	return results
}

func severityRank(t message.Type) int {
	switch t {
	case message.TypeError:
		return 2
	case message.TypeWarning:
		return 1
	default:
		return 0
	}
}

func renderLintResults(r *output.Renderer, results []LintResult) {
	if len(results) == 0 {
		r.Success("No issues found")
		return
	}

	rows := make([][]string, 0, len(results))
	errCount, warnCount := 0, 0
	for _, res := range results {
		for _, m := range res.Messages {
			switch m.Type {
			case message.TypeError:
				errCount++
			case message.TypeWarning:
				warnCount++
			}
			rows = append(rows, []string{res.Virtualization + "." + res.View, string(m.Type), m.ID, m.Description})
		}
	}

	r.Header(2, "Lint results")
	r.Table([]string{"View", "Type", "ID", "Description"}, rows)
	r.Println("")
	summary := fmt.Sprintf("%d error(s), %d warning(s) in %d view(s)", errCount, warnCount, len(results))
	if errCount > 0 {
		r.Error(summary)
	} else {
		r.Warning(summary)
	}
}
