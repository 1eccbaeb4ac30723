package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/leapview/internal/cli/config"
	"github.com/leapstack-labs/leapview/internal/cli/output"
	"github.com/leapstack-labs/leapview/internal/loader"
	"github.com/leapstack-labs/leapview/internal/preview"
	"github.com/leapstack-labs/leapview/internal/rules"
	"github.com/leapstack-labs/leapview/pkg/core"
	"github.com/spf13/cobra"
)

// Check statuses reported by doctor.
const (
	checkPass = "pass"
	checkWarn = "warn"
	checkFail = "error"
)

// ErrDoctorFailed is returned when a health check fails.
var ErrDoctorFailed = errors.New("health check failed")

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Summary      ProjectSummary `json:"summary"`
	HealthChecks []HealthCheck  `json:"health_checks"`
	IssueCount   int            `json:"issue_count"`
}

// ProjectSummary contains project-level statistics.
type ProjectSummary struct {
	ConfigFile      string `json:"config_file,omitempty"`
	Definitions     int    `json:"definitions"`
	Virtualizations int    `json:"virtualizations"`
	Views           int    `json:"views"`
	Rules           int    `json:"rules"`
	Connections     int    `json:"connections"`
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	Name    string   `json:"name"`
	Group   string   `json:"group"`
	Status  string   `json:"status"` // "pass", "warn", "error"
	Details []string `json:"details,omitempty"`
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the project setup",
		Long: `Check that a LeapView project is ready to use.

The doctor command verifies:
- The configuration file and definition files parse
- Rule scripts compile
- The state database is imported and every view source names a known connection
- Every connection can be reached`,
		Example: `  # Run health check
  leapview doctor

  # Output as JSON
  leapview doctor -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd)
		},
	}
	return cmd
}

func runDoctor(cmd *cobra.Command) error {
	cc := NewCommandContext(cmd)
	out := diagnose(cmd.Context(), cc)

	r := cc.Renderer
	var err error
	switch r.EffectiveMode() {
	case output.ModeJSON:
		err = r.JSON(out)
	case output.ModeMarkdown:
		renderDoctorMarkdown(r, out)
	default:
		renderDoctorText(r, out)
	}
	if err != nil {
		return err
	}

	for _, check := range out.HealthChecks {
		if check.Status == checkFail {
			return ErrDoctorFailed
		}
	}
	return nil
}

// diagnose runs every check. Checks never stop at the first failure so the
// report covers the whole project.
func diagnose(ctx context.Context, cc *CommandContext) *DoctorOutput {
	cfg := cc.Cfg
	out := &DoctorOutput{}
	add := func(check HealthCheck) {
		if check.Status != checkPass {
			out.IssueCount++
		}
		out.HealthChecks = append(out.HealthChecks, check)
	}

	// Configuration
	out.Summary.ConfigFile = config.GetConfigFileUsed()
	if out.Summary.ConfigFile == "" {
		add(HealthCheck{Name: "config file", Group: "project", Status: checkWarn,
			Details: []string{"no " + config.DefaultConfigFile + " found, using defaults"}})
	} else {
		add(HealthCheck{Name: "config file", Group: "project", Status: checkPass})
	}

	// Definitions
	if _, err := os.Stat(cfg.DefinitionsDir); err != nil {
		add(HealthCheck{Name: "definitions", Group: "project", Status: checkWarn,
			Details: []string{fmt.Sprintf("%s does not exist", cfg.DefinitionsDir)}})
	} else if virts, err := loader.LoadDir(cfg.DefinitionsDir); err != nil {
		add(HealthCheck{Name: "definitions", Group: "project", Status: checkFail, Details: []string{err.Error()}})
	} else {
		out.Summary.Definitions = len(virts)
		add(HealthCheck{Name: "definitions", Group: "project", Status: checkPass})
	}

	// Rules
	if engine, err := rules.LoadDir(cfg.RulesDir, cc.Logger); err != nil {
		add(HealthCheck{Name: "rules", Group: "project", Status: checkFail, Details: []string{err.Error()}})
	} else {
		out.Summary.Rules = len(engine.Rules())
		add(HealthCheck{Name: "rules", Group: "project", Status: checkPass})
	}

	// State
	add(checkState(ctx, cc, &out.Summary))

	// Connections
	names := make([]string, 0, len(cfg.Connections))
	for name := range cfg.Connections {
		names = append(names, name)
	}
	sort.Strings(names)
	out.Summary.Connections = len(names)

	adapterCfgs := cfg.AdapterConfigs()
	for _, name := range names {
		add(checkConnection(ctx, cc, name, adapterCfgs[name]))
	}

	return out
}

func checkState(ctx context.Context, cc *CommandContext, summary *ProjectSummary) HealthCheck {
	check := HealthCheck{Name: "state database", Group: "state", Status: checkPass}
	if cc.Cfg.StatePath != ":memory:" {
		if _, err := os.Stat(cc.Cfg.StatePath); err != nil {
			check.Status = checkWarn
			check.Details = []string{"not imported yet, run 'leapview import'"}
			return check
		}
	}

	store, err := cc.OpenStore()
	if err != nil {
		check.Status = checkFail
		check.Details = []string{err.Error()}
		return check
	}
	defer func() { _ = store.Close() }()

	virts, err := store.ListVirtualizations(ctx)
	if err != nil {
		check.Status = checkFail
		check.Details = []string{err.Error()}
		return check
	}

	summary.Virtualizations = len(virts)
	for _, virt := range virts {
		for _, view := range virt.Views {
			summary.Views++
			for _, src := range view.Sources {
				if _, ok := cc.Cfg.Connections[src.Connection]; !ok {
					check.Status = checkFail
					check.Details = append(check.Details,
						fmt.Sprintf("%s.%s reads %s from unknown connection %q", virt.ID, view.Name, src.Path, src.Connection))
				}
			}
		}
	}
	return check
}

func checkConnection(ctx context.Context, cc *CommandContext, name string, cfg core.AdapterConfig) HealthCheck {
	check := HealthCheck{Name: "connection " + name, Group: "connections", Status: checkPass}

	adp, err := preview.Connect(ctx, name, cfg, cc.Logger)
	if err != nil {
		check.Status = checkFail
		check.Details = []string{err.Error()}
		return check
	}
	defer func() { _ = adp.Close() }()

	tables, err := adp.ListTables(ctx)
	if err != nil {
		check.Status = checkWarn
		check.Details = []string{"connected but could not list tables: " + err.Error()}
		return check
	}
	check.Details = []string{fmt.Sprintf("%s, %d tables", cfg.Type, len(tables))}
	return check
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header.Render("LeapView Project Health Report"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	r.Printf("   Definitions: %d | Virtualizations: %d | Views: %d\n",
		out.Summary.Definitions, out.Summary.Virtualizations, out.Summary.Views)
	r.Printf("   Rules: %d | Connections: %d\n", out.Summary.Rules, out.Summary.Connections)
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Header.Render("   " + titleCaser.String(currentGroup)))
			r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		}

		icon := styles.Success.Render("✓")
		switch check.Status {
		case checkWarn:
			icon = styles.Warning.Render("!")
		case checkFail:
			icon = styles.Error.Render("✗")
		}
		r.Println("   " + icon + " " + check.Name)

		for _, detail := range check.Details {
			r.Println(styles.Muted.Render("       - " + detail))
		}
	}
	r.Println("")

	if out.IssueCount == 0 {
		r.Success("All checks passed")
	} else {
		r.Warning(fmt.Sprintf("%d check(s) need attention", out.IssueCount))
	}
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) {
	r.Println("# LeapView Project Health Report")
	r.Println("")

	r.Println("## Project Summary")
	r.Println("")
	if out.Summary.ConfigFile != "" {
		r.Printf("- **Config**: %s\n", out.Summary.ConfigFile)
	}
	r.Printf("- **Definitions**: %d\n", out.Summary.Definitions)
	r.Printf("- **Virtualizations**: %d\n", out.Summary.Virtualizations)
	r.Printf("- **Views**: %d\n", out.Summary.Views)
	r.Printf("- **Rules**: %d\n", out.Summary.Rules)
	r.Printf("- **Connections**: %d\n", out.Summary.Connections)
	r.Println("")

	r.Println("## Health Checks")
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println("### " + titleCaser.String(currentGroup))
			r.Println("")
		}

		r.Printf("- **[%s]** %s\n", strings.ToUpper(check.Status), check.Name)
		for _, detail := range check.Details {
			r.Printf("  - %s\n", detail)
		}
	}
	r.Println("")
}
