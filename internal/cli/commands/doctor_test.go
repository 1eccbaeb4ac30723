package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leapview/internal/cli/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDoctorCommand(t *testing.T) {
	cmd := NewDoctorCommand()

	assert.Equal(t, "doctor", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")
}

func findCheck(t *testing.T, out *DoctorOutput, name string) HealthCheck {
	t.Helper()
	for _, c := range out.HealthChecks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("check %q not reported", name)
	return HealthCheck{}
}

func TestDoctorCommand(t *testing.T) {
	loadProject(t)

	out, err := execute(t, NewDoctorCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "# LeapView Project Health Report")
	assert.Contains(t, out, "- **[WARN]** state database")
	assert.Contains(t, out, "- **[PASS]** connection local")

	importProject(t)
	config.GetCurrentConfig().OutputFormat = "json"
	out, err = execute(t, NewDoctorCommand())
	require.NoError(t, err)

	var report DoctorOutput
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Zero(t, report.IssueCount)
	assert.Equal(t, ProjectSummary{
		ConfigFile:      config.GetConfigFileUsed(),
		Definitions:     1,
		Virtualizations: 1,
		Views:           2,
		Rules:           1,
		Connections:     1,
	}, report.Summary)
	assert.Equal(t, []string{"sqlite, 1 tables"}, findCheck(t, &report, "connection local").Details)
}

func TestDoctorCommand_Failures(t *testing.T) {
	dir := loadProject(t)
	bad := "name: remote\nviews:\n  - name: Orders\n    sources: [\"warehouse:public.orders\"]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "definitions", "remote.yaml"), []byte(bad), 0600))
	importProject(t)

	cfg := config.GetCurrentConfig()
	cfg.OutputFormat = "json"
	cfg.Connections["missing"] = &config.ConnectionConfig{Type: "sqlite", Database: filepath.Join(dir, "nope", "x.db")}
	t.Cleanup(func() { delete(cfg.Connections, "missing") })

	out, err := execute(t, NewDoctorCommand())
	require.ErrorIs(t, err, ErrDoctorFailed)

	var report DoctorOutput
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 2, report.IssueCount)

	state := findCheck(t, &report, "state database")
	assert.Equal(t, checkFail, state.Status)
	assert.Equal(t, []string{`remote.Orders reads public.orders from unknown connection "warehouse"`}, state.Details)
	assert.Equal(t, checkFail, findCheck(t, &report, "connection missing").Status)
	assert.Equal(t, checkPass, findCheck(t, &report, "connection local").Status)
}
