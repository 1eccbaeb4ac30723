// Package preview runs the sample query of a view against its source
// connection and publishes the rows to the editor session.
package preview

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/leapstack-labs/leapview/internal/editor"
	"github.com/leapstack-labs/leapview/internal/editor/event"
	"github.com/leapstack-labs/leapview/internal/editor/message"
	"github.com/leapstack-labs/leapview/pkg/adapter"
	"github.com/leapstack-labs/leapview/pkg/core"
)

// DefaultLimit caps the number of preview rows when no limit is configured.
const DefaultLimit = 100

// Errors returned by Runner.
var (
	ErrNoSources       = errors.New("view has no sources")
	ErrMixedConnection = errors.New("sources span more than one connection")
	ErrNoView          = errors.New("no view selected")
)

// UnknownConnectionError is returned when a source names a connection that is
// not configured.
type UnknownConnectionError struct {
	Name      string
	Available []string
}

func (e *UnknownConnectionError) Error() string {
	return fmt.Sprintf("unknown connection %q (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

// Connector opens a connected adapter for a named connection.
type Connector func(ctx context.Context, name string, cfg core.AdapterConfig, logger *slog.Logger) (adapter.Adapter, error)

// Connect is the default Connector. It resolves the adapter from the registry.
func Connect(ctx context.Context, _ string, cfg core.AdapterConfig, logger *slog.Logger) (adapter.Adapter, error) {
	adp, err := adapter.NewAdapter(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := adp.Connect(ctx, cfg); err != nil {
		return nil, err
	}
	return adp, nil
}

// Option configures a Runner.
type Option func(*Runner)

// WithLimit sets the maximum number of rows returned.
func WithLimit(limit int) Option {
	return func(r *Runner) {
		if limit > 0 {
			r.limit = limit
		}
	}
}

// WithConnector replaces the function used to open connections.
func WithConnector(c Connector) Option {
	return func(r *Runner) {
		if c != nil {
			r.connect = c
		}
	}
}

// WithLogger sets the runner logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Runner executes preview queries. A connection is opened per run and closed
// afterwards.
type Runner struct {
	connections map[string]core.AdapterConfig
	connect     Connector
	limit       int
	logger      *slog.Logger
}

// NewRunner creates a runner over the configured connections.
func NewRunner(connections map[string]core.AdapterConfig, opts ...Option) *Runner {
	r := &Runner{
		connections: connections,
		connect:     Connect,
		limit:       DefaultLimit,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Limit returns the row cap applied to preview queries.
func (r *Runner) Limit() int { return r.limit }

// Connection returns the name shared by all sources, or an error when the
// sources are empty or span several connections.
func Connection(sources []core.SourceRef) (string, error) {
	if len(sources) == 0 {
		return "", ErrNoSources
	}
	name := sources[0].Connection
	for _, s := range sources[1:] {
		if s.Connection != name {
			return "", fmt.Errorf("%w: %s, %s", ErrMixedConnection, name, s.Connection)
		}
	}
	return name, nil
}

// BuildQuery returns the preview SQL for sources. Several sources are
// combined with UNION ALL and the limit applies to the whole result.
func BuildQuery(sources []core.SourceRef, defaultSchema string, limit int) (string, error) {
	if _, err := Connection(sources); err != nil {
		return "", err
	}
	selects := make([]string, len(sources))
	for i, s := range sources {
		selects[i] = "SELECT * FROM " + adapter.QualifiedTable(s.Path, defaultSchema)
	}
	q := strings.Join(selects, "\nUNION ALL\n")
	if limit > 0 {
		q += fmt.Sprintf("\nLIMIT %d", limit)
	}
	return q, nil
}

// Run executes the preview query of view and returns its rows.
func (r *Runner) Run(ctx context.Context, view *core.View) (*core.QueryResults, error) {
	if view == nil {
		return nil, ErrNoView
	}
	name, err := Connection(view.Sources)
	if err != nil {
		return nil, err
	}
	cfg, ok := r.connections[name]
	if !ok {
		available := make([]string, 0, len(r.connections))
		for n := range r.connections {
			available = append(available, n)
		}
		slices.Sort(available)
		return nil, &UnknownConnectionError{Name: name, Available: available}
	}

	adp, err := r.connect(ctx, name, cfg, r.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", name, err)
	}
	defer func() { _ = adp.Close() }()

	query, err := BuildQuery(view.Sources, adp.DefaultSchema(), r.limit)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("running preview", "view", view.Name, "connection", name, "sql", query)

	rows, err := adp.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return ScanResults(rows)
}

// Refresh runs the preview of the session view. Results replace the session
// preview; a failure is reported as an ERR0200 message carrying the cause.
func (r *Runner) Refresh(ctx context.Context, s *editor.Session) error {
	view, ok := s.GetEditorView()
	if !ok {
		return ErrNoView
	}

	// The previous failure, if any, is replaced by this run's outcome.
	s.DeleteMessage(message.ERR0200.ID, event.PartPreview)

	results, err := r.Run(ctx, view)
	if err != nil {
		s.AddMessage(message.NewWithContext(message.ERR0200, err.Error()), event.PartPreview)
		return fmt.Errorf("preview of %q failed: %w", view.Name, err)
	}
	s.SetPreviewResults(results, event.PartPreview)
	return nil
}

// ScanResults reads every row into a QueryResults. Byte slices are
// converted to strings.
func ScanResults(rows *sql.Rows) (*core.QueryResults, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	results := &core.QueryResults{
		Columns: make([]core.ResultColumn, len(types)),
		Rows:    [][]any{},
	}
	for i, ct := range types {
		results.Columns[i] = core.ResultColumn{
			Name:  ct.Name(),
			Label: ct.Name(),
			Type:  strings.ToLower(ct.DatabaseTypeName()),
		}
	}

	for rows.Next() {
		values := make([]any, len(types))
		ptrs := make([]any, len(types))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		results.Rows = append(results.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return results, nil
}
