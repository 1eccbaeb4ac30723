package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leapview/pkg/core"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// ErrInvalidName is returned when a virtualization name fails validation.
var ErrInvalidName = errors.New("invalid name")

var namePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite state store instance.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{}
}

// Open opens a connection to the SQLite database.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := "file:" + path + "?_pragma=foreign_keys(1)"
	if path != ":memory:" {
		dsn += "&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the path the store was opened with.
func (s *SQLiteStore) Path() string {
	return s.path
}

func generateID() string {
	return uuid.New().String()
}

// --- Virtualization operations ---

// ValidateName checks a candidate virtualization name. It returns a message
// for the user, or "" when the name is valid and not taken.
func (s *SQLiteStore) ValidateName(ctx context.Context, name string) (string, error) {
	if s.db == nil {
		return "", ErrNotOpen
	}
	if msg := nameProblem(name); msg != "" {
		return msg, nil
	}

	_, err := s.virtualizationID(ctx, s.db, name)
	switch {
	case err == nil:
		return fmt.Sprintf("A virtualization named %q already exists.", name), nil
	case errors.Is(err, ErrNotFound):
		return "", nil
	default:
		return "", err
	}
}

func nameProblem(name string) string {
	switch {
	case name == "":
		return "A virtualization name is required."
	case !namePattern.MatchString(name):
		return "A name must start with a letter and contain only letters, digits, '_' or '-'."
	}
	return ""
}

// CreateVirtualization inserts v and any views it carries.
func (s *SQLiteStore) CreateVirtualization(ctx context.Context, v *core.Virtualization) error {
	if s.db == nil {
		return ErrNotOpen
	}
	if msg := nameProblem(v.ID); msg != "" {
		return fmt.Errorf("%w: %s", ErrInvalidName, msg)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := s.virtualizationID(ctx, tx, v.ID); err == nil {
		return fmt.Errorf("virtualization %q: %w", v.ID, ErrDuplicateName)
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	id := generateID()
	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO virtualizations (id, name, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, v.ID, v.Description, now, now,
	); err != nil {
		return fmt.Errorf("failed to create virtualization: %w", err)
	}

	for _, view := range v.Views {
		if err := upsertView(ctx, tx, id, view, now); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit virtualization: %w", err)
	}
	return nil
}

// GetVirtualization returns the named virtualization with its views.
func (s *SQLiteStore) GetVirtualization(ctx context.Context, name string) (*core.Virtualization, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	v := &core.Virtualization{}
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description FROM virtualizations WHERE name = ?`, name,
	).Scan(&id, &v.ID, &v.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("virtualization %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get virtualization: %w", err)
	}

	views, err := s.listViewsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v.Views = views
	return v, nil
}

// ListVirtualizations returns all virtualizations ordered by name, with their views.
func (s *SQLiteStore) ListVirtualizations(ctx context.Context) ([]*core.Virtualization, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, description FROM virtualizations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list virtualizations: %w", err)
	}

	var ids []string
	var out []*core.Virtualization
	for rows.Next() {
		v := &core.Virtualization{}
		var id string
		if err := rows.Scan(&id, &v.ID, &v.Description); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan virtualization: %w", err)
		}
		ids = append(ids, id)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("failed to iterate virtualizations: %w", err)
	}
	_ = rows.Close()

	// Views are loaded after the cursor is closed; the store holds one connection.
	for i, id := range ids {
		views, err := s.listViewsByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out[i].Views = views
	}
	return out, nil
}

// DeleteVirtualization removes the named virtualization and its views.
func (s *SQLiteStore) DeleteVirtualization(ctx context.Context, name string) error {
	if s.db == nil {
		return ErrNotOpen
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM virtualizations WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete virtualization: %w", err)
	}
	return requireAffected(res, "virtualization", name)
}

// --- View operations ---

// SaveView inserts or replaces the view with the same name.
func (s *SQLiteStore) SaveView(ctx context.Context, virtualization string, view *core.View) error {
	if s.db == nil {
		return ErrNotOpen
	}
	if !view.HasName() {
		return fmt.Errorf("%w: a view must have a name", ErrInvalidName)
	}

	vid, err := s.virtualizationID(ctx, s.db, virtualization)
	if err != nil {
		return err
	}
	return upsertView(ctx, s.db, vid, view, time.Now().UTC())
}

// GetView returns one view of a virtualization.
func (s *SQLiteStore) GetView(ctx context.Context, virtualization, name string) (*core.View, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	vid, err := s.virtualizationID(ctx, s.db, virtualization)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT name, description, sources, editable FROM views WHERE virtualization_id = ? AND name = ?`,
		vid, name,
	)
	view, err := scanView(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("view %q in %q: %w", name, virtualization, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get view: %w", err)
	}
	return view, nil
}

// ListViews returns the views of a virtualization ordered by name.
func (s *SQLiteStore) ListViews(ctx context.Context, virtualization string) ([]*core.View, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	vid, err := s.virtualizationID(ctx, s.db, virtualization)
	if err != nil {
		return nil, err
	}
	return s.listViewsByID(ctx, vid)
}

// DeleteView removes a view.
func (s *SQLiteStore) DeleteView(ctx context.Context, virtualization, name string) error {
	if s.db == nil {
		return ErrNotOpen
	}
	vid, err := s.virtualizationID(ctx, s.db, virtualization)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM views WHERE virtualization_id = ? AND name = ?`, vid, name)
	if err != nil {
		return fmt.Errorf("failed to delete view: %w", err)
	}
	return requireAffected(res, "view", name)
}

// RenameView changes the name of a stored view.
func (s *SQLiteStore) RenameView(ctx context.Context, virtualization, oldName, newName string) error {
	if s.db == nil {
		return ErrNotOpen
	}
	if newName == "" {
		return fmt.Errorf("%w: a view must have a name", ErrInvalidName)
	}
	vid, err := s.virtualizationID(ctx, s.db, virtualization)
	if err != nil {
		return err
	}

	var exists int
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM views WHERE virtualization_id = ? AND name = ?`, vid, newName,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check view name: %w", err)
	}
	if exists > 0 {
		return fmt.Errorf("view %q: %w", newName, ErrDuplicateName)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE views SET name = ?, updated_at = ? WHERE virtualization_id = ? AND name = ?`,
		newName, time.Now().UTC(), vid, oldName,
	)
	if err != nil {
		return fmt.Errorf("failed to rename view: %w", err)
	}
	return requireAffected(res, "view", oldName)
}

// --- helpers ---

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *SQLiteStore) virtualizationID(ctx context.Context, q queryer, name string) (string, error) {
	var id string
	err := q.QueryRowContext(ctx, `SELECT id FROM virtualizations WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("virtualization %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up virtualization: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) listViewsByID(ctx context.Context, virtualizationID string) ([]*core.View, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, description, sources, editable FROM views WHERE virtualization_id = ? ORDER BY name`,
		virtualizationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list views: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var views []*core.View
	for rows.Next() {
		view, err := scanView(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan view: %w", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate views: %w", err)
	}
	return views, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanView(row scanner) (*core.View, error) {
	view := &core.View{}
	var sources string
	if err := row.Scan(&view.Name, &view.Description, &sources, &view.Editable); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(sources), &view.Sources); err != nil {
		return nil, fmt.Errorf("failed to decode sources of view %q: %w", view.Name, err)
	}
	return view, nil
}

func upsertView(ctx context.Context, q queryer, virtualizationID string, view *core.View, now time.Time) error {
	sources := view.Sources
	if sources == nil {
		sources = []core.SourceRef{}
	}
	encoded, err := json.Marshal(sources)
	if err != nil {
		return fmt.Errorf("failed to encode sources: %w", err)
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO views (id, virtualization_id, name, description, sources, editable, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (virtualization_id, name) DO UPDATE SET
			description = excluded.description,
			sources = excluded.sources,
			editable = excluded.editable,
			updated_at = excluded.updated_at`,
		generateID(), virtualizationID, view.Name, view.Description, string(encoded), view.Editable, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save view %q: %w", view.Name, err)
	}
	return nil
}

func requireAffected(res sql.Result, kind, name string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %q: %w", kind, name, ErrNotFound)
	}
	return nil
}
