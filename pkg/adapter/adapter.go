// Package adapter provides the connection contract for the databases a view
// draws its sources from.
//
// Concrete adapter implementations are in pkg/adapters/ subdirectories and
// register themselves from init.
package adapter

import (
	"context"
	"database/sql"

	"github.com/leapstack-labs/leapview/pkg/core"
)

// Config is an alias for core.AdapterConfig.
type Config = core.AdapterConfig

// Adapter defines the interface that all source adapters must implement.
type Adapter interface {
	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Exec executes a SQL statement that doesn't return rows.
	Exec(ctx context.Context, sql string) error

	// Query executes a SQL statement that returns rows.
	// The caller must close the rows and check rows.Err().
	Query(ctx context.Context, sql string) (*sql.Rows, error)

	// ListTables returns the "schema.table" paths that can be used as view sources.
	ListTables(ctx context.Context) ([]string, error)

	// DialectName names the SQL dialect spoken by the adapter.
	DialectName() string

	// DefaultSchema is the schema assumed for unqualified source paths.
	DefaultSchema() string
}
