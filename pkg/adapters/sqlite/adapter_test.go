package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leapview/pkg/adapter"
	"github.com/leapstack-labs/leapview/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter_ReadWriteAndList(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "source.db")

	writer := New(nil)
	require.NoError(t, writer.Connect(ctx, core.AdapterConfig{Path: path, Options: map[string]string{"mode": "rwc"}}))
	require.NoError(t, writer.Exec(ctx, `CREATE TABLE customers (id TEXT, name TEXT)`))
	require.NoError(t, writer.Exec(ctx, `INSERT INTO customers VALUES ('CST01002', 'Rob Smith')`))
	require.NoError(t, writer.Exec(ctx, `CREATE VIEW named AS SELECT name FROM customers`))
	require.NoError(t, writer.Close())

	reader := New(nil)
	require.NoError(t, reader.Connect(ctx, core.AdapterConfig{Path: path}))
	defer func() { _ = reader.Close() }()

	tables, err := reader.ListTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"main.customers", "main.named"}, tables)

	rows, err := reader.Query(ctx, "SELECT name FROM "+adapter.QualifiedTable("customers", reader.DefaultSchema()))
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()
	require.True(t, rows.Next())
	var name string
	require.NoError(t, rows.Scan(&name))
	assert.Equal(t, "Rob Smith", name)

	assert.Error(t, reader.Exec(ctx, `DELETE FROM customers`), "sources are read-only by default")
}

func TestAdapter_NotConnected(t *testing.T) {
	adp := New(nil)
	_, err := adp.ListTables(context.Background())
	assert.ErrorContains(t, err, "not established")
	assert.NoError(t, adp.Close())
}

func TestAdapter_Registry(t *testing.T) {
	assert.True(t, adapter.IsRegistered("sqlite"))

	adp, err := adapter.NewAdapter(core.AdapterConfig{Type: "sqlite"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", adp.DialectName())
	assert.Equal(t, "main", adp.DefaultSchema())
}
