package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapview/pkg/adapter"
)

func TestConnections_DuckDBParamsReachAdapter(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, `connections:
  scratch:
    type: duckdb
    database: ":memory:"
    params:
      settings:
        threads: 2
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	conn, ok := cfg.AdapterConfigs()["scratch"]
	require.True(t, ok)
	assert.Equal(t, ":memory:", conn.Path)
	require.Contains(t, conn.Params, "settings")

	adp, err := adapter.NewAdapter(conn, nil)
	require.NoError(t, err)
	require.NoError(t, adp.Connect(context.Background(), conn))
	defer func() { _ = adp.Close() }()

	rows, err := adp.Query(context.Background(), "SELECT current_setting('threads')")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()
	require.True(t, rows.Next())

	var threads string
	require.NoError(t, rows.Scan(&threads))
	assert.Equal(t, "2", threads)
}

func TestConnections_UnknownDuckDBParamRejected(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, `connections:
  scratch:
    type: duckdb
    database: ":memory:"
    params:
      extension: [httpfs]
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	conn := cfg.AdapterConfigs()["scratch"]
	adp, err := adapter.NewAdapter(conn, nil)
	require.NoError(t, err)

	err = adp.Connect(context.Background(), conn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duckdb params")
}

func TestConnections_UnknownTypeNamesAvailableAdapters(t *testing.T) {
	conn := (&ConnectionConfig{Type: "oracle"}).AdapterConfig()

	_, err := adapter.NewAdapter(conn, nil)

	var unknown *adapter.UnknownAdapterError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "oracle", unknown.Type)
	assert.Contains(t, unknown.Available, "duckdb")
	assert.Contains(t, unknown.Available, "postgres")
}
