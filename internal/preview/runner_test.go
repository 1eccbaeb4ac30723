package preview

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/leapview/internal/editor"
	"github.com/leapstack-labs/leapview/internal/editor/event"
	"github.com/leapstack-labs/leapview/internal/editor/message"
	"github.com/leapstack-labs/leapview/internal/testutil"
	"github.com/leapstack-labs/leapview/pkg/adapter"
	"github.com/leapstack-labs/leapview/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockAdapter serves queries from a sqlmock connection.
type mockAdapter struct {
	adapter.BaseSQLAdapter
}

func (m *mockAdapter) Connect(context.Context, core.AdapterConfig) error { return nil }
func (m *mockAdapter) ListTables(context.Context) ([]string, error)    { return nil, nil }
func (m *mockAdapter) DialectName() string                              { return "mock" }
func (m *mockAdapter) DefaultSchema() string                            { return "public" }

func newMockRunner(t *testing.T, opts ...Option) (*Runner, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)

	connector := func(context.Context, string, core.AdapterConfig, *slog.Logger) (adapter.Adapter, error) {
		return &mockAdapter{BaseSQLAdapter: adapter.BaseSQLAdapter{DB: db}}, nil
	}
	conns := map[string]core.AdapterConfig{"pg": {Type: "postgres"}}
	opts = append([]Option{WithConnector(connector), WithLogger(testutil.NewTestLogger(t))}, opts...)
	return NewRunner(conns, opts...), mock
}

func viewWith(sources ...core.SourceRef) *core.View {
	v := core.NewView()
	v.SetName("Customers")
	v.Sources = sources
	return v
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name    string
		sources []core.SourceRef
		limit   int
		want    string
		wantErr error
	}{
		{
			name:    "single source",
			sources: []core.SourceRef{{Connection: "pg", Path: "customers"}},
			limit:   10,
			want:    "SELECT * FROM \"public\".\"customers\"\nLIMIT 10",
		},
		{
			name: "union of sources",
			sources: []core.SourceRef{
				{Connection: "pg", Path: "eu.customers"},
				{Connection: "pg", Path: "us.customers"},
			},
			limit: 5,
			want:  "SELECT * FROM \"eu\".\"customers\"\nUNION ALL\nSELECT * FROM \"us\".\"customers\"\nLIMIT 5",
		},
		{
			name:    "no limit",
			sources: []core.SourceRef{{Connection: "pg", Path: "customers"}},
			want:    "SELECT * FROM \"public\".\"customers\"",
		},
		{
			name:    "no sources",
			wantErr: ErrNoSources,
		},
		{
			name: "mixed connections",
			sources: []core.SourceRef{
				{Connection: "pg", Path: "customers"},
				{Connection: "duck", Path: "orders"},
			},
			wantErr: ErrMixedConnection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildQuery(tt.sources, "public", tt.limit)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunner_Run(t *testing.T) {
	runner, mock := newMockRunner(t, WithLimit(2))
	assert.Equal(t, 2, runner.Limit())

	mock.ExpectQuery("SELECT * FROM \"public\".\"customers\"\nLIMIT 2").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name"}).
			AddRow("CST01002", []byte("Rob Smith")).
			AddRow("CST01003", nil),
	)
	mock.ExpectClose()

	results, err := runner.Run(context.Background(), viewWith(core.SourceRef{Connection: "pg", Path: "customers"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, results.ColumnNames())
	assert.Equal(t, 2, results.RowCount())
	assert.Equal(t, "Rob Smith", results.Rows[0][1], "byte slices become strings")
	assert.Nil(t, results.Rows[1][1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunner_RunErrors(t *testing.T) {
	runner, _ := newMockRunner(t)
	ctx := context.Background()

	_, err := runner.Run(ctx, nil)
	assert.ErrorIs(t, err, ErrNoView)

	_, err = runner.Run(ctx, viewWith())
	assert.ErrorIs(t, err, ErrNoSources)

	_, err = runner.Run(ctx, viewWith(core.SourceRef{Connection: "nope", Path: "t"}))
	var unknown *UnknownConnectionError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, []string{"pg"}, unknown.Available)
}

func TestRunner_ConnectFailure(t *testing.T) {
	boom := errors.New("refused")
	runner := NewRunner(map[string]core.AdapterConfig{"pg": {}}, WithConnector(
		func(context.Context, string, core.AdapterConfig, *slog.Logger) (adapter.Adapter, error) {
			return nil, boom
		}))

	_, err := runner.Run(context.Background(), viewWith(core.SourceRef{Connection: "pg", Path: "t"}))
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to connect to pg")
}

func TestRunner_Refresh(t *testing.T) {
	runner, mock := newMockRunner(t)
	s := editor.NewSession(testutil.NewTestLogger(t))
	s.SetEditorView(viewWith(core.SourceRef{Connection: "pg", Path: "customers"}), event.PartEditor)

	var got []event.Type
	s.Subscribe(func(e event.Event) { got = append(got, e.Type()) })

	mock.ExpectQuery("SELECT * FROM \"public\".\"customers\"\nLIMIT 100").
		WillReturnError(errors.New("relation does not exist"))
	mock.ExpectClose()

	err := runner.Refresh(context.Background(), s)
	require.Error(t, err)
	require.True(t, s.HasMessage(message.ERR0200.ID))
	msgs := s.GetMessages()
	assert.Contains(t, msgs[len(msgs)-1].Context, "relation does not exist")
	assert.Equal(t, []event.Type{event.LogMessageAdded}, got)
}

func TestRunner_RefreshClearsPreviousFailure(t *testing.T) {
	s := editor.NewSession(nil)
	s.SetEditorView(viewWith(core.SourceRef{Connection: "pg", Path: "customers"}), event.PartEditor)
	s.AddMessage(message.NewWithContext(message.ERR0200, "old failure"), event.PartPreview)

	runner, mock := newMockRunner(t)
	mock.ExpectQuery("SELECT * FROM \"public\".\"customers\"\nLIMIT 100").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectClose()

	var got []event.Type
	s.Subscribe(func(e event.Event) { got = append(got, e.Type()) })

	require.NoError(t, runner.Refresh(context.Background(), s))
	assert.False(t, s.HasMessage(message.ERR0200.ID))
	assert.Equal(t, []event.Type{event.LogMessageDeleted, event.PreviewResultsChanged}, got)
	assert.Equal(t, 1, s.GetPreviewResults().RowCount())
}

func TestRunner_RefreshWithoutView(t *testing.T) {
	runner, _ := newMockRunner(t)
	assert.ErrorIs(t, runner.Refresh(context.Background(), editor.NewSession(nil)), ErrNoView)
}
