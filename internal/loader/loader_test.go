package loader

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leapstack-labs/leapview/internal/state"
	"github.com/leapstack-labs/leapview/internal/testutil"
	"github.com/leapstack-labs/leapview/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const salesYAML = `name: sales
description: Sales data
views:
  - name: Customers
    description: All customers
    sources: ["pg:public.customers"]
  - name: Archive
    editable: false
    sources: ["pg:public.old_customers", "pg:public.older_customers"]
`

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
		check   func(t *testing.T, v *core.Virtualization)
	}{
		{
			name:  "full definition",
			input: salesYAML,
			check: func(t *testing.T, v *core.Virtualization) {
				assert.Equal(t, "sales", v.ID)
				assert.Equal(t, []string{"Customers", "Archive"}, v.ViewNames())
				customers, ok := v.View("Customers")
				require.True(t, ok)
				assert.True(t, customers.Editable)
				assert.Equal(t, []core.SourceRef{{Connection: "pg", Path: "public.customers"}}, customers.Sources)
				archive, _ := v.View("Archive")
				assert.False(t, archive.Editable)
				assert.Len(t, archive.Sources, 2)
			},
		},
		{
			name:    "empty document",
			input:   "",
			wantErr: "empty definition",
		},
		{
			name:    "unknown field",
			input:   "name: sales\nowner: bob\n",
			wantErr: "invalid YAML",
		},
		{
			name:    "missing name",
			input:   "description: nameless\n",
			wantErr: "virtualization name is required",
		},
		{
			name:    "unnamed view",
			input:   "name: sales\nviews:\n  - description: x\n",
			wantErr: "has no name",
		},
		{
			name:    "duplicate view",
			input:   "name: sales\nviews:\n  - name: A\n  - name: A\n",
			wantErr: "duplicate view",
		},
		{
			name:    "bad source",
			input:   "name: sales\nviews:\n  - name: A\n    sources: [\"no-connection\"]\n",
			wantErr: `view "A"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse([]byte(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, v)
		})
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	v, err := Parse([]byte(salesYAML))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "sales.yaml")
	require.NoError(t, WriteFile(path, v))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yml"), []byte("name: b\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "a.yaml"), []byte("name: a\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))

	virts, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, virts, 2)
	assert.Equal(t, "b", virts[0].ID)
	assert.Equal(t, "a", virts[1].ID)
}

func TestLoadFile_ReportsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("views: []\n"), 0o600))

	_, err := LoadFile(path)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, path, perr.File)
	assert.Contains(t, err.Error(), path)
}

func TestImport(t *testing.T) {
	store, err := state.OpenStore(":memory:")
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	v, err := Parse([]byte(salesYAML))
	require.NoError(t, err)

	res, err := Import(ctx, store, []*core.Virtualization{v}, testutil.NewTestLogger(t))
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Created: 1, Views: 2}, res)

	customers, _ := v.View("Customers")
	customers.SetDescription("Updated")
	res, err = Import(ctx, store, []*core.Virtualization{v}, nil)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Updated: 1, Views: 2}, res)

	got, err := store.GetView(ctx, "sales", "Customers")
	require.NoError(t, err)
	assert.Equal(t, "Updated", got.Description)
}

func TestImportDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sales.yaml"), []byte(salesYAML), 0o600))

	store, err := state.OpenStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	res, err := ImportDir(context.Background(), store, dir, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)

	views, err := store.ListViews(context.Background(), "sales")
	require.NoError(t, err)
	assert.Len(t, views, 2)
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, dir, []string{".yaml"}, 20*time.Millisecond, testutil.NewTestLogger(t), func(string) {
			calls.Add(1)
		})
	}()

	// Give the watcher time to register the directory.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o600))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "sales.yaml"), []byte(salesYAML), 0o600))
	}

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "a burst of writes is reported once")

	cancel()
	assert.NoError(t, <-done)
}
