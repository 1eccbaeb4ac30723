package common

import (
	"bytes"
	"context"
	"testing"

	"github.com/leapstack-labs/leapview/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildExplorerTree(t *testing.T) {
	virts := []*core.Virtualization{
		{ID: "sales", Views: []*core.View{{Name: "Orders"}, {Name: "Customers"}}},
		{ID: "hr"},
	}

	tree := BuildExplorerTree(virts)
	require.Len(t, tree, 2)
	assert.Equal(t, "hr", tree[0].Name)
	assert.Equal(t, "/virtualizations/hr/new", tree[0].Path)
	assert.Empty(t, tree[0].Children)

	require.Len(t, tree[1].Children, 2)
	assert.Equal(t, "Customers", tree[1].Children[0].Name)
	assert.Equal(t, "/virtualizations/sales/views/Customers/edit", tree[1].Children[0].Path)
}

func TestPaths(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"edit escapes", EditViewPath("sales", "My View"), "/virtualizations/sales/views/My%20View/edit"},
		{"new", NewViewPath("sales"), "/virtualizations/sales/new"},
		{"editor root", EditorPath("abc"), "/editor/abc"},
		{"editor action", EditorPath("abc", "layout", "view-editor-full"), "/editor/abc/layout/view-editor-full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestPage(t *testing.T) {
	var buf bytes.Buffer
	body := Explorer(nil)
	require.NoError(t, Page("A <b>", "/updates", nil, body).Render(context.Background(), &buf))

	out := buf.String()
	assert.Contains(t, out, "<!doctype html>")
	assert.Contains(t, out, "<title>A &lt;b&gt; - LeapView</title>")
	assert.Contains(t, out, `data-init="@get('/updates')"`)
	assert.Contains(t, out, "ui-content")
}
