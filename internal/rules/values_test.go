package rules

import (
	"testing"

	"github.com/leapstack-labs/leapview/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

func TestGoToStarlark(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"nil", nil, "None"},
		{"string", "hello", `"hello"`},
		{"int", 42, "42"},
		{"int64", int64(7), "7"},
		{"float", 1.5, "1.5"},
		{"bool", true, "True"},
		{"string slice", []string{"a", "b"}, `["a", "b"]`},
		{"any slice", []any{"a", 1}, `["a", 1]`},
		{"map", map[string]any{"k": "v"}, `{"k": "v"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GoToStarlark(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestGoToStarlark_Unsupported(t *testing.T) {
	_, err := GoToStarlark(struct{}{})
	assert.Error(t, err)

	_, err = GoToStarlark([]any{struct{}{}})
	assert.ErrorContains(t, err, "list index 0")
}

func TestToGo(t *testing.T) {
	dict := starlark.NewDict(1)
	require.NoError(t, dict.SetKey(starlark.String("k"), starlark.MakeInt(1)))

	tests := []struct {
		name  string
		input starlark.Value
		want  any
	}{
		{"none", starlark.None, nil},
		{"string", starlark.String("x"), "x"},
		{"int", starlark.MakeInt(3), int64(3)},
		{"float", starlark.Float(2.5), 2.5},
		{"bool", starlark.False, false},
		{"list", starlark.NewList([]starlark.Value{starlark.String("a")}), []any{"a"}},
		{"tuple", starlark.Tuple{starlark.MakeInt(1), starlark.MakeInt(2)}, []any{int64(1), int64(2)}},
		{"dict", dict, map[string]any{"k": int64(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToGo(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToGo_NonStringKey(t *testing.T) {
	dict := starlark.NewDict(1)
	require.NoError(t, dict.SetKey(starlark.MakeInt(1), starlark.String("v")))

	_, err := ToGo(dict)
	assert.ErrorContains(t, err, "dict key must be string")
}

func TestViewToStarlark(t *testing.T) {
	view := core.NewView()
	view.SetName("Customers")
	view.Sources = []core.SourceRef{{Connection: "pg", Path: "public.customers"}}

	v := ViewToStarlark(view)
	s, ok := v.(*starlarkstruct.Struct)
	require.True(t, ok, "expected struct, got %T", v)

	name, err := s.Attr("name")
	require.NoError(t, err)
	assert.Equal(t, starlark.String("Customers"), name)

	editable, err := s.Attr("editable")
	require.NoError(t, err)
	assert.Equal(t, starlark.True, editable)

	sources, err := s.Attr("sources")
	require.NoError(t, err)
	list, ok := sources.(*starlark.List)
	require.True(t, ok)
	require.Equal(t, 1, list.Len())

	conn, err := list.Index(0).(*starlarkstruct.Struct).Attr("connection")
	require.NoError(t, err)
	assert.Equal(t, starlark.String("pg"), conn)
}
