package event

import (
	"testing"

	"github.com/leapstack-labs/leapview/internal/editor/message"
	"github.com/leapstack-labs/leapview/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_TypeFollowsPayload(t *testing.T) {
	view := core.NewView()
	msg := message.New(message.ERR0110)
	results := &core.QueryResults{}

	tests := []struct {
		payload Payload
		want    Type
		args    []any
	}{
		{ViewChangedPayload{View: view}, ViewChanged, []any{view}},
		{ViewNameChangedPayload{Name: "Customers"}, ViewNameChanged, []any{"Customers"}},
		{ViewDescriptionChangedPayload{Description: "d"}, ViewDescriptionChanged, []any{"d"}},
		{ViewValidChangedPayload{Valid: true}, ViewValidChanged, []any{true}},
		{ReadOnlyChangedPayload{ReadOnly: true}, ReadOnlyChanged, []any{true}},
		{EditorConfigChangedPayload{LayoutID: "view-editor-full"}, EditorConfigChanged, []any{"view-editor-full"}},
		{PreviewResultsChangedPayload{Results: results}, PreviewResultsChanged, []any{results}},
		{LogMessageAddedPayload{Message: msg}, LogMessageAdded, []any{msg}},
		{LogMessageDeletedPayload{Message: msg}, LogMessageDeleted, []any{msg}},
		{LogMessagesClearedPayload{}, LogMessagesCleared, []any{}},
		{ShowEditorPartPayload{Part: PartPreview}, ShowEditorPart, []any{PartPreview}},
		{CanvasSelectionChangedPayload{}, CanvasSelectionChanged, []any{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			e := New(PartHeader, tt.payload)
			assert.Equal(t, tt.want, e.Type())
			assert.Equal(t, PartHeader, e.Source())
			require.NotNil(t, e.Args())
			assert.Equal(t, tt.args, e.Args())
		})
	}
}

func TestEvent_String(t *testing.T) {
	e := New(PartEditor, LogMessagesClearedPayload{})
	assert.Equal(t, "type: LOG_MESSAGES_CLEARED, source: EDITOR, arg count: 0", e.String())
}

func TestNew_NilPayloadPanics(t *testing.T) {
	assert.Panics(t, func() { New(PartEditor, nil) })
}

func TestParsePart(t *testing.T) {
	for _, p := range Parts {
		got, err := ParsePart(string(p))
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	_, err := ParsePart("TOOLBAR")
	assert.Error(t, err)
	assert.False(t, Part("").Valid())
}
