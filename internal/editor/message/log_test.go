package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog_AddDelete(t *testing.T) {
	var l Log

	require.True(t, l.Add(New(ERR0100)))
	require.True(t, l.Add(New(ERR0110)))
	assert.False(t, l.Add(New(ERR0110)), "duplicate ids are rejected")
	assert.False(t, l.Add(nil))
	assert.Equal(t, 2, l.Len())

	deleted, ok := l.Delete(ERR0100.ID)
	require.True(t, ok)
	assert.Equal(t, ERR0100.ID, deleted.ID)

	_, ok = l.Delete(ERR0100.ID)
	assert.False(t, ok)

	// A deleted id may be reused.
	assert.True(t, l.Add(New(ERR0100)))
	assert.Equal(t, []string{ERR0110.ID, ERR0100.ID}, ids(l.Messages()))
}

func TestLog_Count(t *testing.T) {
	var l Log
	l.Add(New(ERR0110))
	l.Add(New(WRN0100))
	l.Add(&Message{ID: "INF0001", Type: TypeInfo, Description: "note"})
	l.Add(&Message{ID: "INF0002", Type: TypeInfo, Description: "note"})

	assert.Equal(t, 1, l.Count(TypeError))
	assert.Equal(t, 1, l.Count(TypeWarning))
	assert.Equal(t, 2, l.Count(TypeInfo))
	assert.Equal(t, l.Len(), l.Count(TypeError)+l.Count(TypeWarning)+l.Count(TypeInfo))

	assert.Equal(t, 4, l.Clear())
	assert.Zero(t, l.Len())
}

func TestLog_UnknownTypeStoredAsError(t *testing.T) {
	var l Log
	in := &Message{ID: "X1", Type: "FATAL", Description: "boom"}
	require.True(t, l.Add(in))

	assert.Equal(t, 1, l.Count(TypeError))
	assert.Equal(t, Type("FATAL"), in.Type, "the caller's message is not modified")
	assert.Equal(t, l.Len(), l.Count(TypeError)+l.Count(TypeWarning)+l.Count(TypeInfo))
}

func TestLog_MessagesIsACopy(t *testing.T) {
	var l Log
	l.Add(New(ERR0110))

	msgs := l.Messages()
	msgs[0] = nil

	assert.NotNil(t, l.Messages()[0])
}

func TestParseType(t *testing.T) {
	for _, s := range []string{"ERROR", "WARNING", "INFO"} {
		got, err := ParseType(s)
		require.NoError(t, err)
		assert.Equal(t, Type(s), got)
	}
	_, err := ParseType("error")
	assert.Error(t, err)
}

func TestMessage_String(t *testing.T) {
	assert.Equal(t, "ERROR ERR0110: A view must have a name.", New(ERR0110).String())
	assert.Equal(t, "ERROR ERR0200: Preview query failed. (timeout)", NewWithContext(ERR0200, "timeout").String())
}

func ids(msgs []*Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.ID
	}
	return out
}
