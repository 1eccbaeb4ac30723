package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(isTTY bool, mode Mode) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewRendererWithTTY(&out, &errOut, isTTY, mode), &out, &errOut
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"TEXT", ModeText, false},
		{"md", ModeMarkdown, false},
		{"json", ModeJSON, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		isTTY bool
		mode  Mode
		want  Mode
	}{
		{"auto tty", true, ModeAuto, ModeText},
		{"auto pipe", false, ModeAuto, ModeMarkdown},
		{"empty defaults to auto", false, "", ModeMarkdown},
		{"explicit json", true, ModeJSON, ModeJSON},
		{"explicit text on pipe", false, ModeText, ModeText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTestRenderer(tt.isTTY, tt.mode)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestRenderer_Markdown(t *testing.T) {
	r, out, errOut := newTestRenderer(false, ModeMarkdown)

	r.Header(2, "Views")
	r.Success("Saved")
	r.StatusLine("Customers", "saved", "3 sources")
	r.Warning("careful")
	r.Error("broken")

	s := out.String()
	assert.Contains(t, s, "## Views")
	assert.Contains(t, s, "**Saved**")
	assert.Contains(t, s, "- Customers: Saved (3 sources)")
	assert.Contains(t, errOut.String(), "Warning: careful")
	assert.Contains(t, errOut.String(), "Error: broken")
	assert.NotContains(t, s, "\x1b[")
}

func TestRenderer_TextWithoutColor(t *testing.T) {
	r, out, _ := newTestRenderer(false, ModeText)

	r.Header(1, "Views")
	r.StatusLine("Orders", "deleted", "")

	s := out.String()
	assert.Contains(t, s, "Views")
	assert.NotContains(t, s, "# Views")
	assert.Contains(t, s, "Orders")
	assert.Contains(t, s, "Deleted")
	assert.NotContains(t, s, "\x1b[", "non-tty output uses the ascii profile")
}

func TestRenderer_Table(t *testing.T) {
	t.Run("markdown", func(t *testing.T) {
		r, out, _ := newTestRenderer(false, ModeMarkdown)
		r.Table([]string{"name", "views"}, [][]string{{"sales", "2"}})
		s := strings.ToLower(out.String())
		assert.Contains(t, s, "| name | views |")
		assert.Contains(t, s, "| sales | 2 |")
	})

	t.Run("text", func(t *testing.T) {
		r, out, _ := newTestRenderer(false, ModeText)
		r.Table([]string{"name"}, [][]string{{"sales"}})
		assert.Contains(t, out.String(), "┌")
		assert.Contains(t, out.String(), "sales")
	})
}

func TestRenderer_JSON(t *testing.T) {
	r, out, _ := newTestRenderer(false, ModeJSON)
	require.NoError(t, r.JSON(map[string]int{"views": 2}))

	var got map[string]int
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, 2, got["views"])
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(0, "Title"))
	assert.Equal(t, "### Title", FormatHeader(3, "Title"))
	assert.Equal(t, "**Port:** 8765", FormatKeyValue("Port", "8765"))
}
