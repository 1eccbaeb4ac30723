package common

import (
	"strconv"

	"github.com/leapstack-labs/leapview/internal/editor"
	"github.com/leapstack-labs/leapview/internal/editor/message"
)

// Itoa formats an integer for rendering.
func Itoa(n int) string {
	return strconv.Itoa(n)
}

// LenStr returns the length of a TreeNode slice as a formatted string like "(5)".
func LenStr(nodes []TreeNode) string {
	return "(" + Itoa(len(nodes)) + ")"
}

// LayoutLabel returns the toolbar label of a layout.
func LayoutLabel(l editor.Layout) string {
	switch l {
	case editor.LayoutFull:
		return "Canvas + Results"
	case editor.LayoutCanvasOnly:
		return "Canvas"
	case editor.LayoutResultsOnly:
		return "Results"
	default:
		return string(l)
	}
}

// MessageClass returns the CSS modifier for a message severity.
func MessageClass(t message.Type) string {
	switch t {
	case message.TypeError:
		return "msg--error"
	case message.TypeWarning:
		return "msg--warning"
	default:
		return "msg--info"
	}
}
