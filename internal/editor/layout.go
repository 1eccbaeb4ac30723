package editor

// Layout selects which areas of the editor are displayed.
type Layout string

// Editor layouts.
const (
	LayoutFull        Layout = "view-editor-full"
	LayoutCanvasOnly  Layout = "view-editor-canvas-only"
	LayoutResultsOnly Layout = "view-editor-results-only"
)

// Layouts lists the layouts in toolbar order.
var Layouts = []Layout{LayoutFull, LayoutCanvasOnly, LayoutResultsOnly}

// ShowsCanvas reports whether the canvas and properties areas are visible.
func (l Layout) ShowsCanvas() bool {
	return l == LayoutFull || l == LayoutCanvasOnly
}

// ShowsResults reports whether the preview results area is visible.
func (l Layout) ShowsResults() bool {
	return l == LayoutFull || l == LayoutResultsOnly
}

// Next returns the layout following l in toolbar order, wrapping around.
func (l Layout) Next() Layout {
	for i, known := range Layouts {
		if known == l {
			return Layouts[(i+1)%len(Layouts)]
		}
	}
	return LayoutFull
}
