package vieweditor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/leapstack-labs/leapview/internal/editor"
	"github.com/leapstack-labs/leapview/internal/ui/features/common"
)

// ShellID is the element id patched on every editor update.
const ShellID = "editor-shell"

// EditorPage is the page body: the initial signals plus the shell.
func EditorPage(d EditorData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		signals, err := json.Marshal(SignalsOf(d))
		if err != nil {
			return err
		}
		if err := common.Write(w, `<div id="editor" data-signals="`, templ.EscapeString(string(signals)), `">`); err != nil {
			return err
		}
		if err := EditorShell(d).Render(ctx, w); err != nil {
			return err
		}
		return common.Write(w, "</div>")
	})
}

// EditorShell renders the toolbar and every visible part.
func EditorShell(d EditorData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := common.Write(w, `<div id="`, ShellID, `" data-layout="`, string(d.Layout), `">`); err != nil {
			return err
		}
		sections := []templ.Component{toolbar(d), header(d)}
		if d.ShowCanvas {
			sections = append(sections, canvas(d))
		}
		if d.ShowResults {
			sections = append(sections, preview(d))
		}
		sections = append(sections, messageLog(d), status(d.Status))
		for _, c := range sections {
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		return common.Write(w, "</div>")
	})
}

func post(id string, action ...string) string {
	return fmt.Sprintf("@post('%s')", common.EditorPath(id, action...))
}

func del(id string, action ...string) string {
	return fmt.Sprintf("@delete('%s')", common.EditorPath(id, action...))
}

func disabled(b bool) string {
	if b {
		return " disabled"
	}
	return ""
}

func toolbar(d EditorData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if err := common.Write(w,
			`<div class="toolbar">`,
			`<span class="badge badge--error" title="Errors">`, common.Itoa(d.Errors), `</span>`,
			`<span class="badge badge--warning" title="Warnings">`, common.Itoa(d.Warnings), `</span>`,
			`<span class="badge badge--info" title="Info">`, common.Itoa(d.Infos), `</span>`,
		); err != nil {
			return err
		}
		for _, l := range editor.Layouts {
			if err := common.Write(w,
				`<button aria-pressed="`, strconv.FormatBool(l == d.Layout), `" data-on:click="`, post(d.ID, "layout", string(l)), `">`,
				common.LayoutLabel(l), `</button>`,
			); err != nil {
				return err
			}
		}
		return common.Write(w,
			`<button id="preview-button" data-on:click="`, post(d.ID, "preview"), `">Preview</button>`,
			`<button id="save-button" data-on:click="`, post(d.ID, "save"), `"`, disabled(!d.CanSave), `>Save</button>`,
			`</div>`,
		)
	})
}

func header(d EditorData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		ro := disabled(d.ReadOnly)
		return common.Write(w,
			`<section id="header-part" class="header-part">`,
			`<div class="virtualization">`, templ.EscapeString(d.Virtualization), `</div>`,
			`<label>Name <input name="name" value="`, templ.EscapeString(d.Name), `" data-bind:name data-on:change="`, post(d.ID, "name"), `"`, ro, `></label>`,
			`<label>Description <input name="description" value="`, templ.EscapeString(d.Description), `" data-bind:description data-on:change="`, post(d.ID, "description"), `"`, ro, `></label>`,
			`<label><input type="checkbox" name="readonly" data-bind:readonly data-on:change="`, post(d.ID, "readonly"), `"`, checked(d.ReadOnly), `> Read only</label>`,
			`</section>`,
		)
	})
}

func checked(b bool) string {
	if b {
		return " checked"
	}
	return ""
}

func focused(base string, b bool) string {
	if b {
		return base + " part--focused"
	}
	return base
}

func canvas(d EditorData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if err := common.Write(w, `<section id="canvas-part" class="`, focused("canvas-part", d.CanvasFocused), `"><h3>Sources</h3><ul>`); err != nil {
			return err
		}
		for i, src := range d.Sources {
			if err := common.Write(w, `<li>`, templ.EscapeString(src.String())); err != nil {
				return err
			}
			if !d.ReadOnly {
				if err := common.Write(w, ` <button data-on:click="`, del(d.ID, "sources", strconv.Itoa(i)), `">Remove</button>`); err != nil {
					return err
				}
			}
			if err := common.Write(w, `</li>`); err != nil {
				return err
			}
		}
		if err := common.Write(w, `</ul>`); err != nil {
			return err
		}
		if !d.ReadOnly {
			if err := common.Write(w,
				`<input name="source" placeholder="connection:schema.table" data-bind:source>`,
				`<button data-on:click="`, post(d.ID, "sources"), `">Add source</button>`,
			); err != nil {
				return err
			}
		}
		return common.Write(w, `</section>`)
	})
}

func preview(d EditorData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if err := common.Write(w, `<section id="preview-part" class="`, focused("preview-part", d.PreviewFocused), `"><h3>Results</h3>`); err != nil {
			return err
		}
		if d.Results == nil {
			return common.Write(w, `<p>No results.</p></section>`)
		}
		if err := common.Write(w, `<table><thead><tr>`); err != nil {
			return err
		}
		for _, c := range d.Results.Columns {
			if err := common.Write(w, `<th title="`, templ.EscapeString(c.Type), `">`, templ.EscapeString(c.Label), `</th>`); err != nil {
				return err
			}
		}
		if err := common.Write(w, `</tr></thead><tbody>`); err != nil {
			return err
		}
		for _, row := range d.Results.Rows {
			if err := common.Write(w, `<tr>`); err != nil {
				return err
			}
			for _, v := range row {
				if err := common.Write(w, `<td>`, templ.EscapeString(cell(v)), `</td>`); err != nil {
					return err
				}
			}
			if err := common.Write(w, `</tr>`); err != nil {
				return err
			}
		}
		return common.Write(w, `</tbody></table><p>`, common.Itoa(d.Results.RowCount()), ` row(s)</p></section>`)
	})
}

func cell(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprint(v)
}

func messageLog(d EditorData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if err := common.Write(w,
			`<section id="messagelog-part" class="messagelog-part"><h3>Messages</h3>`,
			`<button data-on:click="`, post(d.ID, "messages", "clear"), `"`, disabled(len(d.Messages) == 0), `>Clear</button><ul>`,
		); err != nil {
			return err
		}
		for _, m := range d.Messages {
			if err := common.Write(w,
				`<li class="`, common.MessageClass(m.Type), `" data-id="`, templ.EscapeString(m.ID), `">`,
				`<strong>`, templ.EscapeString(m.ID), `</strong> `, templ.EscapeString(m.Description),
			); err != nil {
				return err
			}
			if m.Context != "" {
				if err := common.Write(w, ` <em>`, templ.EscapeString(m.Context), `</em>`); err != nil {
					return err
				}
			}
			if err := common.Write(w, ` <button data-on:click="`, del(d.ID, "messages", m.ID), `">Dismiss</button></li>`); err != nil {
				return err
			}
		}
		return common.Write(w, `</ul></section>`)
	})
}

func status(text string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return common.Write(w, `<div id="editor-status" class="status">`, templ.EscapeString(text), `</div>`)
	})
}
