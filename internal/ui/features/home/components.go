package home

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/leapstack-labs/leapview/internal/ui/features/common"
)

// Dashboard renders the stats and the virtualization list.
func Dashboard(data DashboardData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		s := data.Stats
		if err := common.Write(w,
			`<div id="dashboard"><h1>Virtualizations</h1><p class="stats">`,
			common.Itoa(s.VirtualizationCount), ` virtualization(s), `,
			common.Itoa(s.ViewCount), ` view(s), `,
			common.Itoa(s.OpenEditors), ` open editor(s)</p>`,
		); err != nil {
			return err
		}
		if len(data.Virtualizations) == 0 {
			return common.Write(w, `<p>No virtualizations yet. Create one with <code>leapview virtualization create</code>.</p></div>`)
		}
		for _, v := range data.Virtualizations {
			if err := common.Write(w,
				`<section class="virtualization"><h2>`, templ.EscapeString(v.ID), `</h2>`,
				`<p>`, templ.EscapeString(v.Description), `</p>`,
				`<a href="`, templ.EscapeString(common.NewViewPath(v.ID)), `">New view</a><ul>`,
			); err != nil {
				return err
			}
			for _, view := range v.Views {
				if err := common.Write(w,
					`<li><a href="`, templ.EscapeString(common.EditViewPath(v.ID, view.Name)), `">`,
					templ.EscapeString(view.Name), `</a> `, templ.EscapeString(view.Description), `</li>`,
				); err != nil {
					return err
				}
			}
			if err := common.Write(w, `</ul></section>`); err != nil {
				return err
			}
		}
		return common.Write(w, `</div>`)
	})
}
