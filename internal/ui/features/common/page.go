package common

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/leapstack-labs/leapview/internal/ui/resources"
)

// DatastarScript is the client runtime loaded by every page.
const DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

// Page renders a full HTML document around body. The page stream at
// updatesPath is opened on load; an empty path opens none.
func Page(title, updatesPath string, explorer []TreeNode, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := Write(w,
			"<!doctype html>\n<html lang=\"en\"><head><meta charset=\"utf-8\">",
			"<title>", templ.EscapeString(title), " - LeapView</title>",
			`<link rel="stylesheet" href="`, resources.StaticPath("leapview.css"), `">`,
			`<script type="module" src="`, DatastarScript, `"></script>`,
			"</head><body>",
		); err != nil {
			return err
		}
		if updatesPath != "" {
			if err := Write(w, `<div data-init="@get('`, templ.EscapeString(updatesPath), `')"></div>`); err != nil {
				return err
			}
		}
		if err := Write(w, `<div class="ui-app">`); err != nil {
			return err
		}
		if err := Explorer(explorer).Render(ctx, w); err != nil {
			return err
		}
		if err := Write(w, `<main class="ui-content">`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		return Write(w, "</main></div></body></html>")
	})
}

// Explorer renders the virtualization tree sidebar.
func Explorer(tree []TreeNode) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if err := Write(w, `<nav id="explorer" class="ui-explorer"><a href="/">Virtualizations</a><ul>`); err != nil {
			return err
		}
		for _, node := range tree {
			if err := Write(w,
				`<li class="tree-`, node.Type, `"><a href="`, templ.EscapeString(node.Path), `" title="New view">`,
				templ.EscapeString(node.Name), "</a> ", LenStr(node.Children), "<ul>",
			); err != nil {
				return err
			}
			for _, child := range node.Children {
				if err := Write(w,
					`<li class="tree-`, child.Type, `"><a href="`, templ.EscapeString(child.Path), `">`,
					templ.EscapeString(child.Name), "</a></li>",
				); err != nil {
					return err
				}
			}
			if err := Write(w, "</ul></li>"); err != nil {
				return err
			}
		}
		return Write(w, "</ul></nav>")
	})
}

// Write writes each string to w in order, stopping at the first error.
func Write(w io.Writer, parts ...string) error {
	for _, p := range parts {
		if _, err := io.WriteString(w, p); err != nil {
			return err
		}
	}
	return nil
}
