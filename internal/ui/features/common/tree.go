package common

import (
	"net/url"
	"sort"

	"github.com/leapstack-labs/leapview/pkg/core"
)

// BuildExplorerTree lists each virtualization with its views as children.
// Paths are the editor URLs of the views.
func BuildExplorerTree(virtualizations []*core.Virtualization) []TreeNode {
	result := make([]TreeNode, 0, len(virtualizations))

	for _, v := range virtualizations {
		node := TreeNode{
			Name:     v.ID,
			Path:     NewViewPath(v.ID),
			Type:     "virtualization",
			Children: make([]TreeNode, 0, len(v.Views)),
		}
		for _, view := range v.Views {
			node.Children = append(node.Children, TreeNode{
				Name: view.Name,
				Path: EditViewPath(v.ID, view.Name),
				Type: "view",
			})
		}
		sort.Slice(node.Children, func(i, j int) bool {
			return node.Children[i].Name < node.Children[j].Name
		})
		result = append(result, node)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// EditViewPath returns the editor page URL for a stored view.
func EditViewPath(virtualization, view string) string {
	return "/virtualizations/" + url.PathEscape(virtualization) + "/views/" + url.PathEscape(view) + "/edit"
}

// NewViewPath returns the editor page URL for a new view.
func NewViewPath(virtualization string) string {
	return "/virtualizations/" + url.PathEscape(virtualization) + "/new"
}

// EditorPath returns the URL of an action on an open editor.
func EditorPath(editorID string, action ...string) string {
	p := "/editor/" + url.PathEscape(editorID)
	for _, a := range action {
		p += "/" + url.PathEscape(a)
	}
	return p
}
