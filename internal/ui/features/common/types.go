// Package common provides shared types and utilities for UI features.
package common

// TreeNode represents a node in the explorer tree.
type TreeNode struct {
	Name     string
	Path     string
	Type     string // "virtualization" or "view"
	Children []TreeNode
}
