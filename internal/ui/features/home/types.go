// Package home provides the home/landing page feature for the UI.
package home

import "github.com/leapstack-labs/leapview/pkg/core"

// DashboardStats holds stats for the dashboard view.
type DashboardStats struct {
	VirtualizationCount int
	ViewCount           int
	OpenEditors         int
}

// DashboardData is everything the dashboard renders.
type DashboardData struct {
	Stats           DashboardStats
	Virtualizations []*core.Virtualization
}
