// Package main provides the LeapView CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/leapview/internal/cli"

	_ "github.com/leapstack-labs/leapview/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/leapview/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/leapview/pkg/adapters/sqlite"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
