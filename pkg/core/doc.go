// Package core defines the shared language of leapview.
//
// This package contains:
//   - Domain entities (View, Virtualization, SourceRef, QueryResults)
//   - Connection configuration (AdapterConfig)
//
// The Golden Rule: pkg/core imports ONLY the standard library.
// All other packages depend on core, not the reverse.
package core
