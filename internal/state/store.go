// Package state persists virtualizations and their views in SQLite.
package state

import (
	"context"
	"errors"

	"github.com/leapstack-labs/leapview/pkg/core"
)

// Errors returned by Store implementations.
var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateName = errors.New("name already in use")
	ErrNotOpen       = errors.New("database not opened")
)

// Store is the persistence layer for virtualizations and views.
type Store interface {
	Open(path string) error
	Close() error
	Migrate() error

	CreateVirtualization(ctx context.Context, v *core.Virtualization) error
	GetVirtualization(ctx context.Context, name string) (*core.Virtualization, error)
	ListVirtualizations(ctx context.Context) ([]*core.Virtualization, error)
	DeleteVirtualization(ctx context.Context, name string) error
	ValidateName(ctx context.Context, name string) (string, error)

	SaveView(ctx context.Context, virtualization string, view *core.View) error
	GetView(ctx context.Context, virtualization, name string) (*core.View, error)
	ListViews(ctx context.Context, virtualization string) ([]*core.View, error)
	DeleteView(ctx context.Context, virtualization, name string) error
	RenameView(ctx context.Context, virtualization, oldName, newName string) error
}
