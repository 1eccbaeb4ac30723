package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapview/internal/state"
	"github.com/leapstack-labs/leapview/pkg/core"
)

// Store is the subset of state.Store used by Import.
type Store interface {
	GetVirtualization(ctx context.Context, name string) (*core.Virtualization, error)
	CreateVirtualization(ctx context.Context, v *core.Virtualization) error
	SaveView(ctx context.Context, virtualization string, view *core.View) error
}

// ImportResult counts what an import changed.
type ImportResult struct {
	Created int
	Updated int
	Views   int
}

// Import writes virtualizations into store. New virtualizations are created;
// views of existing ones are upserted by name.
func Import(ctx context.Context, store Store, virtualizations []*core.Virtualization, logger *slog.Logger) (ImportResult, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var res ImportResult
	for _, v := range virtualizations {
		_, err := store.GetVirtualization(ctx, v.ID)
		switch {
		case errors.Is(err, state.ErrNotFound):
			if err := store.CreateVirtualization(ctx, v); err != nil {
				return res, fmt.Errorf("failed to import %s: %w", v.ID, err)
			}
			res.Created++
			logger.Debug("virtualization created", "name", v.ID, "views", len(v.Views))
		case err != nil:
			return res, fmt.Errorf("failed to import %s: %w", v.ID, err)
		default:
			for _, view := range v.Views {
				if err := store.SaveView(ctx, v.ID, view); err != nil {
					return res, fmt.Errorf("failed to import %s/%s: %w", v.ID, view.Name, err)
				}
			}
			res.Updated++
			logger.Debug("virtualization updated", "name", v.ID, "views", len(v.Views))
		}
		res.Views += len(v.Views)
	}
	return res, nil
}

// ImportDir loads every definition under dir and imports it.
func ImportDir(ctx context.Context, store Store, dir string, logger *slog.Logger) (ImportResult, error) {
	defs, err := LoadDir(dir)
	if err != nil {
		return ImportResult{}, err
	}
	return Import(ctx, store, defs, logger)
}
