package app

import (
	"context"
	"fmt"

	"github.com/glabrego/lumen-cli/internal/lumen"
)

// Categories returns the active categories. An empty store is seeded with
// the built-in catalog; a failing store degrades to the catalog.
func (s *Service) Categories(ctx context.Context) ([]lumen.Category, error) {
	categories, err := s.repo.ListActiveCategories(ctx)
	if err != nil {
		s.logger.Warn("load categories, using built-in catalog", "err", err)
		return lumen.DefaultCategories(), nil
	}
	if len(categories) > 0 {
		return categories, nil
	}

	defaults := lumen.DefaultCategories()
	if err := s.repo.SeedCategories(ctx, defaults); err != nil {
		s.logger.Warn("seed categories", "err", err)
	}
	return defaults, nil
}

// SeedCategories writes the built-in catalog, restoring names, order and
// active flags.
func (s *Service) SeedCategories(ctx context.Context) error {
	if err := s.repo.SeedCategories(ctx, lumen.DefaultCategories()); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	return nil
}
