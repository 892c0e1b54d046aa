package catalog

import (
	"context"
	"fmt"

	"github.com/fastbite/party-service/internal/models"
	"github.com/uptrace/bun"
)

// Repository reads the dish catalog the cart view cross-references.
// Catalog writes happen in the admin back-office, outside this service.
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListDishes(ctx context.Context) ([]models.Dish, error) {
	var dishes []models.Dish
	err := r.db.NewSelect().
		Model(&dishes).
		Where("available = ?", true).
		Order("category", "name").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}
	return dishes, nil
}

// DishesByIDs returns the dishes matching ids. Unknown ids are simply
// absent from the result.
func (r *Repository) DishesByIDs(ctx context.Context, ids []int64) ([]models.Dish, error) {
	if len(ids) == 0 {
		return []models.Dish{}, nil
	}

	var dishes []models.Dish
	err := r.db.NewSelect().
		Model(&dishes).
		Where("id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("dishes by ids: %w", err)
	}
	return dishes, nil
}
