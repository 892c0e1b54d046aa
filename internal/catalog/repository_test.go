package catalog

import (
	"context"
	"testing"

	"github.com/fastbite/party-service/internal/database"
	"github.com/fastbite/party-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func setupTestRepo(t *testing.T) (*Repository, *bun.DB) {
	db, err := database.Connect("sqlite://:memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(context.Background(), db))
	return NewRepository(db), db
}

func seedDishes(t *testing.T, db *bun.DB) {
	t.Helper()
	dishes := []models.Dish{
		{Name: "Margherita", Description: "Tomato and mozzarella", Price: 9.5, Category: "pizza", Available: true},
		{Name: "Carbonara", Description: "Egg and guanciale", Price: 11.0, Category: "pasta", Available: true},
		{Name: "Tiramisu", Description: "Off the menu today", Price: 6.0, Category: "dessert", Available: false},
	}
	_, err := db.NewInsert().Model(&dishes).Exec(context.Background())
	require.NoError(t, err)
}

func TestListDishes_OnlyAvailable(t *testing.T) {
	repo, db := setupTestRepo(t)
	seedDishes(t, db)

	dishes, err := repo.ListDishes(context.Background())
	require.NoError(t, err)

	require.Len(t, dishes, 2)
	for _, d := range dishes {
		assert.True(t, d.Available)
	}
}

func TestListDishes_EmptyCatalog(t *testing.T) {
	repo, _ := setupTestRepo(t)

	dishes, err := repo.ListDishes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, dishes)
}

func TestDishesByIDs(t *testing.T) {
	repo, db := setupTestRepo(t)
	seedDishes(t, db)

	all, err := repo.ListDishes(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, all)

	got, err := repo.DishesByIDs(context.Background(), []int64{all[0].ID, 9999})
	require.NoError(t, err)

	// Unknown ids are simply absent.
	require.Len(t, got, 1)
	assert.Equal(t, all[0].Name, got[0].Name)
}

func TestDishesByIDs_EmptyInput(t *testing.T) {
	repo, _ := setupTestRepo(t)

	got, err := repo.DishesByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
