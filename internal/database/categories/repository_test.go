package categories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/MuhammadMouostafa/library-management-system/internal/apperr"
	"github.com/MuhammadMouostafa/library-management-system/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Category{})
	require.NoError(t, err)

	return db
}

func TestRepository_Categories(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))

	fiction := &entities.Category{Name: "Fiction", Order: 2}
	history := &entities.Category{Name: "History", Order: 0}
	science := &entities.Category{Name: "Science", Order: 1}
	for _, c := range []*entities.Category{fiction, history, science} {
		require.NoError(t, repo.CreateCategory(ctx, c))
	}

	t.Run("listed by order", func(t *testing.T) {
		categories, err := repo.ListCategories(ctx)
		require.NoError(t, err)
		require.Len(t, categories, 3)
		assert.Equal(t, "History", categories[0].Name)
		assert.Equal(t, "Science", categories[1].Name)
		assert.Equal(t, "Fiction", categories[2].Name)
	})

	t.Run("update writes zero order", func(t *testing.T) {
		fiction.Order = 0
		fiction.Name = "Novels"
		require.NoError(t, repo.UpdateCategory(ctx, fiction))

		found, err := repo.GetCategoryByID(ctx, fiction.ID)
		require.NoError(t, err)
		assert.Equal(t, "Novels", found.Name)
		assert.Equal(t, 0, found.Order)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteCategory(ctx, science.ID))
		_, err := repo.GetCategoryByID(ctx, science.ID)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

		err = repo.DeleteCategory(ctx, science.ID)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}
