// Package categories provides database operations for book categories.
package categories

import (
	"context"

	"gorm.io/gorm"

	"github.com/MuhammadMouostafa/library-management-system/internal/apperr"
	"github.com/MuhammadMouostafa/library-management-system/internal/database/dberr"
	"github.com/MuhammadMouostafa/library-management-system/internal/entities"
)

// Repository handles all category database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new categories repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateCategory(ctx context.Context, category *entities.Category) error {
	err := r.db.WithContext(ctx).Create(category).Error
	return dberr.Category.Translate(err, "Failed to add category")
}

func (r *Repository) GetCategoryByID(ctx context.Context, id uint) (*entities.Category, error) {
	var category entities.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, dberr.Category.Translate(err, "Failed to fetch category")
	}
	return &category, nil
}

func (r *Repository) UpdateCategory(ctx context.Context, category *entities.Category) error {
	result := r.db.WithContext(ctx).Model(category).
		Select("Name", "Order").
		Updates(category)
	if result.Error != nil {
		return dberr.Category.Translate(result.Error, "Failed to update category")
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("Category")
	}
	return nil
}

func (r *Repository) DeleteCategory(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entities.Category{}, id)
	if result.Error != nil {
		return dberr.Category.TranslateDelete(result.Error, "Failed to delete category")
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("Category")
	}
	return nil
}

// ListCategories returns all categories in display order.
func (r *Repository) ListCategories(ctx context.Context) ([]entities.Category, error) {
	var categories []entities.Category
	err := r.db.WithContext(ctx).Order("sort_order ASC").Order("id ASC").Find(&categories).Error
	if err != nil {
		return nil, dberr.Category.Translate(err, "Failed to fetch categories")
	}
	return categories, nil
}
