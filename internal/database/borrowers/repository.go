// Package borrowers provides database operations for library members.
package borrowers

import (
	"context"

	"gorm.io/gorm"

	"github.com/MuhammadMouostafa/library-management-system/internal/apperr"
	"github.com/MuhammadMouostafa/library-management-system/internal/database/dberr"
	"github.com/MuhammadMouostafa/library-management-system/internal/entities"
)

// Repository handles all borrower database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new borrowers repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateBorrower inserts a borrower. A duplicate email is reported as a
// conflict on the email field.
func (r *Repository) CreateBorrower(ctx context.Context, borrower *entities.Borrower) error {
	err := r.db.WithContext(ctx).Create(borrower).Error
	return dberr.Borrower.Translate(err, "Failed to add borrower")
}

func (r *Repository) GetBorrowerByID(ctx context.Context, id uint) (*entities.Borrower, error) {
	var borrower entities.Borrower
	if err := r.db.WithContext(ctx).First(&borrower, id).Error; err != nil {
		return nil, dberr.Borrower.Translate(err, "Failed to fetch borrower")
	}
	return &borrower, nil
}

func (r *Repository) UpdateBorrower(ctx context.Context, borrower *entities.Borrower) error {
	result := r.db.WithContext(ctx).Model(borrower).
		Select("Name", "Email").
		Updates(borrower)
	if result.Error != nil {
		return dberr.Borrower.Translate(result.Error, "Failed to update borrower")
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("Borrower")
	}
	return nil
}

// DeleteBorrower removes a borrower with no borrow history.
func (r *Repository) DeleteBorrower(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)

	var references int64
	if err := db.Model(&entities.Borrow{}).Where("borrower_id = ?", id).Count(&references).Error; err != nil {
		return dberr.Borrower.Translate(err, "Failed to delete borrower")
	}
	if references > 0 {
		return apperr.StillReferenced("Borrower", "borrowerId", nil)
	}

	result := db.Delete(&entities.Borrower{}, id)
	if result.Error != nil {
		return dberr.Borrower.TranslateDelete(result.Error, "Failed to delete borrower")
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("Borrower")
	}
	return nil
}

// ListBorrowers returns one page of borrowers ordered by name.
func (r *Repository) ListBorrowers(ctx context.Context, offset, limit int) ([]entities.Borrower, int64, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Model(&entities.Borrower{}).Count(&total).Error; err != nil {
		return nil, 0, dberr.Borrower.Translate(err, "Failed to fetch borrowers")
	}

	var borrowers []entities.Borrower
	err := db.Order("name ASC").Order("id ASC").Offset(offset).Limit(limit).Find(&borrowers).Error
	if err != nil {
		return nil, 0, dberr.Borrower.Translate(err, "Failed to fetch borrowers")
	}
	return borrowers, total, nil
}
