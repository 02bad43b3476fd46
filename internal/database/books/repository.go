// Package books provides database operations for the book catalogue.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.GetBookByID(ctx, 123)
package books

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MuhammadMouostafa/library-management-system/internal/apperr"
	"github.com/MuhammadMouostafa/library-management-system/internal/database/dberr"
	"github.com/MuhammadMouostafa/library-management-system/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateBook inserts a new book. A duplicate ISBN is reported as a conflict
// on the isbn field.
func (r *Repository) CreateBook(ctx context.Context, book *entities.Book) error {
	err := r.db.WithContext(ctx).Create(book).Error
	return dberr.Book.Translate(err, "Failed to add book")
}

// GetBookByID retrieves a book by its ID.
func (r *Repository) GetBookByID(ctx context.Context, id uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.WithContext(ctx).First(&book, id).Error; err != nil {
		return nil, dberr.Book.Translate(err, "Failed to fetch book")
	}
	return &book, nil
}

// GetBookForUpdate retrieves a book and, on PostgreSQL, locks its row until
// the surrounding transaction ends. SQLite has no row locks; its connection
// pool is limited to one connection so transactions already serialise.
func (r *Repository) GetBookForUpdate(ctx context.Context, id uint) (*entities.Book, error) {
	q := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var book entities.Book
	if err := q.First(&book, id).Error; err != nil {
		return nil, dberr.Book.Translate(err, "Failed to fetch book")
	}
	return &book, nil
}

// UpdateBook writes every editable column of book, including zero values.
func (r *Repository) UpdateBook(ctx context.Context, book *entities.Book) error {
	result := r.db.WithContext(ctx).Model(book).
		Select("Title", "Author", "ISBN", "Quantity", "ShelfLocation").
		Updates(book)
	if result.Error != nil {
		return dberr.Book.Translate(result.Error, "Failed to update book")
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("Book")
	}
	return nil
}

// DeleteBook removes a book that no borrow references.
func (r *Repository) DeleteBook(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)

	var references int64
	if err := db.Model(&entities.Borrow{}).Where("book_id = ?", id).Count(&references).Error; err != nil {
		return dberr.Book.Translate(err, "Failed to delete book")
	}
	if references > 0 {
		return apperr.StillReferenced("Book", "bookId", nil)
	}

	result := db.Delete(&entities.Book{}, id)
	if result.Error != nil {
		return dberr.Book.TranslateDelete(result.Error, "Failed to delete book")
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("Book")
	}
	return nil
}

// ListBooks returns one page of books ordered by title, plus the total count.
func (r *Repository) ListBooks(ctx context.Context, offset, limit int) ([]entities.Book, int64, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Model(&entities.Book{}).Count(&total).Error; err != nil {
		return nil, 0, dberr.Book.Translate(err, "Failed to fetch books")
	}

	var books []entities.Book
	err := db.Order("title ASC").Order("id ASC").Offset(offset).Limit(limit).Find(&books).Error
	if err != nil {
		return nil, 0, dberr.Book.Translate(err, "Failed to fetch books")
	}
	return books, total, nil
}

// SearchBooks matches query against title, author and ISBN
// (case-insensitive substring match).
func (r *Repository) SearchBooks(ctx context.Context, query string) ([]entities.Book, error) {
	var books []entities.Book
	pattern := "%" + escapeLike(query) + "%"
	err := r.db.WithContext(ctx).
		Where(`LOWER(title) LIKE LOWER(?) ESCAPE '\' OR LOWER(author) LIKE LOWER(?) ESCAPE '\' OR LOWER(isbn) LIKE LOWER(?) ESCAPE '\'`,
			pattern, pattern, pattern).
		Order("title ASC").Order("id ASC").
		Find(&books).Error
	if err != nil {
		return nil, dberr.Book.Translate(err, "Failed to search books")
	}
	return books, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in user input match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
