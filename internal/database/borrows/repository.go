// Package borrows provides database operations for loans: creating and
// closing borrow records, counting active borrows and building the
// denormalised borrow reports.
package borrows

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MuhammadMouostafa/library-management-system/internal/database/dberr"
	"github.com/MuhammadMouostafa/library-management-system/internal/entities"
)

// Repository handles all borrow database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new borrows repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateBorrow inserts a borrow without touching its associations.
func (r *Repository) CreateBorrow(ctx context.Context, borrow *entities.Borrow) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(borrow).Error
	return dberr.Borrow.Translate(err, "Failed to borrow book")
}

func (r *Repository) GetBorrowByID(ctx context.Context, id uint) (*entities.Borrow, error) {
	var borrow entities.Borrow
	if err := r.db.WithContext(ctx).First(&borrow, id).Error; err != nil {
		return nil, dberr.Borrow.Translate(err, "Failed to fetch borrow")
	}
	return &borrow, nil
}

// MarkReturned sets the return date of an active borrow. It reports false
// when the borrow was already returned (or does not exist), in which case
// nothing is written.
func (r *Repository) MarkReturned(ctx context.Context, id uint, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entities.Borrow{}).
		Where("id = ? AND return_date IS NULL", id).
		Update("return_date", at)
	if result.Error != nil {
		return false, dberr.Borrow.Translate(result.Error, "Failed to return book")
	}
	return result.RowsAffected == 1, nil
}

// CountActiveBorrows counts the copies of a book that are currently out.
func (r *Repository) CountActiveBorrows(ctx context.Context, bookID uint) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Borrow{}).
		Where("book_id = ? AND return_date IS NULL", bookID).
		Count(&count).Error
	if err != nil {
		return 0, dberr.Borrow.Translate(err, "Failed to count active borrows")
	}
	return int(count), nil
}

// CountActiveBorrowsByBook counts active borrows for many books with a
// single grouped query. Books without active borrows are absent from the
// result. With no IDs, every book is counted.
func (r *Repository) CountActiveBorrowsByBook(ctx context.Context, bookIDs ...uint) (map[uint]int, error) {
	var rows []struct {
		BookID uint
		Active int
	}
	q := r.db.WithContext(ctx).Model(&entities.Borrow{}).
		Select("book_id, COUNT(id) AS active").
		Where("return_date IS NULL")
	if len(bookIDs) > 0 {
		q = q.Where("book_id IN ?", bookIDs)
	}
	if err := q.Group("book_id").Scan(&rows).Error; err != nil {
		return nil, dberr.Borrow.Translate(err, "Failed to count active borrows")
	}

	counts := make(map[uint]int, len(rows))
	for _, row := range rows {
		counts[row.BookID] = row.Active
	}
	return counts, nil
}

// ListActiveBorrowsForBorrower returns the borrower's open loans with the
// borrowed books attached, most recent first.
func (r *Repository) ListActiveBorrowsForBorrower(ctx context.Context, borrowerID uint) ([]entities.Borrow, error) {
	var borrows []entities.Borrow
	err := r.db.WithContext(ctx).Preload("Book").
		Where("borrower_id = ? AND return_date IS NULL", borrowerID).
		Order("borrow_date DESC").Order("id DESC").
		Find(&borrows).Error
	if err != nil {
		return nil, dberr.Borrow.Translate(err, "Failed to fetch borrowed books")
	}
	return borrows, nil
}

type recordRow struct {
	ID           uint
	BorrowerID   uint
	BorrowerName string
	BookID       uint
	BookTitle    string
	BorrowDate   time.Time
	DueDate      time.Time
	ReturnDate   *time.Time
}

const recordColumns = "borrows.id, borrows.borrower_id, borrowers.name AS borrower_name, " +
	"borrows.book_id, books.title AS book_title, borrows.borrow_date, borrows.due_date, borrows.return_date"

func (r *Repository) records(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("borrows").
		Joins("JOIN borrowers ON borrowers.id = borrows.borrower_id").
		Joins("JOIN books ON books.id = borrows.book_id")
}

func applyFilter(q *gorm.DB, f entities.BorrowFilter) *gorm.DB {
	switch f.State {
	case entities.BorrowStateActive:
		q = q.Where("borrows.return_date IS NULL")
	case entities.BorrowStateOverdue:
		q = q.Where("borrows.return_date IS NULL AND borrows.due_date < ?", f.Now)
	case entities.BorrowStateReturned:
		q = q.Where("borrows.return_date IS NOT NULL")
	}
	if f.From != nil {
		q = q.Where("borrows.borrow_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("borrows.borrow_date <= ?", *f.To)
	}
	if f.BorrowerID != 0 {
		q = q.Where("borrows.borrower_id = ?", f.BorrowerID)
	}
	return q
}

// ListBorrowRecords returns the flattened borrows matching f, newest first.
// A negative limit returns every match.
func (r *Repository) ListBorrowRecords(ctx context.Context, f entities.BorrowFilter, offset, limit int) ([]entities.BorrowRecord, int64, error) {
	var total int64
	if err := applyFilter(r.records(ctx), f).Count(&total).Error; err != nil {
		return nil, 0, dberr.Borrow.Translate(err, "Failed to fetch borrows")
	}

	q := applyFilter(r.records(ctx), f).Select(recordColumns).
		Order("borrows.borrow_date DESC").Order("borrows.id DESC")
	if limit >= 0 {
		q = q.Offset(offset).Limit(limit)
	}
	var rows []recordRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, 0, dberr.Borrow.Translate(err, "Failed to fetch borrows")
	}

	records := make([]entities.BorrowRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, toRecord(row, f.Now))
	}
	return records, total, nil
}

// GetBorrowRecord returns the flattened view of one borrow.
func (r *Repository) GetBorrowRecord(ctx context.Context, id uint, now time.Time) (*entities.BorrowRecord, error) {
	var rows []recordRow
	err := r.records(ctx).Select(recordColumns).Where("borrows.id = ?", id).Limit(1).Scan(&rows).Error
	if err != nil {
		return nil, dberr.Borrow.Translate(err, "Failed to fetch borrow")
	}
	if len(rows) == 0 {
		return nil, dberr.Borrow.Translate(gorm.ErrRecordNotFound, "")
	}
	record := toRecord(rows[0], now)
	return &record, nil
}

func toRecord(row recordRow, now time.Time) entities.BorrowRecord {
	b := entities.Borrow{DueDate: row.DueDate, ReturnDate: row.ReturnDate}
	return entities.BorrowRecord{
		ID:           row.ID,
		BorrowerID:   row.BorrowerID,
		BorrowerName: row.BorrowerName,
		BookID:       row.BookID,
		BookTitle:    row.BookTitle,
		BorrowDate:   row.BorrowDate,
		DueDate:      row.DueDate,
		ReturnDate:   row.ReturnDate,
		State:        b.State(now),
	}
}
