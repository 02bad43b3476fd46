package services

import (
	"context"
	"time"

	"github.com/MuhammadMouostafa/library-management-system/internal/entities"
)

// BookStore provides book persistence.
type BookStore interface {
	CreateBook(ctx context.Context, book *entities.Book) error
	GetBookByID(ctx context.Context, id uint) (*entities.Book, error)
	DeleteBook(ctx context.Context, id uint) error
	ListBooks(ctx context.Context, offset, limit int) ([]entities.Book, int64, error)
	SearchBooks(ctx context.Context, query string) ([]entities.Book, error)
}

// BorrowerStore provides borrower persistence.
type BorrowerStore interface {
	CreateBorrower(ctx context.Context, borrower *entities.Borrower) error
	GetBorrowerByID(ctx context.Context, id uint) (*entities.Borrower, error)
	UpdateBorrower(ctx context.Context, borrower *entities.Borrower) error
	DeleteBorrower(ctx context.Context, id uint) error
	ListBorrowers(ctx context.Context, offset, limit int) ([]entities.Borrower, int64, error)
}

// CategoryStore provides category persistence.
type CategoryStore interface {
	CreateCategory(ctx context.Context, category *entities.Category) error
	GetCategoryByID(ctx context.Context, id uint) (*entities.Category, error)
	UpdateCategory(ctx context.Context, category *entities.Category) error
	DeleteCategory(ctx context.Context, id uint) error
	ListCategories(ctx context.Context) ([]entities.Category, error)
}

// BorrowReader provides read-only access to borrows.
type BorrowReader interface {
	CountActiveBorrows(ctx context.Context, bookID uint) (int, error)
	CountActiveBorrowsByBook(ctx context.Context, bookIDs ...uint) (map[uint]int, error)
	ListBorrowRecords(ctx context.Context, filter entities.BorrowFilter, offset, limit int) ([]entities.BorrowRecord, int64, error)
	GetBorrowRecord(ctx context.Context, id uint, now time.Time) (*entities.BorrowRecord, error)
	ListActiveBorrowsForBorrower(ctx context.Context, borrowerID uint) ([]entities.Borrow, error)
}

// LendingStore is the set of operations available inside a lending
// transaction. Everything read through it is consistent with what is
// written through it.
type LendingStore interface {
	GetBookForUpdate(ctx context.Context, id uint) (*entities.Book, error)
	UpdateBook(ctx context.Context, book *entities.Book) error
	GetBorrowerByID(ctx context.Context, id uint) (*entities.Borrower, error)
	CountActiveBorrows(ctx context.Context, bookID uint) (int, error)
	CreateBorrow(ctx context.Context, borrow *entities.Borrow) error
	GetBorrowByID(ctx context.Context, id uint) (*entities.Borrow, error)
	MarkReturned(ctx context.Context, id uint, at time.Time) (bool, error)
}

// UnitOfWork runs fn in a single transaction. The transaction commits when
// fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(store LendingStore) error) error
}

// Auditor records completed operations. Failures are the auditor's concern
// and never fail the operation.
type Auditor interface {
	LogBorrow(ctx context.Context, borrow *entities.Borrow)
	LogReturn(ctx context.Context, borrow *entities.Borrow, overdue bool)
	LogCreate(ctx context.Context, entityType string, entityID uint)
	LogUpdate(ctx context.Context, entityType string, entityID uint)
	LogDelete(ctx context.Context, entityType string, entityID uint)
}

// LendingMetrics receives lifecycle signals.
type LendingMetrics interface {
	BorrowCreated()
	BorrowRejected(code string)
	BookReturned(overdue bool)
	AvailabilityInvariantViolated()
}

// Clock returns the current instant.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}

type nopAuditor struct{}

func (nopAuditor) LogBorrow(context.Context, *entities.Borrow)       {}
func (nopAuditor) LogReturn(context.Context, *entities.Borrow, bool) {}
func (nopAuditor) LogCreate(context.Context, string, uint)           {}
func (nopAuditor) LogUpdate(context.Context, string, uint)           {}
func (nopAuditor) LogDelete(context.Context, string, uint)           {}

type nopMetrics struct{}

func (nopMetrics) BorrowCreated()                 {}
func (nopMetrics) BorrowRejected(string)          {}
func (nopMetrics) BookReturned(bool)              {}
func (nopMetrics) AvailabilityInvariantViolated() {}
