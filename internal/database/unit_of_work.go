package database

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/MuhammadMouostafa/library-management-system/internal/database/books"
	"github.com/MuhammadMouostafa/library-management-system/internal/database/borrowers"
	"github.com/MuhammadMouostafa/library-management-system/internal/database/borrows"
	"github.com/MuhammadMouostafa/library-management-system/internal/entities"
	"github.com/MuhammadMouostafa/library-management-system/internal/services"
)

// UnitOfWork runs lending operations in a GORM transaction.
type UnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(store services.LendingStore) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newLendingTx(tx))
	})
}

// lendingTx binds the repositories involved in lending to one transaction.
type lendingTx struct {
	books     *books.Repository
	borrowers *borrowers.Repository
	borrows   *borrows.Repository
}

func newLendingTx(tx *gorm.DB) *lendingTx {
	return &lendingTx{
		books:     books.NewRepository(tx),
		borrowers: borrowers.NewRepository(tx),
		borrows:   borrows.NewRepository(tx),
	}
}

func (t *lendingTx) GetBookForUpdate(ctx context.Context, id uint) (*entities.Book, error) {
	return t.books.GetBookForUpdate(ctx, id)
}

func (t *lendingTx) UpdateBook(ctx context.Context, book *entities.Book) error {
	return t.books.UpdateBook(ctx, book)
}

func (t *lendingTx) GetBorrowerByID(ctx context.Context, id uint) (*entities.Borrower, error) {
	return t.borrowers.GetBorrowerByID(ctx, id)
}

func (t *lendingTx) CountActiveBorrows(ctx context.Context, bookID uint) (int, error) {
	return t.borrows.CountActiveBorrows(ctx, bookID)
}

func (t *lendingTx) CreateBorrow(ctx context.Context, borrow *entities.Borrow) error {
	return t.borrows.CreateBorrow(ctx, borrow)
}

func (t *lendingTx) GetBorrowByID(ctx context.Context, id uint) (*entities.Borrow, error) {
	return t.borrows.GetBorrowByID(ctx, id)
}

func (t *lendingTx) MarkReturned(ctx context.Context, id uint, at time.Time) (bool, error) {
	return t.borrows.MarkReturned(ctx, id, at)
}
