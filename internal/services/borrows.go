package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/MuhammadMouostafa/library-management-system/internal/apperr"
	"github.com/MuhammadMouostafa/library-management-system/internal/entities"
)

// LendingService moves borrows through none -> active -> returned.
type LendingService struct {
	uow     UnitOfWork
	clock   Clock
	log     *zap.Logger
	auditor Auditor
	metrics LendingMetrics
}

func NewLendingService(uow UnitOfWork, opts Options) *LendingService {
	opts = opts.withDefaults()
	return &LendingService{
		uow:     uow,
		clock:   opts.Clock,
		log:     opts.Logger,
		auditor: opts.Auditor,
		metrics: opts.Metrics,
	}
}

// Borrow lends one copy of a book. Checks run in order and the first
// failure wins: request shape, due date format, due date not in the past,
// book exists, a copy is available, borrower exists. The availability check
// and the insert share a transaction.
func (s *LendingService) Borrow(ctx context.Context, in BorrowInput) (*entities.Borrow, error) {
	borrow, err := s.borrow(ctx, in)
	if err != nil {
		s.metrics.BorrowRejected(rejectionCode(err))
		return nil, err
	}

	s.metrics.BorrowCreated()
	s.log.Info("Book borrowed",
		zap.Uint("borrow_id", borrow.ID),
		zap.Uint("book_id", borrow.BookID),
		zap.Uint("borrower_id", borrow.BorrowerID),
		zap.Time("due_date", borrow.DueDate))
	s.auditor.LogBorrow(ctx, borrow)
	return borrow, nil
}

func (s *LendingService) borrow(ctx context.Context, in BorrowInput) (*entities.Borrow, error) {
	borrowerID, bookID, err := in.validate()
	if err != nil {
		return nil, err
	}

	dueDate, ok := parseDueDateValue(in.DueDate)
	if !ok {
		return nil, apperr.Validation(apperr.FieldError{
			Field: "dueDate", Message: "Invalid due date", Code: apperr.CodeInvalidDate,
		})
	}
	now := s.clock().UTC()
	if dueDate.Before(now) {
		return nil, apperr.BusinessRule(apperr.CodeDateInPast, "dueDate", "Due date cannot be in the past")
	}

	var borrow *entities.Borrow
	err = s.uow.Do(ctx, func(store LendingStore) error {
		book, err := store.GetBookForUpdate(ctx, bookID)
		if err != nil {
			return err
		}
		active, err := store.CountActiveBorrows(ctx, book.ID)
		if err != nil {
			return err
		}
		if AvailableQuantity(book.Quantity, active) <= 0 {
			return apperr.BusinessRule(apperr.CodeNoCopiesAvailable, "bookId", "No copies available")
		}
		borrower, err := store.GetBorrowerByID(ctx, borrowerID)
		if err != nil {
			return err
		}

		borrow = &entities.Borrow{
			BorrowerID: borrower.ID,
			BookID:     book.ID,
			BorrowDate: now,
			DueDate:    dueDate,
		}
		if err := store.CreateBorrow(ctx, borrow); err != nil {
			return err
		}
		borrow.Book = book
		borrow.Borrower = borrower
		return nil
	})
	if err != nil {
		return nil, err
	}
	return borrow, nil
}

// Return closes an active borrow. A borrow is returned at most once; a
// second attempt, including one that loses a race, is ALREADY_RETURNED and
// leaves the stored return date untouched.
func (s *LendingService) Return(ctx context.Context, id uint) (*entities.Borrow, error) {
	now := s.clock().UTC()
	alreadyReturned := apperr.BusinessRule(apperr.CodeAlreadyReturned, "id", "Book has already been returned")

	var borrow *entities.Borrow
	err := s.uow.Do(ctx, func(store LendingStore) error {
		b, err := store.GetBorrowByID(ctx, id)
		if err != nil {
			return err
		}
		if !b.IsActive() {
			return alreadyReturned
		}
		closed, err := store.MarkReturned(ctx, b.ID, now)
		if err != nil {
			return err
		}
		if !closed {
			return alreadyReturned
		}
		b.ReturnDate = &now
		borrow = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	overdue := now.After(borrow.DueDate)
	s.metrics.BookReturned(overdue)
	if overdue {
		s.log.Warn("Book returned after due date",
			zap.Uint("borrow_id", borrow.ID),
			zap.Uint("book_id", borrow.BookID),
			zap.Uint("borrower_id", borrow.BorrowerID),
			zap.Duration("late_by", now.Sub(borrow.DueDate)))
	} else {
		s.log.Info("Book returned", zap.Uint("borrow_id", borrow.ID))
	}
	s.auditor.LogReturn(ctx, borrow, overdue)
	return borrow, nil
}

func rejectionCode(err error) string {
	appErr, ok := apperr.As(err)
	if !ok {
		return string(apperr.CodeInternal)
	}
	if len(appErr.Fields) > 0 && appErr.Fields[0].Code != "" {
		return string(appErr.Fields[0].Code)
	}
	return appErr.Kind.String()
}
