package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/MuhammadMouostafa/library-management-system/internal/entities"
)

// AvailableQuantity is the number of copies on the shelf: owned copies minus
// copies currently borrowed. A negative result means the book is
// over-borrowed.
func AvailableQuantity(quantity, activeBorrows int) int {
	return quantity - activeBorrows
}

// AvailabilityCalculator decorates books with their derived copy counts.
// Nothing is cached; every call reads the current active-borrow counts.
type AvailabilityCalculator struct {
	borrows BorrowReader
	log     *zap.Logger
	metrics LendingMetrics
}

func NewAvailabilityCalculator(borrows BorrowReader, opts Options) *AvailabilityCalculator {
	opts = opts.withDefaults()
	return &AvailabilityCalculator{borrows: borrows, log: opts.Logger, metrics: opts.Metrics}
}

// ForBook returns the availability of a single book.
func (a *AvailabilityCalculator) ForBook(ctx context.Context, book entities.Book) (entities.BookAvailability, error) {
	active, err := a.borrows.CountActiveBorrows(ctx, book.ID)
	if err != nil {
		return entities.BookAvailability{}, err
	}
	return a.decorate(book, active), nil
}

// ForBooks returns the availability of many books using one grouped count.
func (a *AvailabilityCalculator) ForBooks(ctx context.Context, books []entities.Book) ([]entities.BookAvailability, error) {
	result := make([]entities.BookAvailability, 0, len(books))
	if len(books) == 0 {
		return result, nil
	}

	ids := make([]uint, len(books))
	for i, b := range books {
		ids[i] = b.ID
	}
	counts, err := a.borrows.CountActiveBorrowsByBook(ctx, ids...)
	if err != nil {
		return nil, err
	}

	for _, b := range books {
		result = append(result, a.decorate(b, counts[b.ID]))
	}
	return result, nil
}

// decorate never reports negative availability. An over-borrowed book is
// shown with zero copies and flagged.
func (a *AvailabilityCalculator) decorate(book entities.Book, active int) entities.BookAvailability {
	available := AvailableQuantity(book.Quantity, active)
	if available < 0 {
		a.log.Warn("Book is over-borrowed",
			zap.Uint("book_id", book.ID),
			zap.Int("quantity", book.Quantity),
			zap.Int("active_borrows", active))
		a.metrics.AvailabilityInvariantViolated()
		available = 0
	}
	return entities.BookAvailability{Book: book, ActiveBorrows: active, AvailableQuantity: available}
}
