package services

import (
	"context"
	"sync"
	"time"

	"github.com/MuhammadMouostafa/library-management-system/internal/apperr"
	"github.com/MuhammadMouostafa/library-management-system/internal/entities"
)

// memStore is an in-memory LendingStore, UnitOfWork and BorrowReader.
// Do holds a lock for the whole callback, like a serialised transaction,
// but does not roll back.
type memStore struct {
	mu        sync.Mutex
	books     map[uint]*entities.Book
	borrowers map[uint]*entities.Borrower
	borrows   map[uint]*entities.Borrow
	nextID    uint
	countErr  error
}

func newMemStore() *memStore {
	return &memStore{
		books:     map[uint]*entities.Book{},
		borrowers: map[uint]*entities.Borrower{},
		borrows:   map[uint]*entities.Borrow{},
	}
}

func (m *memStore) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memStore) addBook(quantity int) *entities.Book {
	b := &entities.Book{ID: m.id(), Title: "Book", Author: "Author", ISBN: "1234567890", Quantity: quantity, ShelfLocation: "A-1"}
	m.books[b.ID] = b
	return b
}

func (m *memStore) addBorrower() *entities.Borrower {
	b := &entities.Borrower{ID: m.id(), Name: "Reader", Email: "reader@example.com"}
	m.borrowers[b.ID] = b
	return b
}

func (m *memStore) Do(ctx context.Context, fn func(store LendingStore) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m)
}

func (m *memStore) GetBookForUpdate(ctx context.Context, id uint) (*entities.Book, error) {
	b, ok := m.books[id]
	if !ok {
		return nil, apperr.NotFound("Book")
	}
	cp := *b
	return &cp, nil
}

func (m *memStore) UpdateBook(ctx context.Context, book *entities.Book) error {
	if _, ok := m.books[book.ID]; !ok {
		return apperr.NotFound("Book")
	}
	cp := *book
	m.books[book.ID] = &cp
	return nil
}

func (m *memStore) GetBorrowerByID(ctx context.Context, id uint) (*entities.Borrower, error) {
	b, ok := m.borrowers[id]
	if !ok {
		return nil, apperr.NotFound("Borrower")
	}
	cp := *b
	return &cp, nil
}

func (m *memStore) CountActiveBorrows(ctx context.Context, bookID uint) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	n := 0
	for _, b := range m.borrows {
		if b.BookID == bookID && b.IsActive() {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CountActiveBorrowsByBook(ctx context.Context, bookIDs ...uint) (map[uint]int, error) {
	if m.countErr != nil {
		return nil, m.countErr
	}
	counts := map[uint]int{}
	for _, b := range m.borrows {
		if b.IsActive() {
			counts[b.BookID]++
		}
	}
	return counts, nil
}

func (m *memStore) CreateBorrow(ctx context.Context, borrow *entities.Borrow) error {
	borrow.ID = m.id()
	cp := *borrow
	m.borrows[borrow.ID] = &cp
	return nil
}

func (m *memStore) GetBorrowByID(ctx context.Context, id uint) (*entities.Borrow, error) {
	b, ok := m.borrows[id]
	if !ok {
		return nil, apperr.NotFound("Borrow")
	}
	cp := *b
	return &cp, nil
}

func (m *memStore) MarkReturned(ctx context.Context, id uint, at time.Time) (bool, error) {
	b, ok := m.borrows[id]
	if !ok || !b.IsActive() {
		return false, nil
	}
	b.ReturnDate = &at
	return true, nil
}

func (m *memStore) ListBorrowRecords(ctx context.Context, f entities.BorrowFilter, offset, limit int) ([]entities.BorrowRecord, int64, error) {
	return nil, 0, nil
}

func (m *memStore) GetBorrowRecord(ctx context.Context, id uint, now time.Time) (*entities.BorrowRecord, error) {
	return nil, apperr.NotFound("Borrow")
}

func (m *memStore) ListActiveBorrowsForBorrower(ctx context.Context, borrowerID uint) ([]entities.Borrow, error) {
	return nil, nil
}

func (m *memStore) activeCount() int {
	n := 0
	for _, b := range m.borrows {
		if b.IsActive() {
			n++
		}
	}
	return n
}

type recordingMetrics struct {
	created    int
	rejected   []string
	returned   int
	overdue    int
	violations int
}

func (r *recordingMetrics) BorrowCreated()             { r.created++ }
func (r *recordingMetrics) BorrowRejected(code string) { r.rejected = append(r.rejected, code) }
func (r *recordingMetrics) AvailabilityInvariantViolated() {
	r.violations++
}
func (r *recordingMetrics) BookReturned(overdue bool) {
	r.returned++
	if overdue {
		r.overdue++
	}
}

type recordingAuditor struct {
	nopAuditor
	borrows []uint
	returns map[uint]bool
}

func (r *recordingAuditor) LogBorrow(ctx context.Context, b *entities.Borrow) {
	r.borrows = append(r.borrows, b.ID)
}

func (r *recordingAuditor) LogReturn(ctx context.Context, b *entities.Borrow, overdue bool) {
	if r.returns == nil {
		r.returns = map[uint]bool{}
	}
	r.returns[b.ID] = overdue
}

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

func (c *fixedClock) Advance(d time.Duration) { c.t = c.t.Add(d) }
