package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/MuhammadMouostafa/library-management-system/internal/apperr"
	"github.com/MuhammadMouostafa/library-management-system/internal/entities"
)

type BookService struct {
	books        BookStore
	uow          UnitOfWork
	availability *AvailabilityCalculator
	log          *zap.Logger
	auditor      Auditor
}

func NewBookService(books BookStore, borrows BorrowReader, uow UnitOfWork, opts Options) *BookService {
	opts = opts.withDefaults()
	return &BookService{
		books:        books,
		uow:          uow,
		availability: NewAvailabilityCalculator(borrows, opts),
		log:          opts.Logger,
		auditor:      opts.Auditor,
	}
}

func (s *BookService) Create(ctx context.Context, in BookInput) (*entities.Book, error) {
	book, err := in.Validate()
	if err != nil {
		return nil, err
	}
	if err := s.books.CreateBook(ctx, &book); err != nil {
		return nil, err
	}
	s.log.Info("Book created", zap.Uint("book_id", book.ID), zap.String("isbn", book.ISBN))
	s.auditor.LogCreate(ctx, "book", book.ID)
	return &book, nil
}

func (s *BookService) Get(ctx context.Context, id uint) (entities.BookAvailability, error) {
	book, err := s.books.GetBookByID(ctx, id)
	if err != nil {
		return entities.BookAvailability{}, err
	}
	return s.availability.ForBook(ctx, *book)
}

// Update replaces the book's fields. Lowering the quantity below the number
// of copies currently out is rejected; the check and the write share one
// transaction so a concurrent borrow cannot slip in between.
func (s *BookService) Update(ctx context.Context, id uint, in BookInput) (*entities.Book, error) {
	changes, err := in.Validate()
	if err != nil {
		return nil, err
	}

	var updated *entities.Book
	err = s.uow.Do(ctx, func(store LendingStore) error {
		book, err := store.GetBookForUpdate(ctx, id)
		if err != nil {
			return err
		}
		active, err := store.CountActiveBorrows(ctx, book.ID)
		if err != nil {
			return err
		}
		if changes.Quantity < active {
			return apperr.BusinessRule(apperr.CodeQuantityBelowActiveBorrows, "quantity",
				fmt.Sprintf("Quantity cannot be less than the number of active borrows (%d)", active))
		}

		book.Title = changes.Title
		book.Author = changes.Author
		book.ISBN = changes.ISBN
		book.Quantity = changes.Quantity
		book.ShelfLocation = changes.ShelfLocation
		if err := store.UpdateBook(ctx, book); err != nil {
			return err
		}
		updated = book
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Book updated", zap.Uint("book_id", id))
	s.auditor.LogUpdate(ctx, "book", id)
	return updated, nil
}

func (s *BookService) Delete(ctx context.Context, id uint) error {
	if err := s.books.DeleteBook(ctx, id); err != nil {
		return err
	}
	s.log.Info("Book deleted", zap.Uint("book_id", id))
	s.auditor.LogDelete(ctx, "book", id)
	return nil
}

// List returns a page of books sorted by title, each with availability.
func (s *BookService) List(ctx context.Context, req PageRequest) (Page[entities.BookAvailability], error) {
	books, total, err := s.books.ListBooks(ctx, req.Offset(), req.Limit)
	if err != nil {
		return Page[entities.BookAvailability]{}, err
	}
	items, err := s.availability.ForBooks(ctx, books)
	if err != nil {
		return Page[entities.BookAvailability]{}, err
	}
	return newPage(items, total, req), nil
}

// Search matches query against title, author and ISBN. A blank query is
// rejected without touching the store.
func (s *BookService) Search(ctx context.Context, query string) ([]entities.BookAvailability, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.BusinessRule(apperr.CodeMissingQuery, "q", "Search query is required")
	}
	books, err := s.books.SearchBooks(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.availability.ForBooks(ctx, books)
}
