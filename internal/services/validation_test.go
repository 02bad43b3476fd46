package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhammadMouostafa/library-management-system/internal/apperr"
)

func fieldMessages(t *testing.T, err error) map[string]string {
	t.Helper()
	if err == nil {
		return nil
	}
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	out := map[string]string{}
	for _, f := range appErr.Fields {
		out[f.Field] = f.Message
	}
	return out
}

func intPtr(n int) *int {
	return &n
}

func validBook() BookInput {
	return BookInput{
		Title:         "Dune",
		Author:        "Frank Herbert",
		ISBN:          "9780441013593",
		Quantity:      intPtr(3),
		ShelfLocation: "A-12",
	}
}

func TestBookInput_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*BookInput)
		want   map[string]string
	}{
		{"valid", func(*BookInput) {}, nil},
		{"isbn-10 with X", func(b *BookInput) { b.ISBN = "043942089X" }, nil},
		{"zero quantity", func(b *BookInput) { b.Quantity = intPtr(0) }, nil},
		{"padded isbn", func(b *BookInput) { b.ISBN = " 9780441013593 " }, nil},
		{"missing title", func(b *BookInput) { b.Title = "  " }, map[string]string{"title": "Title is required"}},
		{"bad isbn", func(b *BookInput) { b.ISBN = "12345" }, map[string]string{"isbn": "ISBN must be a valid ISBN-10 or ISBN-13"}},
		{"lowercase shelf", func(b *BookInput) { b.ShelfLocation = "a-12" }, map[string]string{
			"shelfLocation": "Shelf location must follow format like A-12 (capital letter, dash, number)",
		}},
		{"missing quantity", func(b *BookInput) { b.Quantity = nil }, map[string]string{"quantity": "Quantity is required"}},
		{"negative quantity", func(b *BookInput) { b.Quantity = intPtr(-1) }, map[string]string{"quantity": "Quantity cannot be negative"}},
		{"blank isbn is missing, not malformed", func(b *BookInput) { b.ISBN = "   " }, map[string]string{"isbn": "ISBN is required"}},
		{"everything wrong at once", func(b *BookInput) { *b = BookInput{} }, map[string]string{
			"title":         "Title is required",
			"author":        "Author is required",
			"isbn":          "ISBN is required",
			"shelfLocation": "Shelf location is required",
			"quantity":      "Quantity is required",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validBook()
			tt.modify(&in)
			_, err := in.Validate()
			assert.Equal(t, tt.want, fieldMessages(t, err))
		})
	}
}

func TestBookInput_ValidateNormalises(t *testing.T) {
	in := validBook()
	in.Title = "  Dune  "
	in.ISBN = " 9780441013593"
	book, err := in.Validate()
	require.NoError(t, err)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, "9780441013593", book.ISBN)
	assert.Equal(t, 3, book.Quantity)
}

func TestBorrowerInput_Validate(t *testing.T) {
	_, err := BorrowerInput{Name: "Ann", Email: "ann@example.com"}.Validate()
	assert.NoError(t, err)

	_, err = BorrowerInput{Name: "Ann", Email: "ann@example"}.Validate()
	assert.Equal(t, map[string]string{"email": "Invalid email format"}, fieldMessages(t, err))

	_, err = BorrowerInput{}.Validate()
	assert.Equal(t, map[string]string{"name": "Name is required", "email": "Email is required"}, fieldMessages(t, err))
}

func TestCategoryInput_Validate(t *testing.T) {
	category, err := CategoryInput{Name: "Fiction", Order: intPtr(2)}.Validate()
	require.NoError(t, err)
	assert.Equal(t, 2, category.Order)

	_, err = CategoryInput{Name: "Fiction", Order: intPtr(-1)}.Validate()
	assert.Equal(t, map[string]string{"order": "Order must be a non-negative integer"}, fieldMessages(t, err))

	_, err = CategoryInput{Name: "Fiction"}.Validate()
	assert.Equal(t, map[string]string{"order": "Order is required"}, fieldMessages(t, err))
}

func TestCategoryInput_ValidateAcceptsZeroOrder(t *testing.T) {
	category, err := CategoryInput{Name: "First", Order: intPtr(0)}.Validate()
	require.NoError(t, err)
	assert.Equal(t, 0, category.Order)
}

func TestBorrowInput_Validate(t *testing.T) {
	tests := []struct {
		name  string
		input BorrowInput
		want  map[string]string
	}{
		{"valid", BorrowInput{BorrowerID: 1, BookID: 2, DueDate: "2024-07-01"}, nil},
		{"epoch millis due date", BorrowInput{BorrowerID: 1, BookID: 2, DueDate: float64(1719662400000)}, nil},
		{"negative ids", BorrowInput{BorrowerID: -1, BookID: -3, DueDate: "2024-07-01"}, map[string]string{
			"borrowerId": "Borrower ID must be a positive integer",
			"bookId":     "Book ID must be a positive integer",
		}},
		{"blank due date", BorrowInput{BorrowerID: 1, BookID: 2, DueDate: "  "}, map[string]string{"dueDate": "Due date is required"}},
		{"nothing given", BorrowInput{}, map[string]string{
			"borrowerId": "Borrower ID is required",
			"bookId":     "Book ID is required",
			"dueDate":    "Due date is required",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.input.validate()
			assert.Equal(t, tt.want, fieldMessages(t, err))
		})
	}
}

func TestValidationError_PassesOtherErrorsThrough(t *testing.T) {
	err := errors.New("boom")
	assert.Same(t, err, ValidationError(err))
	assert.NoError(t, ValidationError(nil))
}
