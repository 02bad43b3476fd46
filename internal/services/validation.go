package services

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MuhammadMouostafa/library-management-system/internal/apperr"
	"github.com/MuhammadMouostafa/library-management-system/internal/entities"
)

var (
	isbnPattern          = regexp.MustCompile(`^(97(8|9))?\d{9}(\d|X)$`)
	shelfLocationPattern = regexp.MustCompile(`^[A-Z]-\d+$`)
	emailPattern         = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// BookInput is the writable part of a book. Quantity is a pointer so that a
// missing quantity is told apart from zero copies.
type BookInput struct {
	Title         string `json:"title" binding:"required,notblank"`
	Author        string `json:"author" binding:"required,notblank"`
	ISBN          string `json:"isbn" binding:"required,notblank,isbnformat"`
	Quantity      *int   `json:"quantity" binding:"required,gte=0"`
	ShelfLocation string `json:"shelfLocation" binding:"required,notblank,shelflocation"`
}

type BorrowerInput struct {
	Name  string `json:"name" binding:"required,notblank"`
	Email string `json:"email" binding:"required,notblank,emailformat"`
}

type CategoryInput struct {
	Name  string `json:"name" binding:"required,notblank"`
	Order *int   `json:"order" binding:"required,gte=0"`
}

// BorrowInput is a borrow request. DueDate is an ISO 8601 date or instant,
// or milliseconds since the Unix epoch; its meaning is checked by the
// lifecycle after the request shape.
type BorrowInput struct {
	BorrowerID int `json:"borrowerId" binding:"required,min=1"`
	BookID     int `json:"bookId" binding:"required,min=1"`
	DueDate    any `json:"dueDate" binding:"required,notblank"`
}

var fieldLabels = map[string]string{
	"title":         "Title",
	"author":        "Author",
	"isbn":          "ISBN",
	"quantity":      "Quantity",
	"shelfLocation": "Shelf location",
	"name":          "Name",
	"email":         "Email",
	"order":         "Order",
	"borrowerId":    "Borrower ID",
	"bookId":        "Book ID",
	"dueDate":       "Due date",
}

// ruleMessages maps "<field>.<tag>" to the message of a failed rule.
var ruleMessages = map[string]string{
	"isbn.isbnformat":             "ISBN must be a valid ISBN-10 or ISBN-13",
	"shelfLocation.shelflocation": "Shelf location must follow format like A-12 (capital letter, dash, number)",
	"quantity.gte":                "Quantity cannot be negative",
	"email.emailformat":           "Invalid email format",
	"order.gte":                   "Order must be a non-negative integer",
	"borrowerId.min":              "Borrower ID must be a positive integer",
	"bookId.min":                  "Book ID must be a positive integer",
}

func matchTrimmed(pattern *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return pattern.MatchString(strings.TrimSpace(fl.Field().String()))
	}
}

// notBlank fails strings made only of whitespace. Other kinds pass.
func notBlank(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(fl.Field().String()) != ""
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// ConfigureValidator teaches v the rules used by the input types and makes
// it report fields by their JSON names.
func ConfigureValidator(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)
	rules := map[string]validator.Func{
		"notblank":      notBlank,
		"isbnformat":    matchTrimmed(isbnPattern),
		"shelflocation": matchTrimmed(shelfLocationPattern),
		"emailformat":   matchTrimmed(emailPattern),
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

var inputValidator = newInputValidator()

func newInputValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	if err := ConfigureValidator(v); err != nil {
		panic(err)
	}
	return v
}

// ValidationError turns the rule failures reported by the validator into a
// validation error listing every offending field. Any other error is
// returned unchanged.
func ValidationError(err error) error {
	var failures validator.ValidationErrors
	if !errors.As(err, &failures) {
		return err
	}
	var fe apperr.FieldErrors
	for _, f := range failures {
		field := f.Field()
		label, ok := fieldLabels[field]
		if !ok {
			label = field
		}
		switch f.Tag() {
		case "required", "notblank":
			fe.Add(field, apperr.CodeRequired, label+" is required")
		default:
			msg, ok := ruleMessages[field+"."+f.Tag()]
			if !ok {
				msg = label + " is invalid"
			}
			fe.Add(field, apperr.CodeInvalidFormat, msg)
		}
	}
	return fe.Err()
}

func validateInput(in any) error {
	return ValidationError(inputValidator.Struct(in))
}

// Validate checks every field and returns the normalised book, or a
// validation error listing all offending fields.
func (in BookInput) Validate() (entities.Book, error) {
	if err := validateInput(in); err != nil {
		return entities.Book{}, err
	}
	return entities.Book{
		Title:         strings.TrimSpace(in.Title),
		Author:        strings.TrimSpace(in.Author),
		ISBN:          strings.TrimSpace(in.ISBN),
		Quantity:      *in.Quantity,
		ShelfLocation: strings.TrimSpace(in.ShelfLocation),
	}, nil
}

func (in BorrowerInput) Validate() (entities.Borrower, error) {
	if err := validateInput(in); err != nil {
		return entities.Borrower{}, err
	}
	return entities.Borrower{
		Name:  strings.TrimSpace(in.Name),
		Email: strings.TrimSpace(in.Email),
	}, nil
}

func (in CategoryInput) Validate() (entities.Category, error) {
	if err := validateInput(in); err != nil {
		return entities.Category{}, err
	}
	return entities.Category{Name: strings.TrimSpace(in.Name), Order: *in.Order}, nil
}

// validate checks the request shape. Date semantics are checked afterwards
// by the lifecycle so that their codes take precedence in the right order.
func (in BorrowInput) validate() (borrowerID, bookID uint, err error) {
	if err := validateInput(in); err != nil {
		return 0, 0, err
	}
	return uint(in.BorrowerID), uint(in.BookID), nil
}
