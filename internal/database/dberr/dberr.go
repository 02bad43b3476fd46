// Package dberr translates GORM errors into the apperr taxonomy.
//
// The database is opened with gorm.Config{TranslateError: true}, so driver
// specific failures arrive here as gorm.ErrRecordNotFound,
// gorm.ErrDuplicatedKey or gorm.ErrForeignKeyViolated regardless of whether
// SQLite or PostgreSQL is in use.
package dberr

import (
	"errors"

	"gorm.io/gorm"

	"github.com/MuhammadMouostafa/library-management-system/internal/apperr"
)

// Subject describes the entity an operation touched, so that a translated
// error can be attributed to the right field.
type Subject struct {
	Entity      string // display name, e.g. "Book"
	UniqueField string // the entity's unique column as exposed in JSON, e.g. "isbn"
	RefField    string // how other rows reference this entity, e.g. "bookId"
	WriteRef    string // the reference this entity holds, reported when a write points at a missing row
}

var (
	Book     = Subject{Entity: "Book", UniqueField: "isbn", RefField: "bookId"}
	Borrower = Subject{Entity: "Borrower", UniqueField: "email", RefField: "borrowerId"}
	Category = Subject{Entity: "Category"}
	Borrow   = Subject{Entity: "Borrow", WriteRef: "borrowerId"}
)

// Translate maps err from a read or write. Errors that are already part of
// the taxonomy pass through unchanged; anything unrecognised becomes
// INTERNAL with the given message.
func (s Subject) Translate(err error, message string) error {
	if err == nil {
		return nil
	}
	if _, ok := apperr.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(s.Entity)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		field := s.UniqueField
		if field == "" {
			field = "id"
		}
		return apperr.Conflict(field, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		field := s.WriteRef
		if field == "" {
			field = "relation"
		}
		return apperr.InvalidReference(field, err)
	}
	return apperr.Internal(message, err)
}

// TranslateDelete is Translate for deletes, where a foreign-key violation
// means the row is still referenced rather than pointing at a missing row.
func (s Subject) TranslateDelete(err error, message string) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		field := s.RefField
		if field == "" {
			field = "relation"
		}
		return apperr.StillReferenced(s.Entity, field, err)
	}
	return s.Translate(err, message)
}
