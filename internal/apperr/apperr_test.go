package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAs_UnwrapsChain(t *testing.T) {
	base := NotFound("Book")
	wrapped := fmt.Errorf("loading book: %w", base)

	got, ok := As(wrapped)
	require.True(t, ok)
	assert.Same(t, base, got)
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, "book", got.Fields[0].Field)
	assert.Equal(t, "Book not found", got.Fields[0].Message)
}

func TestKindOf_ForeignErrorIsInternal(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestIsCode(t *testing.T) {
	err := BusinessRule(CodeNoCopiesAvailable, "bookId", "No available copies")
	assert.True(t, IsCode(err, CodeNoCopiesAvailable))
	assert.False(t, IsCode(err, CodeAlreadyReturned))
	assert.False(t, IsCode(errors.New("x"), CodeNoCopiesAvailable))
}

func TestFieldErrors(t *testing.T) {
	var fe FieldErrors
	assert.NoError(t, fe.Err())

	fe.Add("title", CodeRequired, "Title is required")
	fe.Add("isbn", CodeInvalidFormat, "ISBN must be a valid ISBN-10 or ISBN-13")

	err := fe.Err()
	require.Error(t, err)
	appErr, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, KindValidation, appErr.Kind)
	assert.Len(t, appErr.Fields, 2)
}

func TestError_MessageKeepsCause(t *testing.T) {
	cause := errors.New("UNIQUE constraint failed: borrowers.email")
	err := Conflict("email", cause)

	assert.Contains(t, err.Error(), "CONFLICT")
	assert.Contains(t, err.Error(), "email")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "This value already exists for field: email", err.Fields[0].Message)
}

func TestStillReferenced_Message(t *testing.T) {
	err := StillReferenced("Book", "bookId", nil)
	assert.Equal(t, KindReferentialIntegrity, err.Kind)
	assert.Equal(t, "Cannot delete Book. It is still referenced by other records (field: bookId).", err.Fields[0].Message)
}
