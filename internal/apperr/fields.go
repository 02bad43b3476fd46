package apperr

// FieldErrors accumulates validation failures so that all of them are
// reported at once.
type FieldErrors []FieldError

func (fe *FieldErrors) Add(field string, code Code, message string) {
	*fe = append(*fe, FieldError{Field: field, Message: message, Code: code})
}

// Err returns a validation error, or nil when nothing was added.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return Validation(fe...)
}
