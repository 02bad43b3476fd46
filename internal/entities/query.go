package entities

import "time"

// BorrowFilter selects borrows for reports. Now is the instant used to
// decide which active borrows are overdue.
type BorrowFilter struct {
	State      BorrowState
	From       *time.Time // inclusive lower bound on BorrowDate
	To         *time.Time // inclusive upper bound on BorrowDate
	BorrowerID uint
	Now        time.Time
}
