package entities

import "time"

type BorrowState string

const (
	BorrowStateAll      BorrowState = "all"
	BorrowStateActive   BorrowState = "active"
	BorrowStateOverdue  BorrowState = "overdue"
	BorrowStateReturned BorrowState = "returned"
)

// ParseBorrowState maps a query value to a state. Empty means all.
func ParseBorrowState(s string) (BorrowState, bool) {
	switch BorrowState(s) {
	case "", BorrowStateAll:
		return BorrowStateAll, true
	case BorrowStateActive, BorrowStateOverdue, BorrowStateReturned:
		return BorrowState(s), true
	}
	return "", false
}

type Book struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"index;size:512;not null" json:"title"`
	Author        string    `gorm:"index;size:256;not null" json:"author"`
	ISBN          string    `gorm:"uniqueIndex;size:13;not null" json:"isbn"`
	Quantity      int       `gorm:"not null;default:0;check:quantity >= 0" json:"quantity"`
	ShelfLocation string    `gorm:"size:32;not null" json:"shelfLocation"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type Borrower struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"index;size:256;not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:256;not null" json:"name"`
	Order     int       `gorm:"column:sort_order;index;not null;default:0" json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Borrow is a single loan of one copy of a book. A nil ReturnDate means the
// copy is still out; once set the record is never modified again.
type Borrow struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	BorrowerID uint       `gorm:"index;not null" json:"borrowerId"`
	BookID     uint       `gorm:"index;not null" json:"bookId"`
	BorrowDate time.Time  `gorm:"index;not null" json:"borrowDate"`
	DueDate    time.Time  `gorm:"index;not null" json:"dueDate"`
	ReturnDate *time.Time `gorm:"index" json:"returnDate"`
	Borrower   *Borrower  `gorm:"foreignKey:BorrowerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"borrower,omitempty"`
	Book       *Book      `gorm:"foreignKey:BookID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"book,omitempty"`
}

func (b *Borrow) IsActive() bool {
	return b.ReturnDate == nil
}

func (b *Borrow) IsOverdue(now time.Time) bool {
	return b.IsActive() && b.DueDate.Before(now)
}

// State classifies the borrow at the given instant.
func (b *Borrow) State(now time.Time) BorrowState {
	switch {
	case !b.IsActive():
		return BorrowStateReturned
	case b.IsOverdue(now):
		return BorrowStateOverdue
	default:
		return BorrowStateActive
	}
}

// BookAvailability is a book decorated with its derived copy counts.
type BookAvailability struct {
	Book
	ActiveBorrows     int `json:"activeBorrows"`
	AvailableQuantity int `json:"availableQuantity"`
}

// BorrowRecord is the flattened, denormalised view of a borrow used by
// listings and exports.
type BorrowRecord struct {
	ID           uint        `json:"id"`
	BorrowerID   uint        `json:"borrowerId"`
	BorrowerName string      `json:"borrowerName"`
	BookID       uint        `json:"bookId"`
	BookTitle    string      `json:"bookTitle"`
	BorrowDate   time.Time   `json:"borrowDate"`
	DueDate      time.Time   `json:"dueDate"`
	ReturnDate   *time.Time  `json:"returnDate"`
	State        BorrowState `json:"state"`
}

func (Book) TableName() string {
	return "books"
}

func (Borrower) TableName() string {
	return "borrowers"
}

func (Category) TableName() string {
	return "categories"
}

func (Borrow) TableName() string {
	return "borrows"
}
