// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go       # Connection setup (SQLite or PostgreSQL), migrations
//	├── unit_of_work.go   # Transactions spanning books, borrowers and borrows
//	├── dberr/            # GORM error translation into apperr kinds
//	├── books/            # Book CRUD and search
//	├── borrowers/        # Borrower CRUD
//	├── categories/       # Category CRUD
//	├── borrows/          # Borrow records, active counts and reports
//	└── audit/            # Audit trail
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.NewDatabase(database.Options{Path: "./library.db"}, logger)
//
//	// Create domain-specific repositories
//	booksRepo := books.NewRepository(db.DB)
//	borrowsRepo := borrows.NewRepository(db.DB)
//
//	// Use repositories
//	book, err := booksRepo.GetBookByID(ctx, 123)
//	counts, err := borrowsRepo.CountActiveBorrowsByBook(ctx, 1, 2, 3)
//
// Repositories return errors already translated by dberr, so callers only
// ever see *apperr.Error values.
//
// # Interface Implementations
//
//   - books.Repository: implements services.BookStore
//   - borrowers.Repository: implements services.BorrowerStore
//   - categories.Repository: implements services.CategoryStore
//   - borrows.Repository: implements services.BorrowReader
//   - UnitOfWork: implements services.UnitOfWork
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Translate errors with a dberr.Subject
//  5. Add compile-time interface check in internal/interfaces
package database
