package borrowers

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MuhammadMouostafa/library-management-system/internal/apperr"
	"github.com/MuhammadMouostafa/library-management-system/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "borrowers.db")
	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&entities.Book{}, &entities.Borrower{}, &entities.Borrow{}))
	return db
}

func TestRepository_CreateBorrower(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewRepository(db)

	require.NoError(t, repo.CreateBorrower(ctx, &entities.Borrower{Name: "Ann", Email: "ann@example.com"}))

	err := repo.CreateBorrower(ctx, &entities.Borrower{Name: "Other Ann", Email: "ann@example.com"})
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindConflict, appErr.Kind)
	assert.Equal(t, "email", appErr.Fields[0].Field)
	assert.Equal(t, "This value already exists for field: email", appErr.Fields[0].Message)

	var count int64
	require.NoError(t, db.Model(&entities.Borrower{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRepository_UpdateBorrower(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))

	ann := &entities.Borrower{Name: "Ann", Email: "ann@example.com"}
	bob := &entities.Borrower{Name: "Bob", Email: "bob@example.com"}
	require.NoError(t, repo.CreateBorrower(ctx, ann))
	require.NoError(t, repo.CreateBorrower(ctx, bob))

	ann.Name = "Ann Lee"
	require.NoError(t, repo.UpdateBorrower(ctx, ann))
	found, err := repo.GetBorrowerByID(ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", found.Name)

	bob.Email = "ann@example.com"
	err = repo.UpdateBorrower(ctx, bob)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = repo.GetBorrowerByID(ctx, 999)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestRepository_DeleteBorrower(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewRepository(db)

	idle := &entities.Borrower{Name: "Idle", Email: "idle@example.com"}
	active := &entities.Borrower{Name: "Active", Email: "active@example.com"}
	require.NoError(t, repo.CreateBorrower(ctx, idle))
	require.NoError(t, repo.CreateBorrower(ctx, active))

	book := &entities.Book{Title: "T", Author: "A", ISBN: "1234567890", Quantity: 1, ShelfLocation: "A-1"}
	require.NoError(t, db.Create(book).Error)
	now := time.Now().UTC()
	require.NoError(t, db.Create(&entities.Borrow{
		BorrowerID: active.ID, BookID: book.ID, BorrowDate: now, DueDate: now.Add(time.Hour),
	}).Error)

	require.NoError(t, repo.DeleteBorrower(ctx, idle.ID))

	err := repo.DeleteBorrower(ctx, active.ID)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindReferentialIntegrity, appErr.Kind)
	assert.Equal(t, "borrowerId", appErr.Fields[0].Field)

	err = repo.DeleteBorrower(ctx, 999)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestRepository_ListBorrowers(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))

	for _, name := range []string{"Carol", "Alice", "Bob"} {
		require.NoError(t, repo.CreateBorrower(ctx, &entities.Borrower{Name: name, Email: name + "@example.com"}))
	}

	borrowers, total, err := repo.ListBorrowers(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, borrowers, 2)
	assert.Equal(t, "Alice", borrowers[0].Name)
	assert.Equal(t, "Bob", borrowers[1].Name)
}
