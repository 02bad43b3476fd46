package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/MuhammadMouostafa/library-management-system/internal/entities"
)

func TestAvailableQuantity(t *testing.T) {
	assert.Equal(t, 3, AvailableQuantity(3, 0))
	assert.Equal(t, 1, AvailableQuantity(3, 2))
	assert.Equal(t, 0, AvailableQuantity(3, 3))
	assert.Equal(t, -1, AvailableQuantity(2, 3))
}

func TestAvailabilityCalculator_ForBooks(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	dune := store.addBook(3)
	emma := store.addBook(1)
	store.borrows[100] = &entities.Borrow{ID: 100, BookID: dune.ID}
	store.borrows[101] = &entities.Borrow{ID: 101, BookID: dune.ID}

	calc := NewAvailabilityCalculator(store, Options{})
	got, err := calc.ForBooks(ctx, []entities.Book{*dune, *emma})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 2, got[0].ActiveBorrows)
	assert.Equal(t, 1, got[0].AvailableQuantity)
	assert.Equal(t, 0, got[1].ActiveBorrows)
	assert.Equal(t, 1, got[1].AvailableQuantity)

	single, err := calc.ForBook(ctx, *dune)
	require.NoError(t, err)
	assert.Equal(t, got[0], single)

	empty, err := calc.ForBooks(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestAvailabilityCalculator_ClampsOverBorrowedBooks(t *testing.T) {
	store := newMemStore()
	book := store.addBook(1)
	store.borrows[100] = &entities.Borrow{ID: 100, BookID: book.ID}
	store.borrows[101] = &entities.Borrow{ID: 101, BookID: book.ID}

	core, logs := observer.New(zapcore.WarnLevel)
	metrics := &recordingMetrics{}
	calc := NewAvailabilityCalculator(store, Options{Logger: zap.New(core), Metrics: metrics})

	got, err := calc.ForBooks(context.Background(), []entities.Book{*book})
	require.NoError(t, err)
	assert.Equal(t, 0, got[0].AvailableQuantity)
	assert.Equal(t, 2, got[0].ActiveBorrows)
	assert.Equal(t, 1, metrics.violations)
	assert.Equal(t, 1, logs.FilterMessage("Book is over-borrowed").Len())
}
