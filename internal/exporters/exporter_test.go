package exporters

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/MuhammadMouostafa/library-management-system/internal/entities"
)

func sampleRecords() []entities.BorrowRecord {
	borrowed := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	returned := time.Date(2024, 6, 10, 17, 0, 0, 0, time.UTC)
	return []entities.BorrowRecord{
		{
			ID: 2, BorrowerID: 7, BorrowerName: "Ann Lee", BookID: 3, BookTitle: "Dune, Part One",
			BorrowDate: borrowed, DueDate: borrowed.AddDate(0, 0, 14), State: entities.BorrowStateActive,
		},
		{
			ID: 1, BorrowerID: 8, BorrowerName: "Bob", BookID: 4, BookTitle: "Emma",
			BorrowDate: borrowed, DueDate: borrowed.AddDate(0, 0, 7), ReturnDate: &returned,
			State: entities.BorrowStateReturned,
		},
	}
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatCSV, ParseFormat("csv"))
	assert.Equal(t, FormatXLSX, ParseFormat("xlsx"))
	assert.Equal(t, FormatJSON, ParseFormat(""))
	assert.Equal(t, FormatJSON, ParseFormat("pdf"))
	assert.Nil(t, ForFormat(FormatJSON))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "borrows.csv", Filename("borrows", ForFormat(FormatCSV)))
	assert.Equal(t, "borrows.xlsx", Filename("borrows", ForFormat(FormatXLSX)))
}

func TestCSVExporter(t *testing.T) {
	t.Run("writes header and one row per record", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, CSVExporter{}.Export(&buf, sampleRecords()))

		rows, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 3)

		assert.Equal(t, recordHeader, rows[0])
		assert.Equal(t, []string{
			"2", "7", "Ann Lee", "3", "Dune, Part One",
			"2024-06-01T09:30:00.000Z", "2024-06-15T09:30:00.000Z", "", "active",
		}, rows[1])
		assert.Equal(t, "2024-06-10T17:00:00.000Z", rows[2][7])
		assert.Equal(t, "returned", rows[2][8])
	})

	t.Run("empty report still has a header", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, CSVExporter{}.Export(&buf, nil))
		assert.Equal(t, "id,borrowerId,borrowerName,bookId,bookTitle,borrowDate,dueDate,returnDate,state\n", buf.String())
	})
}

func TestXLSXExporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, XLSXExporter{}.Export(&buf, sampleRecords()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(xlsxSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, recordHeader, rows[0])
	assert.Equal(t, "Ann Lee", rows[1][2])
	assert.Equal(t, "Dune, Part One", rows[1][4])
	assert.Equal(t, "returned", rows[2][8])

	width, err := f.GetColWidth(xlsxSheet, "C")
	require.NoError(t, err)
	assert.Equal(t, float64(xlsxColumnWidth), width)
}
