// Package exporters renders borrow reports as downloadable files.
package exporters

import (
	"io"
	"strconv"
	"time"

	"github.com/MuhammadMouostafa/library-management-system/internal/entities"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps the format query value. Anything that is not a file
// format falls back to JSON.
func ParseFormat(s string) Format {
	switch Format(s) {
	case FormatCSV:
		return FormatCSV
	case FormatXLSX:
		return FormatXLSX
	}
	return FormatJSON
}

// RecordExporter writes a set of borrow records in one file format.
type RecordExporter interface {
	Export(w io.Writer, records []entities.BorrowRecord) error
	ContentType() string
	Extension() string
}

// ForFormat returns the exporter for a file format, nil for JSON.
func ForFormat(f Format) RecordExporter {
	switch f {
	case FormatCSV:
		return CSVExporter{}
	case FormatXLSX:
		return XLSXExporter{}
	}
	return nil
}

// Filename builds the attachment name, e.g. borrows.csv.
func Filename(base string, e RecordExporter) string {
	return base + "." + e.Extension()
}

var recordHeader = []string{
	"id", "borrowerId", "borrowerName", "bookId", "bookTitle",
	"borrowDate", "dueDate", "returnDate", "state",
}

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func recordRow(r entities.BorrowRecord) []string {
	return []string{
		strconv.FormatUint(uint64(r.ID), 10),
		strconv.FormatUint(uint64(r.BorrowerID), 10),
		r.BorrowerName,
		strconv.FormatUint(uint64(r.BookID), 10),
		r.BookTitle,
		formatTime(r.BorrowDate),
		formatTime(r.DueDate),
		formatOptionalTime(r.ReturnDate),
		string(r.State),
	}
}
