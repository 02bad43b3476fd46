package exporters

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/MuhammadMouostafa/library-management-system/internal/entities"
)

type CSVExporter struct{}

func (CSVExporter) ContentType() string { return "text/csv; charset=utf-8" }
func (CSVExporter) Extension() string   { return string(FormatCSV) }

func (CSVExporter) Export(w io.Writer, records []entities.BorrowRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(recordHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range records {
		if err := writer.Write(recordRow(r)); err != nil {
			return fmt.Errorf("failed to write CSV row for borrow %d: %w", r.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
