package exporters

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/MuhammadMouostafa/library-management-system/internal/entities"
)

const (
	xlsxSheet       = "Sheet1"
	xlsxColumnWidth = 20
)

type XLSXExporter struct{}

func (XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (XLSXExporter) Extension() string { return string(FormatXLSX) }

func (XLSXExporter) Export(w io.Writer, records []entities.BorrowRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	lastColumn, err := excelize.ColumnNumberToName(len(recordHeader))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(xlsxSheet, "A", lastColumn, xlsxColumnWidth); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	if err := f.SetSheetRow(xlsxSheet, "A1", &recordHeader); err != nil {
		return fmt.Errorf("failed to write XLSX header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(xlsxSheet, "A1", lastColumn+"1", bold); err != nil {
		return err
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			r.ID, r.BorrowerID, r.BorrowerName, r.BookID, r.BookTitle,
			formatTime(r.BorrowDate), formatTime(r.DueDate),
			formatOptionalTime(r.ReturnDate), string(r.State),
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write XLSX row for borrow %d: %w", r.ID, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write XLSX workbook: %w", err)
	}
	return nil
}
