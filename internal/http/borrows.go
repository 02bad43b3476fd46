package http

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MuhammadMouostafa/library-management-system/internal/exporters"
	"github.com/MuhammadMouostafa/library-management-system/internal/services"
)

const exportBaseName = "borrows"

type BorrowsController struct {
	lending    *services.LendingService
	reports    *services.ReportService
	pagination Pagination
	log        *zap.Logger
}

func NewBorrowsController(lending *services.LendingService, reports *services.ReportService, pagination Pagination, log *zap.Logger) *BorrowsController {
	return &BorrowsController{lending: lending, reports: reports, pagination: pagination, log: log}
}

// Borrow lends one copy of a book.
// POST /api/v1/borrows
func (bc *BorrowsController) Borrow(c *gin.Context) {
	var in services.BorrowInput
	if err := bindJSON(c, &in); err != nil {
		respondError(c, bc.log, err)
		return
	}
	borrow, err := bc.lending.Borrow(c.Request.Context(), in)
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	respondCreated(c, borrow)
}

// Return closes a borrow.
// PUT /api/v1/borrows/:id/return
func (bc *BorrowsController) Return(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	borrow, err := bc.lending.Return(c.Request.Context(), id)
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	c.JSON(http.StatusOK, borrow)
}

// Report lists borrows filtered by state and date range. With format=csv or
// format=xlsx every matching row is downloaded as a file instead.
// GET /api/v1/borrows
func (bc *BorrowsController) Report(c *gin.Context) {
	q := services.BorrowQuery{
		State:     c.Query("state"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		LastMonth: c.Query("lastMonth"),
	}

	if exporter := exporters.ForFormat(exporters.ParseFormat(c.Query("format"))); exporter != nil {
		bc.export(c, q, exporter)
		return
	}

	req, err := bc.pagination.parse(c)
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	page, err := bc.reports.List(c.Request.Context(), q, req)
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	c.JSON(http.StatusOK, pageBody("borrows", page))
}

func (bc *BorrowsController) export(c *gin.Context, q services.BorrowQuery, exporter exporters.RecordExporter) {
	records, err := bc.reports.All(c.Request.Context(), q)
	if err != nil {
		respondError(c, bc.log, err)
		return
	}

	var buf bytes.Buffer
	if err := exporter.Export(&buf, records); err != nil {
		respondError(c, bc.log, err)
		return
	}

	filename := exporters.Filename(exportBaseName, exporter)
	bc.log.Info("Borrow report exported",
		zap.String("file", filename),
		zap.Int("rows", len(records)))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, exporter.ContentType(), buf.Bytes())
}

// Overdue lists active borrows past their due date.
// GET /api/v1/borrows/overdue
func (bc *BorrowsController) Overdue(c *gin.Context) {
	req, err := bc.pagination.parse(c)
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	page, err := bc.reports.Overdue(c.Request.Context(), req)
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	c.JSON(http.StatusOK, pageBody("borrows", page))
}

// GET /api/v1/borrows/:id
func (bc *BorrowsController) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	record, err := bc.reports.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	c.JSON(http.StatusOK, record)
}
