package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MuhammadMouostafa/library-management-system/internal/services"
)

type BorrowersController struct {
	borrowers  *services.BorrowerService
	pagination Pagination
	log        *zap.Logger
}

func NewBorrowersController(borrowers *services.BorrowerService, pagination Pagination, log *zap.Logger) *BorrowersController {
	return &BorrowersController{borrowers: borrowers, pagination: pagination, log: log}
}

// GET /api/v1/borrowers
func (bc *BorrowersController) List(c *gin.Context) {
	req, err := bc.pagination.parse(c)
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	page, err := bc.borrowers.List(c.Request.Context(), req)
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	c.JSON(http.StatusOK, pageBody("borrowers", page))
}

// GET /api/v1/borrowers/:id
func (bc *BorrowersController) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	borrower, err := bc.borrowers.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	c.JSON(http.StatusOK, borrower)
}

// ActiveBorrows lists the books the borrower currently has out.
// GET /api/v1/borrowers/:id/borrows
func (bc *BorrowersController) ActiveBorrows(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	borrows, err := bc.borrowers.ActiveBorrows(c.Request.Context(), id)
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	c.JSON(http.StatusOK, borrows)
}

// POST /api/v1/borrowers
func (bc *BorrowersController) Create(c *gin.Context) {
	var in services.BorrowerInput
	if err := bindJSON(c, &in); err != nil {
		respondError(c, bc.log, err)
		return
	}
	borrower, err := bc.borrowers.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	respondCreated(c, borrower)
}

// PUT /api/v1/borrowers/:id
func (bc *BorrowersController) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	var in services.BorrowerInput
	if err := bindJSON(c, &in); err != nil {
		respondError(c, bc.log, err)
		return
	}
	borrower, err := bc.borrowers.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	c.JSON(http.StatusOK, borrower)
}

// DELETE /api/v1/borrowers/:id
func (bc *BorrowersController) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	if err := bc.borrowers.Delete(c.Request.Context(), id); err != nil {
		respondError(c, bc.log, err)
		return
	}
	respondMessage(c, "Borrower deleted successfully")
}
