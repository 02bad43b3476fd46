package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MuhammadMouostafa/library-management-system/internal/services"
)

type BooksController struct {
	books      *services.BookService
	pagination Pagination
	log        *zap.Logger
}

func NewBooksController(books *services.BookService, pagination Pagination, log *zap.Logger) *BooksController {
	return &BooksController{books: books, pagination: pagination, log: log}
}

// List returns a page of books sorted by title with availability.
// GET /api/v1/books
func (bc *BooksController) List(c *gin.Context) {
	req, err := bc.pagination.parse(c)
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	page, err := bc.books.List(c.Request.Context(), req)
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	c.JSON(http.StatusOK, pageBody("books", page))
}

// Search matches q against title, author and ISBN.
// GET /api/v1/books/search?q=
func (bc *BooksController) Search(c *gin.Context) {
	books, err := bc.books.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	c.JSON(http.StatusOK, books)
}

// GET /api/v1/books/:id
func (bc *BooksController) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	book, err := bc.books.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

// POST /api/v1/books
func (bc *BooksController) Create(c *gin.Context) {
	var in services.BookInput
	if err := bindJSON(c, &in); err != nil {
		respondError(c, bc.log, err)
		return
	}
	book, err := bc.books.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	respondCreated(c, book)
}

// PUT /api/v1/books/:id
func (bc *BooksController) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	var in services.BookInput
	if err := bindJSON(c, &in); err != nil {
		respondError(c, bc.log, err)
		return
	}
	book, err := bc.books.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

// DELETE /api/v1/books/:id
func (bc *BooksController) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	if err := bc.books.Delete(c.Request.Context(), id); err != nil {
		respondError(c, bc.log, err)
		return
	}
	respondMessage(c, "Book deleted successfully")
}
