package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MuhammadMouostafa/library-management-system/internal/services"
)

type CategoriesController struct {
	categories *services.CategoryService
	log        *zap.Logger
}

func NewCategoriesController(categories *services.CategoryService, log *zap.Logger) *CategoriesController {
	return &CategoriesController{categories: categories, log: log}
}

// List returns every category ordered by its order field.
// GET /api/v1/categories
func (cc *CategoriesController) List(c *gin.Context) {
	categories, err := cc.categories.List(c.Request.Context())
	if err != nil {
		respondError(c, cc.log, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GET /api/v1/categories/:id
func (cc *CategoriesController) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, cc.log, err)
		return
	}
	category, err := cc.categories.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, cc.log, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// POST /api/v1/categories
func (cc *CategoriesController) Create(c *gin.Context) {
	var in services.CategoryInput
	if err := bindJSON(c, &in); err != nil {
		respondError(c, cc.log, err)
		return
	}
	category, err := cc.categories.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, cc.log, err)
		return
	}
	respondCreated(c, category)
}

// PUT /api/v1/categories/:id
func (cc *CategoriesController) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, cc.log, err)
		return
	}
	var in services.CategoryInput
	if err := bindJSON(c, &in); err != nil {
		respondError(c, cc.log, err)
		return
	}
	category, err := cc.categories.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, cc.log, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// DELETE /api/v1/categories/:id
func (cc *CategoriesController) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, cc.log, err)
		return
	}
	if err := cc.categories.Delete(c.Request.Context(), id); err != nil {
		respondError(c, cc.log, err)
		return
	}
	respondMessage(c, "Category deleted successfully")
}
