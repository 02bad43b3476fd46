package http

import (
	"github.com/gin-gonic/gin"

	"github.com/MuhammadMouostafa/library-management-system/internal/logging"
	"github.com/MuhammadMouostafa/library-management-system/internal/security"
)

const apiPrefix = "/api/v1"

// Paths served without rate limiting.
var operationalPaths = []string{"/health", "/ping", "/metrics"}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := logging.OrNop(cfg.Logger)

	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(log))
	router.Use(RecoveryMiddleware(log))
	router.Use(security.HeadersMiddleware())
	if cfg.HSTSMaxAge > 0 {
		router.Use(security.StrictTransportSecurityMiddleware(cfg.HSTSMaxAge))
	}
	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Middleware())
	}
	if cfg.Limiter != nil {
		router.Use(security.RateLimitMiddleware(cfg.Limiter, security.RateLimitOptions{
			Logger:    log,
			SkipPaths: operationalPaths,
			OnReject:  cfg.Metrics.RateLimited,
		}))
	}
	router.Use(ClientIPMiddleware())

	router.NoRoute(func(c *gin.Context) {
		respondError(c, log, routeNotFound())
	})

	// Health endpoints
	var db Pinger
	if cfg.Database != nil {
		db = cfg.Database
	}
	health := NewHealthController(db, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := router.Group(apiPrefix)

	if cfg.Books != nil {
		books := NewBooksController(cfg.Books, cfg.Pagination, log)
		api.GET("/books", books.List)
		api.GET("/books/search", books.Search)
		api.GET("/books/:id", books.Get)
		api.POST("/books", books.Create)
		api.PUT("/books/:id", books.Update)
		api.DELETE("/books/:id", books.Delete)
	}

	if cfg.Borrowers != nil {
		borrowers := NewBorrowersController(cfg.Borrowers, cfg.Pagination, log)
		api.GET("/borrowers", borrowers.List)
		api.GET("/borrowers/:id", borrowers.Get)
		api.GET("/borrowers/:id/borrows", borrowers.ActiveBorrows)
		api.POST("/borrowers", borrowers.Create)
		api.PUT("/borrowers/:id", borrowers.Update)
		api.DELETE("/borrowers/:id", borrowers.Delete)
	}

	if cfg.Categories != nil {
		categories := NewCategoriesController(cfg.Categories, log)
		api.GET("/categories", categories.List)
		api.GET("/categories/:id", categories.Get)
		api.POST("/categories", categories.Create)
		api.PUT("/categories/:id", categories.Update)
		api.DELETE("/categories/:id", categories.Delete)
	}

	if cfg.Lending != nil && cfg.Reports != nil {
		borrows := NewBorrowsController(cfg.Lending, cfg.Reports, cfg.Pagination, log)
		api.POST("/borrows", borrows.Borrow)
		api.PUT("/borrows/:id/return", borrows.Return)
		api.GET("/borrows", borrows.Report)
		api.GET("/borrows/overdue", borrows.Overdue)
		api.GET("/borrows/:id", borrows.Get)
	}

	if cfg.Audit != nil {
		auditController := NewAuditController(cfg.Audit, cfg.Pagination, log)
		api.GET("/audit", auditController.GetAuditEvents)
		api.GET("/audit/:entityType/:id", auditController.GetEntityHistory)
	}

	return router
}
