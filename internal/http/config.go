package http

import (
	"go.uber.org/zap"

	"github.com/MuhammadMouostafa/library-management-system/internal/audit"
	"github.com/MuhammadMouostafa/library-management-system/internal/database"
	"github.com/MuhammadMouostafa/library-management-system/internal/metrics"
	"github.com/MuhammadMouostafa/library-management-system/internal/security"
	"github.com/MuhammadMouostafa/library-management-system/internal/services"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core services
	Books      *services.BookService
	Borrowers  *services.BorrowerService
	Categories *services.CategoryService
	Lending    *services.LendingService
	Reports    *services.ReportService

	// Audit trail endpoints are registered when set
	Audit *audit.Service

	// Health checks
	Database *database.Database
	Version  string

	// Prometheus metrics; /metrics is registered when set
	Metrics *metrics.Recorder

	// Per-client rate limiting; disabled when nil
	Limiter security.Limiter

	// Enable HSTS for deployments behind TLS
	HSTSMaxAge int

	Pagination Pagination
	Logger     *zap.Logger
}
