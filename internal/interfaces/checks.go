package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/MuhammadMouostafa/library-management-system/internal/audit"
	"github.com/MuhammadMouostafa/library-management-system/internal/database"
	"github.com/MuhammadMouostafa/library-management-system/internal/database/books"
	"github.com/MuhammadMouostafa/library-management-system/internal/database/borrowers"
	"github.com/MuhammadMouostafa/library-management-system/internal/database/borrows"
	"github.com/MuhammadMouostafa/library-management-system/internal/database/categories"
	"github.com/MuhammadMouostafa/library-management-system/internal/exporters"
	"github.com/MuhammadMouostafa/library-management-system/internal/http"
	"github.com/MuhammadMouostafa/library-management-system/internal/metrics"
	"github.com/MuhammadMouostafa/library-management-system/internal/security"
	"github.com/MuhammadMouostafa/library-management-system/internal/services"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ services.BookStore = (*books.Repository)(nil)
var _ services.BorrowerStore = (*borrowers.Repository)(nil)
var _ services.CategoryStore = (*categories.Repository)(nil)
var _ services.BorrowReader = (*borrows.Repository)(nil)

// Transactions
var _ services.UnitOfWork = (*database.UnitOfWork)(nil)

// Health checks
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Cross-cutting Concerns
// =============================================================================

var _ services.Auditor = (*audit.Service)(nil)
var _ services.LendingMetrics = (*metrics.Recorder)(nil)

// Rate limiting
var _ security.Limiter = (*security.MemoryLimiter)(nil)
var _ security.Limiter = (*security.RedisLimiter)(nil)

// =============================================================================
// Exports
// =============================================================================

var _ exporters.RecordExporter = exporters.CSVExporter{}
var _ exporters.RecordExporter = exporters.XLSXExporter{}
