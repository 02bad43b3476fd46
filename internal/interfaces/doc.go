// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces (internal/services/interfaces.go)
//
//   - BookStore, BorrowerStore, CategoryStore: CRUD persistence per domain
//   - BorrowReader: read-only borrow queries, active-borrow counts and reports
//   - LendingStore: the operations available inside a lending transaction
//   - UnitOfWork: runs a function against a LendingStore in one transaction
//
// ## Cross-cutting Interfaces
//
//   - Auditor: records completed operations (internal/services/interfaces.go)
//   - LendingMetrics: lifecycle counters (internal/services/interfaces.go)
//   - Limiter: per-client request counting (internal/security/ratelimit.go)
//   - Pinger: health check dependency (internal/http/health.go)
//   - RecordExporter: borrow report file formats (internal/exporters/exporter.go)
//
// # Adding a New Export Format
//
//  1. Implement RecordExporter in internal/exporters/
//
//     type NDJSONExporter struct{}
//
//     func (NDJSONExporter) Export(w io.Writer, records []entities.BorrowRecord) error
//     func (NDJSONExporter) ContentType() string { return "application/x-ndjson" }
//     func (NDJSONExporter) Extension() string   { return "ndjson" }
//
//  2. Add the format to ParseFormat and ForFormat.
//
//  3. Add a compile-time check to checks.go.
//
// # Adding a New Database Domain
//
//  1. Create sub-package: internal/database/<domain>/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Declare the store interface the service needs in internal/services.
//
//  4. Register the model in database.Models and add a compile-time check.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go.
package interfaces
