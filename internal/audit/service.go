package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/MuhammadMouostafa/library-management-system/internal/database/audit"
	"github.com/MuhammadMouostafa/library-management-system/internal/entities"
	"github.com/MuhammadMouostafa/library-management-system/internal/logging"
)

// Service provides high-level audit logging functionality. Events are
// written synchronously after the audited change has committed; a failed
// write is logged and otherwise ignored.
type Service struct {
	repo *audit.Repository
	log  *zap.Logger
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, log: logging.OrNop(log)}
}

// Log records a generic audit event.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	if event.IPAddress == "" {
		event.IPAddress = ClientIP(ctx)
	}
	return s.repo.LogEvent(ctx, event)
}

func (s *Service) record(ctx context.Context, event *entities.AuditEvent) {
	if err := s.Log(ctx, event); err != nil {
		s.log.Warn("Failed to log audit event",
			zap.String("action", event.Action),
			zap.Error(err))
	}
}

// LogBorrow records a new loan.
func (s *Service) LogBorrow(ctx context.Context, borrow *entities.Borrow) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventBorrow,
		Action:      "book_borrowed",
		Description: fmt.Sprintf("Borrower %d borrowed book %d", borrow.BorrowerID, borrow.BookID),
		EntityType:  "borrow",
		EntityID:    &borrow.ID,
		Metadata: metadata(map[string]any{
			"book_id":     borrow.BookID,
			"borrower_id": borrow.BorrowerID,
			"due_date":    borrow.DueDate,
		}),
		Status: entities.AuditStatusSuccess,
	}
	s.record(ctx, event)
}

// LogReturn records a return, flagging returns after the due date.
func (s *Service) LogReturn(ctx context.Context, borrow *entities.Borrow, overdue bool) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventReturn,
		Action:      "book_returned",
		Description: fmt.Sprintf("Borrower %d returned book %d", borrow.BorrowerID, borrow.BookID),
		EntityType:  "borrow",
		EntityID:    &borrow.ID,
		Metadata: metadata(map[string]any{
			"book_id":     borrow.BookID,
			"borrower_id": borrow.BorrowerID,
			"due_date":    borrow.DueDate,
			"return_date": borrow.ReturnDate,
		}),
		Status: entities.AuditStatusSuccess,
	}
	if overdue {
		event.Status = entities.AuditStatusOverdue
		event.Description += " after the due date"
	}
	s.record(ctx, event)
}

// LogCreate records a created book, borrower or category.
func (s *Service) LogCreate(ctx context.Context, entityType string, entityID uint) {
	s.logChange(ctx, entities.AuditEventCreate, "create", "Created", entityType, entityID)
}

// LogUpdate records an updated book, borrower or category.
func (s *Service) LogUpdate(ctx context.Context, entityType string, entityID uint) {
	s.logChange(ctx, entities.AuditEventUpdate, "update", "Updated", entityType, entityID)
}

// LogDelete records a deletion event.
func (s *Service) LogDelete(ctx context.Context, entityType string, entityID uint) {
	s.logChange(ctx, entities.AuditEventDelete, "delete", "Deleted", entityType, entityID)
}

func (s *Service) logChange(ctx context.Context, eventType entities.AuditEventType, verb, past, entityType string, entityID uint) {
	event := &entities.AuditEvent{
		EventType:   eventType,
		Action:      entityType + "_" + verb,
		Description: fmt.Sprintf("%s %s %d", past, entityType, entityID),
		EntityType:  entityType,
		EntityID:    &entityID,
		Status:      entities.AuditStatusSuccess,
	}
	s.record(ctx, event)
}

// GetEvents retrieves paginated audit events, optionally of one type.
func (s *Service) GetEvents(ctx context.Context, eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(ctx, eventType, limit, offset)
}

// History returns the events recorded for one entity, oldest first.
func (s *Service) History(ctx context.Context, entityType string, entityID uint) ([]entities.AuditEvent, error) {
	return s.repo.GetEventsForEntity(ctx, entityType, entityID)
}

func metadata(m map[string]any) string {
	b, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(b)
}
