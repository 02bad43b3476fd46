package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MuhammadMouostafa/library-management-system/internal/apperr"
	"github.com/MuhammadMouostafa/library-management-system/internal/audit"
	"github.com/MuhammadMouostafa/library-management-system/internal/entities"
	"github.com/MuhammadMouostafa/library-management-system/internal/services"
)

type AuditController struct {
	auditService *audit.Service
	pagination   Pagination
	log          *zap.Logger
}

func NewAuditController(auditService *audit.Service, pagination Pagination, log *zap.Logger) *AuditController {
	return &AuditController{auditService: auditService, pagination: pagination, log: log}
}

// GetAuditEvents returns paginated audit events, newest first.
// GET /api/v1/audit?type=
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	req, err := ac.pagination.parse(c)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}

	eventType := entities.AuditEventType(c.Query("type"))
	events, total, err := ac.auditService.GetEvents(c.Request.Context(), eventType, req.Limit, req.Offset())
	if err != nil {
		respondError(c, ac.log, apperr.Internal("Failed to load audit events", err))
		return
	}
	if events == nil {
		events = []entities.AuditEvent{}
	}

	c.JSON(http.StatusOK, pageBody("events", services.Page[entities.AuditEvent]{
		Items: events,
		Total: total,
		Page:  req.Page,
		Limit: req.Limit,
	}))
}

// GetEntityHistory returns every event recorded for one entity, oldest first.
// GET /api/v1/audit/:entityType/:id
func (ac *AuditController) GetEntityHistory(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	events, err := ac.auditService.History(c.Request.Context(), c.Param("entityType"), id)
	if err != nil {
		respondError(c, ac.log, apperr.Internal("Failed to load audit events", err))
		return
	}
	if events == nil {
		events = []entities.AuditEvent{}
	}
	c.JSON(http.StatusOK, events)
}
