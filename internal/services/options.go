package services

import (
	"go.uber.org/zap"

	"github.com/MuhammadMouostafa/library-management-system/internal/logging"
)

// Options carries the collaborators shared by all services. Zero values
// are replaced with no-op implementations.
type Options struct {
	Logger  *zap.Logger
	Clock   Clock
	Auditor Auditor
	Metrics LendingMetrics
}

func (o Options) withDefaults() Options {
	o.Logger = logging.OrNop(o.Logger)
	if o.Clock == nil {
		o.Clock = systemClock
	}
	if o.Auditor == nil {
		o.Auditor = nopAuditor{}
	}
	if o.Metrics == nil {
		o.Metrics = nopMetrics{}
	}
	return o
}
