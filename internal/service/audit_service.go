package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/events"
)

// AuditService records protocol events to the structured log. It is the only
// subscriber shipped with the service; deployments can register further
// handlers on the same dispatcher.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to all protocol events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventIdentityRegistered, a.handleEvent)
	a.dispatcher.Subscribe(events.EventIdentityAuthenticated, a.handleEvent)
	a.dispatcher.Subscribe(events.EventSessionRefreshed, a.handleEvent)
	a.dispatcher.Subscribe(events.EventIdentityLoggedOut, a.handleEvent)
}

func (a *AuditService) handleEvent(_ context.Context, event events.Event) error {
	a.logger.Info("auth event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("subject", event.Subject),
		zap.String("role", string(event.Role)),
		zap.Time("timestamp", event.Timestamp))
	return nil
}
