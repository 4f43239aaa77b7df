package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/events"
)

func TestAuditServiceLogsProtocolEvents(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()

	audit := NewAuditService(dispatcher, zap.New(core))
	audit.RegisterHandlers()

	require.NoError(t, dispatcher.Publish(context.Background(),
		events.NewEvent(events.EventIdentityAuthenticated, "a@x.com", domain.RoleStudent)))

	entries := logs.FilterMessage("auth event").All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal(t, "identity_authenticated", fields["event_type"])
	assert.Equal(t, "a@x.com", fields["subject"])
	assert.Equal(t, "STUDENT", fields["role"])
}
