package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/auth-service/internal/domain"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var seen []Event
	d.Subscribe(EventIdentityAuthenticated, func(_ context.Context, e Event) error {
		seen = append(seen, e)
		return nil
	})

	event := NewEvent(EventIdentityAuthenticated, "a@x.com", domain.RoleStudent)
	require.NoError(t, d.Publish(context.Background(), event))

	require.Len(t, seen, 1)
	assert.Equal(t, "a@x.com", seen[0].Subject)
	assert.Equal(t, domain.RoleStudent, seen[0].Role)
	assert.NotEmpty(t, seen[0].ID)
	assert.False(t, seen[0].Timestamp.IsZero())
}

func TestDispatcherContinuesAfterHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher()

	called := false
	d.Subscribe(EventIdentityLoggedOut, func(context.Context, Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventIdentityLoggedOut, func(context.Context, Event) error {
		called = true
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), NewEvent(EventIdentityLoggedOut, "a@x.com", "")))
	assert.True(t, called)
}

func TestDispatcherIgnoresUnsubscribedTypes(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), NewEvent(EventSessionRefreshed, "a@x.com", "")))
}
