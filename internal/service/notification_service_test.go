package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/observability"
)

func TestNotificationServiceCountsEvents(t *testing.T) {
	ctx := context.Background()
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	NewNotificationService(dispatcher, zap.NewNop(), metrics, config.NotificationConfig{
		EmailFrom:  "noreply@example.com",
		WebhookURL: "http://hooks.local/desk",
	}).RegisterHandlers()

	actor := &domain.User{ID: "agent-1", Role: domain.RoleSupportAgent}
	for _, eventType := range events.AllEventTypes() {
		if err := dispatcher.Publish(ctx, events.NewEvent(eventType, "ticket-1", actor, nil)); err != nil {
			t.Fatalf("Publish(%s) error = %v", eventType, err)
		}
	}

	emitted := metrics.Snapshot().EventsEmitted
	for _, eventType := range events.AllEventTypes() {
		if emitted[string(eventType)] != 1 {
			t.Fatalf("events emitted = %v, missing %s", emitted, eventType)
		}
	}
}
