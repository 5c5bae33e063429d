package service

import (
	"context"
	"fmt"

	"ai-helpdesk-be/internal/pkg/logger"
	internalWS "ai-helpdesk-be/internal/websocket"
	"ai-helpdesk-be/pkg/events"
	pktNats "ai-helpdesk-be/pkg/nats"
)

// NotificationDelivery defines how real-time updates reach clients.
// Implemented by the WebSocket Hub; fan-out stays scope-filtered so a
// client never sees an event for a partition it cannot read.
type NotificationDelivery interface {
	BroadcastScoped(scope string, notification internalWS.Notification)
}

type NotificationService struct {
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("events.document.indexed", "notif-service-worker", s.handleDocumentIndexed)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.document.indexed", nil)
}

func (s *NotificationService) handleDocumentIndexed(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	documentId, _ := payload["document_id"].(string)
	title, _ := payload["title"].(string)
	docScope, _ := payload["scope"].(string)

	if docScope == "" {
		// A scopeless event cannot be delivered safely; drop it.
		s.logger.Warn("NotificationService", "document.indexed event missing scope", map[string]interface{}{"document_id": documentId})
		return nil
	}

	s.delivery.BroadcastScoped(docScope, internalWS.Notification{
		Type:       events.TypeDocumentIndexed,
		DocumentId: documentId,
		Title:      title,
		Scope:      docScope,
		Message:    fmt.Sprintf("\"%s\" is now searchable", title),
	})

	return nil
}
