package ws

import (
	"log"

	"github.com/bbdolx/backend/internal/domain"
)

// HubNotifier implements service.Notifier using the WebSocket Hub.
// Delivery is best effort: the database row is the source of truth.
type HubNotifier struct {
	hub *Hub
}

func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyNewNotification(notif *domain.Notification) {
	evt, err := NewEvent(EventTypeNotificationNew, NotificationPayload{Notification: *notif})
	if err != nil {
		log.Printf("ws notifier: marshal error: %v", err)
		return
	}
	n.hub.SendToUser(notif.UserID, evt)
}
