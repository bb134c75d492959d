package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeNotificationCreated = "notification.created"
)

// NotificationCreatedEvent is emitted once per persisted notification row,
// after the transaction that wrote it has committed.
type NotificationCreatedEvent struct {
	BaseEvent
	NotificationID int64  `json:"notification_id"`
	UserID         int64  `json:"user_id"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	Kind           string `json:"kind"`
	Status         string `json:"status,omitempty"`
	Link           string `json:"link,omitempty"`
}

func NewNotificationCreatedEvent(notificationID, userID int64, title, message, kind, status, link string) *NotificationCreatedEvent {
	return &NotificationCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeNotificationCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"notification_id": notificationID,
				"user_id":         userID,
				"title":           title,
				"message":         message,
				"kind":            kind,
				"status":          status,
				"link":            link,
			},
		},
		NotificationID: notificationID,
		UserID:         userID,
		Title:          title,
		Message:        message,
		Kind:           kind,
		Status:         status,
		Link:           link,
	}
}
