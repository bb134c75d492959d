package notification

import (
	"time"

	notificationDatamodel "github.com/frahmantamala/staff-requests/internal/core/datamodel/notification"
)

// Kind names the request family a notification is about.
type Kind string

const (
	KindAdvance Kind = "ADVANCE"
	KindLeave   Kind = "LEAVE"
	KindService Kind = "SERVICE"
)

// ListLimit caps the bell dropdown.
const ListLimit = 20

// Message is a notification that has not been stored yet. Building one has
// no side effects.
type Message struct {
	RecipientID int64
	Title       string
	Body        string
	Kind        Kind
	Status      string
	Link        string
}

type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      Kind      `json:"type"`
	Status    *string   `json:"status,omitempty"`
	Link      *string   `json:"link,omitempty"`
	Read      bool      `json:"read"`
	Dismissed bool      `json:"dismissed"`
	CreatedAt time.Time `json:"created_at"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func ToDataModel(m Message) *notificationDatamodel.Notification {
	return &notificationDatamodel.Notification{
		UserID:  m.RecipientID,
		Title:   m.Title,
		Message: m.Body,
		Type:    string(m.Kind),
		Status:  optional(m.Status),
		Link:    optional(m.Link),
	}
}

func FromDataModel(n *notificationDatamodel.Notification) *Notification {
	return &Notification{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      Kind(n.Type),
		Status:    n.Status,
		Link:      n.Link,
		Read:      n.IsRead,
		Dismissed: n.IsDismissed,
		CreatedAt: n.CreatedAt,
	}
}

func (n *Notification) StatusValue() string {
	if n.Status == nil {
		return ""
	}
	return *n.Status
}

func (n *Notification) LinkValue() string {
	if n.Link == nil {
		return ""
	}
	return *n.Link
}
