package push

import (
	"context"
	"time"

	"github.com/frahmantamala/staff-requests/internal"
	"github.com/frahmantamala/staff-requests/internal/core/common/validation"
	pushDatamodel "github.com/frahmantamala/staff-requests/internal/core/datamodel/push"
)

// Subscription is a browser push endpoint registered by a user.
type Subscription struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Endpoint  string    `json:"endpoint"`
	Keys      Keys      `json:"keys"`
	CreatedAt time.Time `json:"created_at"`
}

type Keys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// SubscribeDTO mirrors the PushSubscription JSON produced by browsers.
type SubscribeDTO struct {
	Endpoint string `json:"endpoint"`
	Keys     Keys   `json:"keys"`
}

func (d SubscribeDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("endpoint", d.Endpoint).Required().MaxLength(2048)
	v.Field("keys.p256dh", d.Keys.P256dh).Required()
	v.Field("keys.auth", d.Keys.Auth).Required()
	return v.Validate()
}

// Payload is what the service worker receives and displays.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
	Icon  string `json:"icon,omitempty"`
}

// Result summarises one SendToUser fan-out.
type Result struct {
	Sent    int
	Failed  int
	Removed int
}

type RepositoryAPI interface {
	SaveIfAbsent(ctx context.Context, sub *Subscription) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]*Subscription, error)
	DeleteByID(ctx context.Context, id int64) error
}

// Sender delivers one payload to one endpoint. A non-2xx push service
// response comes back as a status code, not as an error.
type Sender interface {
	Send(ctx context.Context, sub Subscription, payload []byte) (int, error)
}

func ToDataModel(s *Subscription) *pushDatamodel.Subscription {
	return &pushDatamodel.Subscription{
		ID:        s.ID,
		UserID:    s.UserID,
		Endpoint:  s.Endpoint,
		P256dh:    s.Keys.P256dh,
		Auth:      s.Keys.Auth,
		CreatedAt: s.CreatedAt,
	}
}

func FromDataModel(s *pushDatamodel.Subscription) *Subscription {
	return &Subscription{
		ID:        s.ID,
		UserID:    s.UserID,
		Endpoint:  s.Endpoint,
		Keys:      Keys{P256dh: s.P256dh, Auth: s.Auth},
		CreatedAt: s.CreatedAt,
	}
}
