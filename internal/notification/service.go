package notification

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/staff-requests/internal"
	"github.com/frahmantamala/staff-requests/internal/core/events"
)

// RepositoryAPI is scoped by owner on every call; a row that exists but
// belongs to someone else is reported as not found.
type RepositoryAPI interface {
	ListVisible(ctx context.Context, userID int64, limit int) ([]*Notification, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, userID, id int64) (bool, error)
	Dismiss(ctx context.Context, userID, id int64) (bool, error)
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context, actor internal.Actor) ([]*Notification, error) {
	items, err := s.repo.ListVisible(ctx, actor.UserID, ListLimit)
	if err != nil {
		s.logger.Error("failed to list notifications", "error", err, "user_id", actor.UserID)
		return nil, internal.NewInternalError("failed to list notifications", err)
	}
	return items, nil
}

func (s *Service) UnreadCount(ctx context.Context, actor internal.Actor) (int64, error) {
	n, err := s.repo.CountUnread(ctx, actor.UserID)
	if err != nil {
		s.logger.Error("failed to count unread notifications", "error", err, "user_id", actor.UserID)
		return 0, internal.NewInternalError("failed to count notifications", err)
	}
	return n, nil
}

func (s *Service) MarkRead(ctx context.Context, actor internal.Actor, id int64) error {
	ok, err := s.repo.MarkRead(ctx, actor.UserID, id)
	if err != nil {
		s.logger.Error("failed to mark notification read", "error", err, "notification_id", id)
		return internal.NewInternalError("failed to update notification", err)
	}
	if !ok {
		s.logger.Warn("mark read on unknown or foreign notification", "notification_id", id, "user_id", actor.UserID)
		return internal.ErrNotificationMissing
	}
	return nil
}

func (s *Service) Dismiss(ctx context.Context, actor internal.Actor, id int64) error {
	ok, err := s.repo.Dismiss(ctx, actor.UserID, id)
	if err != nil {
		s.logger.Error("failed to dismiss notification", "error", err, "notification_id", id)
		return internal.NewInternalError("failed to update notification", err)
	}
	if !ok {
		s.logger.Warn("dismiss on unknown or foreign notification", "notification_id", id, "user_id", actor.UserID)
		return internal.ErrNotificationMissing
	}
	s.logger.Info("notification dismissed", "notification_id", id, "user_id", actor.UserID)
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, actor internal.Actor) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, actor.UserID)
	if err != nil {
		s.logger.Error("failed to mark all notifications read", "error", err, "user_id", actor.UserID)
		return 0, internal.NewInternalError("failed to update notifications", err)
	}
	return n, nil
}

// Events turns freshly stored rows into the post-commit events that drive
// email and push delivery.
func Events(stored []*Notification) []events.Event {
	out := make([]events.Event, 0, len(stored))
	for _, n := range stored {
		out = append(out, events.NewNotificationCreatedEvent(
			n.ID, n.UserID, n.Title, n.Message, string(n.Type), n.StatusValue(), n.LinkValue(),
		))
	}
	return out
}
