package dashboard

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/staff-requests/internal"
	"github.com/frahmantamala/staff-requests/internal/workflow"
)

type RepositoryAPI interface {
	HRSummary(ctx context.Context) (*HRSummary, error)
	MyRequests(ctx context.Context, userID int64) (*MyRequests, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) HRSummary(ctx context.Context, actor internal.Actor) (*HRSummary, error) {
	if err := workflow.Authorize(actor); err != nil {
		s.logger.Warn("hr summary denied", "actor_id", actor.UserID)
		return nil, err
	}
	summary, err := s.repo.HRSummary(ctx)
	if err != nil {
		s.logger.Error("failed to compute hr summary", "error", err)
		return nil, internal.NewInternalError("failed to load dashboard", err)
	}
	return summary, nil
}

func (s *Service) MyRequests(ctx context.Context, actor internal.Actor) (*MyRequests, error) {
	mine, err := s.repo.MyRequests(ctx, actor.UserID)
	if err != nil {
		s.logger.Error("failed to list own requests", "error", err, "user_id", actor.UserID)
		return nil, internal.NewInternalError("failed to load dashboard", err)
	}
	return mine, nil
}
