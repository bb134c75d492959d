package advance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/staff-requests/internal"
	"github.com/frahmantamala/staff-requests/internal/core/events"
	coreuser "github.com/frahmantamala/staff-requests/internal/core/user"
	"github.com/frahmantamala/staff-requests/internal/notification"
	"github.com/frahmantamala/staff-requests/internal/workflow"
)

type RepositoryAPI interface {
	ListByUser(ctx context.Context, userID int64) ([]*AdvanceRequest, error)
	ListAll(ctx context.Context) ([]*AdvanceRequest, error)
	GetByID(ctx context.Context, id int64) (*AdvanceRequest, error)
	// Create inserts req and msgs atomically and fails with
	// ErrAdvanceDuplicate when the user already has a request for the month.
	Create(ctx context.Context, req *AdvanceRequest, msgs []notification.Message) ([]*notification.Notification, error)
	Decide(ctx context.Context, id int64, next workflow.Status, msg notification.Message) ([]*notification.Notification, error)
}

type Service struct {
	repo      RepositoryAPI
	directory coreuser.Directory
	policy    Policy
	logger    *slog.Logger
	Now       func() time.Time
}

func NewService(repo RepositoryAPI, directory coreuser.Directory, policy Policy, logger *slog.Logger) *Service {
	if policy.Location == nil {
		policy.Location = time.UTC
	}
	return &Service{
		repo:      repo,
		directory: directory,
		policy:    policy,
		logger:    logger,
		Now:       time.Now,
	}
}

func label(req *AdvanceRequest) notification.Details {
	return notification.Details{Label: fmt.Sprintf("de %s € pour %s", req.Amount.StringFixed(2), req.TargetMonth)}
}

func (s *Service) Create(ctx context.Context, actor internal.Actor, dto CreateAdvanceDTO) (*AdvanceRequest, []events.Event, error) {
	existing, err := s.repo.ListByUser(ctx, actor.UserID)
	if err != nil {
		s.logger.Error("failed to load existing advances", "error", err, "user_id", actor.UserID)
		return nil, nil, internal.NewInternalError("failed to create advance request", err)
	}

	now := s.Now().In(s.policy.Location)
	month, err := CanSubmit(now, existing, dto, s.policy)
	if err != nil {
		s.logger.Warn("advance request denied", "error", err, "user_id", actor.UserID)
		return nil, nil, err
	}

	submitter, err := s.directory.GetProfile(ctx, actor.UserID)
	if err != nil {
		return nil, nil, err
	}
	hrUsers, err := s.directory.HRUsers(ctx)
	if err != nil {
		return nil, nil, err
	}

	req := &AdvanceRequest{
		UserID:      actor.UserID,
		Amount:      dto.Amount.Round(2),
		Reason:      dto.Reason,
		TargetMonth: month,
		Status:      workflow.StatusPending,
	}
	msgs := notification.ForSubmission(notification.KindAdvance, *submitter, hrUsers, label(req))

	stored, err := s.repo.Create(ctx, req, msgs)
	if err != nil {
		if errors.Is(err, internal.ErrAdvanceDuplicate) {
			s.logger.Warn("concurrent advance for the same month", "user_id", actor.UserID, "target_month", month)
			return nil, nil, err
		}
		s.logger.Error("failed to store advance request", "error", err, "user_id", actor.UserID)
		return nil, nil, internal.NewInternalError("failed to create advance request", err)
	}

	s.logger.Info("advance request created",
		"advance_id", req.ID,
		"user_id", actor.UserID,
		"target_month", month,
		"notifications", len(stored))
	return req, notification.Events(stored), nil
}

func (s *Service) Decide(ctx context.Context, actor internal.Actor, id int64, dto DecisionDTO) (*AdvanceRequest, []events.Event, error) {
	if err := workflow.Authorize(actor); err != nil {
		s.logger.Warn("advance decision denied", "actor_id", actor.UserID, "advance_id", id)
		return nil, nil, err
	}
	next, err := workflow.ParseDecision(dto.Status)
	if err != nil {
		return nil, nil, err
	}

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, internal.ErrRequestNotFound) {
			return nil, nil, err
		}
		s.logger.Error("failed to load advance request", "error", err, "advance_id", id)
		return nil, nil, internal.NewInternalError("failed to load advance request", err)
	}
	if err := workflow.Decide(actor, req.Status, next); err != nil {
		s.logger.Warn("advance transition rejected", "error", err, "advance_id", id, "status", req.Status)
		return nil, nil, err
	}

	msg := notification.ForDecision(notification.KindAdvance, req.UserID, next, label(req))
	stored, err := s.repo.Decide(ctx, id, next, msg)
	if err != nil {
		if errors.Is(err, internal.ErrInvalidTransition) {
			s.logger.Warn("advance already decided", "advance_id", id)
			return nil, nil, err
		}
		s.logger.Error("failed to store advance decision", "error", err, "advance_id", id)
		return nil, nil, internal.NewInternalError("failed to update advance request", err)
	}

	req.Status = next
	s.logger.Info("advance request decided", "advance_id", id, "status", next, "actor_id", actor.UserID)
	return req, notification.Events(stored), nil
}

func (s *Service) ListMine(ctx context.Context, actor internal.Actor) ([]*AdvanceRequest, error) {
	items, err := s.repo.ListByUser(ctx, actor.UserID)
	if err != nil {
		s.logger.Error("failed to list advances", "error", err, "user_id", actor.UserID)
		return nil, internal.NewInternalError("failed to list advance requests", err)
	}
	return items, nil
}

func (s *Service) ListAll(ctx context.Context, actor internal.Actor) ([]*AdvanceRequest, error) {
	if err := workflow.Authorize(actor); err != nil {
		return nil, err
	}
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to list advances", "error", err)
		return nil, internal.NewInternalError("failed to list advance requests", err)
	}
	return items, nil
}
