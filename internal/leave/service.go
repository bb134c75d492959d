package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/staff-requests/internal"
	"github.com/frahmantamala/staff-requests/internal/core/common/validation"
	"github.com/frahmantamala/staff-requests/internal/core/events"
	coreuser "github.com/frahmantamala/staff-requests/internal/core/user"
	"github.com/frahmantamala/staff-requests/internal/notification"
	"github.com/frahmantamala/staff-requests/internal/workflow"
)

type RepositoryAPI interface {
	ListByUser(ctx context.Context, userID int64) ([]*LeaveRequest, error)
	ListApprovedByUser(ctx context.Context, userID int64) ([]*LeaveRequest, error)
	ListAll(ctx context.Context) ([]*LeaveRequest, error)
	GetByID(ctx context.Context, id int64) (*LeaveRequest, error)
	Create(ctx context.Context, req *LeaveRequest, msgs []notification.Message) ([]*notification.Notification, error)
	Decide(ctx context.Context, id int64, next workflow.Status, msg notification.Message) ([]*notification.Notification, error)
}

type Service struct {
	repo       RepositoryAPI
	directory  coreuser.Directory
	allowances Allowances
	location   *time.Location
	logger     *slog.Logger
	Now        func() time.Time
}

func NewService(repo RepositoryAPI, directory coreuser.Directory, allowances Allowances, location *time.Location, logger *slog.Logger) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		repo:       repo,
		directory:  directory,
		allowances: allowances,
		location:   location,
		logger:     logger,
		Now:        time.Now,
	}
}

func label(req *LeaveRequest) notification.Details {
	return notification.Details{Label: fmt.Sprintf("(%s) du %s au %s",
		req.Type, req.StartDate.Format(dateLayout), req.EndDate.Format(dateLayout))}
}

func (s *Service) Create(ctx context.Context, actor internal.Actor, dto CreateLeaveDTO) (*LeaveRequest, []events.Event, error) {
	p, err := dto.parse()
	if err != nil {
		s.logger.Warn("leave request malformed", "error", err, "user_id", actor.UserID)
		return nil, nil, err
	}

	today := Today(s.Now(), s.location)
	if err := CanSubmit(today, p.Type, p.Start, p.End); err != nil {
		s.logger.Warn("leave request denied", "error", err, "user_id", actor.UserID, "type", p.Type)
		return nil, nil, err
	}
	if err := validation.ValidateReason(p.Reason, reasonMaxLength); err != nil {
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

	req := &LeaveRequest{
		UserID:    actor.UserID,
		Type:      p.Type,
		StartDate: p.Start,
		EndDate:   p.End,
		StartHalf: p.StartHalf,
		EndHalf:   p.EndHalf,
		Reason:    p.Reason,
		Status:    workflow.StatusPending,
	}
	msgs := notification.ForSubmission(notification.KindLeave, *submitter, hrUsers, label(req))

	stored, err := s.repo.Create(ctx, req, msgs)
	if err != nil {
		s.logger.Error("failed to store leave request", "error", err, "user_id", actor.UserID)
		return nil, nil, internal.NewInternalError("failed to create leave request", err)
	}

	s.logger.Info("leave request created",
		"leave_id", req.ID,
		"user_id", actor.UserID,
		"type", req.Type,
		"days", req.Days.String())
	return req, notification.Events(stored), nil
}

func (s *Service) Decide(ctx context.Context, actor internal.Actor, id int64, dto DecisionDTO) (*LeaveRequest, []events.Event, error) {
	if err := workflow.Authorize(actor); err != nil {
		s.logger.Warn("leave decision denied", "actor_id", actor.UserID, "leave_id", id)
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
		s.logger.Error("failed to load leave request", "error", err, "leave_id", id)
		return nil, nil, internal.NewInternalError("failed to load leave request", err)
	}
	if err := workflow.Decide(actor, req.Status, next); err != nil {
		s.logger.Warn("leave transition rejected", "error", err, "leave_id", id, "status", req.Status)
		return nil, nil, err
	}

	msg := notification.ForDecision(notification.KindLeave, req.UserID, next, label(req))
	stored, err := s.repo.Decide(ctx, id, next, msg)
	if err != nil {
		if errors.Is(err, internal.ErrInvalidTransition) {
			s.logger.Warn("leave already decided", "leave_id", id)
			return nil, nil, err
		}
		s.logger.Error("failed to store leave decision", "error", err, "leave_id", id)
		return nil, nil, internal.NewInternalError("failed to update leave request", err)
	}

	req.Status = next
	s.logger.Info("leave request decided", "leave_id", id, "status", next, "actor_id", actor.UserID)
	return req, notification.Events(stored), nil
}

func (s *Service) ListMine(ctx context.Context, actor internal.Actor) ([]*LeaveRequest, error) {
	items, err := s.repo.ListByUser(ctx, actor.UserID)
	if err != nil {
		s.logger.Error("failed to list leaves", "error", err, "user_id", actor.UserID)
		return nil, internal.NewInternalError("failed to list leave requests", err)
	}
	return items, nil
}

func (s *Service) ListAll(ctx context.Context, actor internal.Actor) ([]*LeaveRequest, error) {
	if err := workflow.Authorize(actor); err != nil {
		return nil, err
	}
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to list leaves", "error", err)
		return nil, internal.NewInternalError("failed to list leave requests", err)
	}
	return items, nil
}

func (s *Service) MyBalances(ctx context.Context, actor internal.Actor) (Balances, error) {
	approved, err := s.repo.ListApprovedByUser(ctx, actor.UserID)
	if err != nil {
		s.logger.Error("failed to load approved leaves", "error", err, "user_id", actor.UserID)
		return nil, internal.NewInternalError("failed to compute leave balances", err)
	}
	return ComputeBalances(approved, s.allowances), nil
}
