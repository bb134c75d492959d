package servicerequest

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/frahmantamala/staff-requests/internal"
	"github.com/frahmantamala/staff-requests/internal/core/events"
	coreuser "github.com/frahmantamala/staff-requests/internal/core/user"
	"github.com/frahmantamala/staff-requests/internal/notification"
	"github.com/frahmantamala/staff-requests/internal/workflow"
)

type RepositoryAPI interface {
	ListByUser(ctx context.Context, userID int64) ([]*ServiceRequest, error)
	ListAll(ctx context.Context) ([]*ServiceRequest, error)
	GetByID(ctx context.Context, id int64) (*ServiceRequest, error)
	Create(ctx context.Context, req *ServiceRequest, msgs []notification.Message) ([]*notification.Notification, error)
	Decide(ctx context.Context, id int64, next workflow.Status, msg notification.Message) ([]*notification.Notification, error)
}

type Service struct {
	repo      RepositoryAPI
	directory coreuser.Directory
	apiSecret string
	logger    *slog.Logger
}

// NewService takes the shared secret of the external channel. An empty
// secret disables CreateExternal.
func NewService(repo RepositoryAPI, directory coreuser.Directory, apiSecret string, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		apiSecret: apiSecret,
		logger:    logger,
	}
}

func label(req *ServiceRequest) notification.Details {
	if req.Source != SourceApp {
		return notification.Details{Label: fmt.Sprintf("(%s) via %s", req.Category, strings.ToLower(req.Source))}
	}
	return notification.Details{Label: fmt.Sprintf("(%s)", req.Category)}
}

func (s *Service) Create(ctx context.Context, actor internal.Actor, dto CreateServiceRequestDTO) (*ServiceRequest, []events.Event, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("service request validation failed", "error", err, "user_id", actor.UserID)
		return nil, nil, err
	}
	submitter, err := s.directory.GetProfile(ctx, actor.UserID)
	if err != nil {
		return nil, nil, err
	}
	return s.create(ctx, *submitter, &ServiceRequest{
		UserID:      actor.UserID,
		Category:    strings.TrimSpace(dto.Category),
		Subject:     strings.TrimSpace(dto.Subject),
		Description: strings.TrimSpace(dto.Description),
		Source:      SourceApp,
		Status:      workflow.StatusPending,
	})
}

// CreateExternal files a request for the collaborator with the given email.
func (s *Service) CreateExternal(ctx context.Context, dto ExternalServiceRequestDTO) (*ServiceRequest, []events.Event, error) {
	if s.apiSecret == "" || subtle.ConstantTimeCompare([]byte(dto.Secret), []byte(s.apiSecret)) != 1 {
		s.logger.Warn("external service request with a bad secret")
		return nil, nil, internal.ErrInvalidSecret
	}

	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, nil, err
	}

	submitter, err := s.directory.GetProfileByEmail(ctx, dto.Email)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			s.logger.Warn("external service request for unknown email")
		}
		return nil, nil, err
	}

	return s.create(ctx, *submitter, &ServiceRequest{
		UserID:      submitter.ID,
		Category:    dto.Category,
		Subject:     strings.TrimSpace(dto.Subject),
		Description: strings.TrimSpace(dto.Description),
		Source:      dto.Source,
		Status:      workflow.StatusPending,
	})
}

func (s *Service) create(ctx context.Context, submitter coreuser.Profile, req *ServiceRequest) (*ServiceRequest, []events.Event, error) {
	hrUsers, err := s.directory.HRUsers(ctx)
	if err != nil {
		return nil, nil, err
	}
	msgs := notification.ForSubmission(notification.KindService, submitter, hrUsers, label(req))

	stored, err := s.repo.Create(ctx, req, msgs)
	if err != nil {
		s.logger.Error("failed to store service request", "error", err, "user_id", submitter.ID)
		return nil, nil, internal.NewInternalError("failed to create service request", err)
	}

	s.logger.Info("service request created",
		"service_request_id", req.ID,
		"user_id", submitter.ID,
		"source", req.Source)
	return req, notification.Events(stored), nil
}

func (s *Service) Decide(ctx context.Context, actor internal.Actor, id int64, dto DecisionDTO) (*ServiceRequest, []events.Event, error) {
	if err := workflow.Authorize(actor); err != nil {
		s.logger.Warn("service decision denied", "actor_id", actor.UserID, "service_request_id", id)
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
		s.logger.Error("failed to load service request", "error", err, "service_request_id", id)
		return nil, nil, internal.NewInternalError("failed to load service request", err)
	}
	if err := workflow.Decide(actor, req.Status, next); err != nil {
		s.logger.Warn("service transition rejected", "error", err, "service_request_id", id, "status", req.Status)
		return nil, nil, err
	}

	msg := notification.ForDecision(notification.KindService, req.UserID, next, label(req))
	stored, err := s.repo.Decide(ctx, id, next, msg)
	if err != nil {
		if errors.Is(err, internal.ErrInvalidTransition) {
			return nil, nil, err
		}
		s.logger.Error("failed to store service decision", "error", err, "service_request_id", id)
		return nil, nil, internal.NewInternalError("failed to update service request", err)
	}

	req.Status = next
	s.logger.Info("service request decided", "service_request_id", id, "status", next, "actor_id", actor.UserID)
	return req, notification.Events(stored), nil
}

func (s *Service) ListMine(ctx context.Context, actor internal.Actor) ([]*ServiceRequest, error) {
	items, err := s.repo.ListByUser(ctx, actor.UserID)
	if err != nil {
		s.logger.Error("failed to list service requests", "error", err, "user_id", actor.UserID)
		return nil, internal.NewInternalError("failed to list service requests", err)
	}
	return items, nil
}

func (s *Service) ListAll(ctx context.Context, actor internal.Actor) ([]*ServiceRequest, error) {
	if err := workflow.Authorize(actor); err != nil {
		return nil, err
	}
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to list service requests", "error", err)
		return nil, internal.NewInternalError("failed to list service requests", err)
	}
	return items, nil
}
