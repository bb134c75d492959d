package user

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/staff-requests/internal"
	coreuser "github.com/frahmantamala/staff-requests/internal/core/user"
)

const temporaryPasswordLength = 10

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*"

type RepositoryAPI interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	ListActiveByRole(ctx context.Context, role internal.Role) ([]*User, error)
	SetActive(ctx context.Context, id int64, active bool, reason *string) (bool, error)
	UpdateProfile(ctx context.Context, id int64, dto UpdateProfileDTO) (*User, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}

// WelcomeSender delivers the first-login credentials to a new collaborator.
type WelcomeSender interface {
	SendWelcome(ctx context.Context, u *User, temporaryPassword string) error
}

type Service struct {
	repo       RepositoryAPI
	welcome    WelcomeSender
	bcryptCost int
	logger     *slog.Logger
	Now        func() time.Time
}

func NewService(repo RepositoryAPI, welcome WelcomeSender, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		welcome:    welcome,
		bcryptCost: bcryptCost,
		logger:     logger,
		Now:        time.Now,
	}
}

func requireHR(actor internal.Actor) error {
	if !actor.IsHR() {
		return internal.ErrUnauthorized
	}
	return nil
}

func (s *Service) CreateCollaborator(ctx context.Context, actor internal.Actor, dto CreateCollaboratorDTO) (*CreatedCollaborator, error) {
	if err := requireHR(actor); err != nil {
		s.logger.Warn("create collaborator denied", "actor_id", actor.UserID)
		return nil, err
	}

	dto.Normalize()
	if err := dto.Validate(s.Now()); err != nil {
		s.logger.Warn("collaborator validation failed", "error", err, "actor_id", actor.UserID)
		return nil, err
	}

	if existing, err := s.repo.GetByEmail(ctx, dto.Email); err == nil && existing != nil {
		s.logger.Warn("collaborator email already registered", "user_id", existing.ID)
		return nil, internal.ErrUserAlreadyExists
	} else if err != nil && !errors.Is(err, internal.ErrUserNotFound) {
		s.logger.Error("failed to check existing collaborator", "error", err)
		return nil, internal.NewInternalError("failed to create collaborator", err)
	}

	password, err := GenerateTemporaryPassword(temporaryPasswordLength)
	if err != nil {
		return nil, internal.NewInternalError("failed to generate password", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	role, _ := internal.ParseRole(dto.Role)
	u := &User{
		Email:        dto.Email,
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		Phone:        dto.Phone,
		BirthDate:    dto.BirthDate,
		Role:         role,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, internal.ErrUserAlreadyExists) {
			s.logger.Warn("collaborator email already registered", "email_domain", emailDomain(dto.Email))
			return nil, err
		}
		s.logger.Error("failed to create collaborator", "error", err)
		return nil, internal.NewInternalError("failed to create collaborator", err)
	}

	s.logger.Info("collaborator created", "user_id", u.ID, "role", u.Role, "actor_id", actor.UserID)

	out := &CreatedCollaborator{User: u, WelcomeEmailSent: true}
	if s.welcome == nil {
		out.WelcomeEmailSent = false
		out.TemporaryPassword = password
		return out, nil
	}
	if err := s.welcome.SendWelcome(ctx, u, password); err != nil {
		s.logger.Error("welcome email failed", "error", internal.NewDeliveryError("email", err), "user_id", u.ID)
		out.WelcomeEmailSent = false
		out.TemporaryPassword = password
	}
	return out, nil
}

func (s *Service) Deactivate(ctx context.Context, actor internal.Actor, id int64, dto DeactivateDTO) (*User, error) {
	if err := requireHR(actor); err != nil {
		s.logger.Warn("deactivate denied", "actor_id", actor.UserID, "user_id", id)
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if id == actor.UserID {
		s.logger.Warn("HR user tried to deactivate themselves", "user_id", id)
		return nil, internal.NewBusinessRuleError("You cannot deactivate your own account", internal.ErrCodeUnauthorizedAccess)
	}
	reason := dto.Reason
	return s.setActive(ctx, id, false, &reason)
}

func (s *Service) Reactivate(ctx context.Context, actor internal.Actor, id int64) (*User, error) {
	if err := requireHR(actor); err != nil {
		s.logger.Warn("reactivate denied", "actor_id", actor.UserID, "user_id", id)
		return nil, err
	}
	return s.setActive(ctx, id, true, nil)
}

func (s *Service) setActive(ctx context.Context, id int64, active bool, reason *string) (*User, error) {
	ok, err := s.repo.SetActive(ctx, id, active, reason)
	if err != nil {
		s.logger.Error("failed to update user status", "error", err, "user_id", id)
		return nil, internal.NewInternalError("failed to update user", err)
	}
	if !ok {
		return nil, internal.ErrUserNotFound
	}
	s.logger.Info("user status changed", "user_id", id, "active", active)
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, actor internal.Actor) ([]*User, error) {
	if err := requireHR(actor); err != nil {
		return nil, err
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}
	return users, nil
}

func (s *Service) Me(ctx context.Context, actor internal.Actor) (*User, error) {
	u, err := s.repo.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, err
		}
		s.logger.Error("failed to load current user", "error", err, "user_id", actor.UserID)
		return nil, internal.NewInternalError("failed to load user", err)
	}
	return u, nil
}

func (s *Service) UpdateProfile(ctx context.Context, actor internal.Actor, dto UpdateProfileDTO) (*User, error) {
	if err := dto.Validate(s.Now()); err != nil {
		s.logger.Warn("profile validation failed", "error", err, "user_id", actor.UserID)
		return nil, err
	}
	u, err := s.repo.UpdateProfile(ctx, actor.UserID, dto)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, err
		}
		s.logger.Error("failed to update profile", "error", err, "user_id", actor.UserID)
		return nil, internal.NewInternalError("failed to update profile", err)
	}
	s.logger.Info("profile updated", "user_id", actor.UserID)
	return u, nil
}

func (s *Service) ChangePassword(ctx context.Context, actor internal.Actor, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}
	u, err := s.repo.GetByID(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.CurrentPassword)) != nil {
		s.logger.Warn("password change with wrong current password", "user_id", actor.UserID)
		return internal.NewValidationFieldError("current_password", "current password is incorrect", internal.ErrCodeWrongPassword)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(dto.NewPassword), s.bcryptCost)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}
	if err := s.repo.UpdatePasswordHash(ctx, actor.UserID, string(hash)); err != nil {
		s.logger.Error("failed to store new password", "error", err, "user_id", actor.UserID)
		return internal.NewInternalError("failed to update password", err)
	}
	s.logger.Info("password changed", "user_id", actor.UserID)
	return nil
}

// Directory methods used by fan-out and delivery.

func (s *Service) GetProfile(ctx context.Context, id int64) (*coreuser.Profile, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p := u.Profile()
	return &p, nil
}

func (s *Service) GetProfileByEmail(ctx context.Context, email string) (*coreuser.Profile, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	p := u.Profile()
	return &p, nil
}

// HRUsers returns the active HR accounts.
func (s *Service) HRUsers(ctx context.Context) ([]coreuser.Profile, error) {
	users, err := s.repo.ListActiveByRole(ctx, internal.RoleHR)
	if err != nil {
		s.logger.Error("failed to list HR users", "error", err)
		return nil, internal.NewInternalError("failed to list HR users", err)
	}
	out := make([]coreuser.Profile, 0, len(users))
	for _, u := range users {
		out = append(out, u.Profile())
	}
	return out, nil
}

func GenerateTemporaryPassword(n int) (string, error) {
	buf := make([]byte, n)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = passwordAlphabet[idx.Int64()]
	}
	return string(buf), nil
}

func emailDomain(email string) string {
	for i := len(email) - 1; i >= 0; i-- {
		if email[i] == '@' {
			return email[i+1:]
		}
	}
	return ""
}
