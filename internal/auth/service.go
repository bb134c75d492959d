package auth

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/staff-requests/internal"
)

// Credentials is the slice of a user row that authentication needs.
type Credentials struct {
	UserID       int64
	Role         internal.Role
	PasswordHash string
	IsActive     bool
}

type RepositoryAPI interface {
	GetCredentialsByEmail(ctx context.Context, email string) (*Credentials, error)
	GetCredentialsByID(ctx context.Context, id int64) (*Credentials, error)
}

type Service struct {
	repo   RepositoryAPI
	tokens TokenGenerator
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, tokens TokenGenerator, logger *slog.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, logger: logger}
}

func (s *Service) Login(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	creds, err := s.repo.GetCredentialsByEmail(ctx, dto.Email)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			s.logger.Warn("login for unknown email")
			return AuthTokens{}, internal.ErrInvalidCredentials
		}
		s.logger.Error("failed to load credentials", "error", err)
		return AuthTokens{}, internal.NewInternalError("login failed", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.Warn("login with wrong password", "user_id", creds.UserID)
		return AuthTokens{}, internal.ErrInvalidCredentials
	}
	if !creds.IsActive {
		s.logger.Warn("login on a deactivated account", "user_id", creds.UserID)
		return AuthTokens{}, internal.ErrUserInactive
	}

	s.logger.Info("user logged in", "user_id", creds.UserID, "role", creds.Role)
	return s.issue(creds)
}

// Refresh issues a new pair. The user is reloaded so a deactivation or a
// role change takes effect at the next refresh.
func (s *Service) Refresh(ctx context.Context, dto RefreshTokenDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}
	claims, err := s.tokens.ValidateRefreshToken(dto.RefreshToken)
	if err != nil {
		return AuthTokens{}, err
	}
	creds, err := s.load(ctx, claims.UserID)
	if err != nil {
		return AuthTokens{}, err
	}
	return s.issue(creds)
}

// Authenticate resolves a bearer access token to the current actor.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (internal.Actor, error) {
	claims, err := s.tokens.ValidateAccessToken(accessToken)
	if err != nil {
		return internal.Actor{}, err
	}
	creds, err := s.load(ctx, claims.UserID)
	if err != nil {
		return internal.Actor{}, err
	}
	return internal.Actor{UserID: creds.UserID, Role: creds.Role}, nil
}

func (s *Service) load(ctx context.Context, userID int64) (*Credentials, error) {
	creds, err := s.repo.GetCredentialsByID(ctx, userID)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.ErrInvalidToken
		}
		s.logger.Error("failed to reload user", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("authentication failed", err)
	}
	if !creds.IsActive {
		return nil, internal.ErrUserInactive
	}
	return creds, nil
}

func (s *Service) issue(creds *Credentials) (AuthTokens, error) {
	access, err := s.tokens.GenerateAccessToken(creds.UserID, creds.Role)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to issue token", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(creds.UserID, creds.Role)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to issue token", err)
	}
	return AuthTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
	}, nil
}
