package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/app/models/dto"
	"github.com/yigit/uniportal/internal/pkg/apperrors"
	"github.com/yigit/uniportal/internal/pkg/authapi"
	"github.com/yigit/uniportal/internal/pkg/metrics"
)

// AuthBackend is the subset of the auth backend client the service needs
type AuthBackend interface {
	Login(ctx context.Context, creds authapi.Credentials) (*authapi.Session, error)
	CurrentUser(ctx context.Context, session *authapi.Session) (*models.User, error)
}

// LoginResult is what a successful login yields
type LoginResult struct {
	Role    models.RoleType
	User    *models.User
	Session *authapi.Session
}

// AuthService handles role-scoped login submissions
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*LoginResult, error)
}

type authService struct {
	backend AuthBackend
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(backend AuthBackend, m *metrics.Metrics, logger zerolog.Logger) AuthService {
	return &authService{
		backend: backend,
		metrics: m,
		logger:  logger,
	}
}

// Login normalizes the role, submits the credentials and, only once that
// succeeded, fetches the current user. Nothing is retried.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*LoginResult, error) {
	role, err := models.ParseRole(req.Role)
	if err != nil {
		// Raw input is never used as a label
		s.metrics.ObserveLogin("unknown", metrics.OutcomeInvalidRole)
		return nil, err
	}
	roleLabel := role.Slug()

	if strings.TrimSpace(req.Email) == "" {
		s.metrics.ObserveLogin(roleLabel, metrics.OutcomeInvalidForm)
		return nil, fmt.Errorf("%w: email cannot be empty", apperrors.ErrValidationFailed)
	}
	if req.Password == "" {
		s.metrics.ObserveLogin(roleLabel, metrics.OutcomeInvalidForm)
		return nil, fmt.Errorf("%w: password cannot be empty", apperrors.ErrValidationFailed)
	}

	session, err := s.backend.Login(ctx, authapi.Credentials{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		s.metrics.ObserveLogin(roleLabel, loginOutcome(err))
		return nil, fmt.Errorf("login failed: %w", err)
	}

	user, err := s.backend.CurrentUser(ctx, session)
	if err != nil {
		s.metrics.ObserveLogin(roleLabel, metrics.OutcomeError)
		return nil, fmt.Errorf("failed to fetch current user: %w", err)
	}

	if user.RoleType != "" && user.RoleType != role {
		s.logger.Warn().
			Str("requestedRole", roleLabel).
			Str("userRole", user.RoleType.Slug()).
			Str("userID", user.ID).
			Msg("Auth backend returned a user with a different role")
	}

	s.metrics.ObserveLogin(roleLabel, metrics.OutcomeSuccess)
	return &LoginResult{
		Role:    role,
		User:    user,
		Session: session,
	}, nil
}

func loginOutcome(err error) string {
	if errors.Is(err, apperrors.ErrInvalidCredentials) ||
		errors.Is(err, apperrors.ErrPermissionDenied) ||
		errors.Is(err, apperrors.ErrValidationFailed) {
		return metrics.OutcomeRejected
	}
	return metrics.OutcomeError
}
