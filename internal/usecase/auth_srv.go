package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"user-management/internal/data/entity"
	"user-management/internal/data/repository"
	"user-management/internal/dto/request"
	"user-management/internal/dto/response"
	"user-management/pkg/apperror"
	"user-management/pkg/metrics"
	"user-management/pkg/utils"

	"go.uber.org/zap"
)

// Identity is what a verified token says about its bearer.
type Identity struct {
	UserID    int64
	Username  string
	ExpiresAt time.Time
}

type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (*entity.User, error)
	IssueToken(user *entity.User) (*response.TokenResponse, error)
	VerifyToken(token string) (*Identity, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.TokenResponse, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *utils.TokenManager
	metrics  *metrics.AuthMetrics
	log      *zap.Logger
	now      func() time.Time
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokens *utils.TokenManager,
	authMetrics *metrics.AuthMetrics,
	log *zap.Logger,
) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		metrics:  authMetrics,
		log:      log,
		now:      time.Now,
	}
}

// Authenticate checks the password before the status, so an inactive
// account is only reported to a caller who knows its password.
func (s *authService) Authenticate(ctx context.Context, username, password string) (*entity.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		s.metrics.IncLogin(metrics.OutcomeError)
		return nil, apperror.Wrap(apperror.CodeInternal, err, "failed to find user")
	}

	if user == nil {
		utils.BurnPasswordCheck(password)
		s.metrics.IncLogin(metrics.OutcomeInvalidCredentials)
		s.log.Warn("User not found for login", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.metrics.IncLogin(metrics.OutcomeInvalidCredentials)
		s.log.Warn("Invalid password", zap.Int64("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive() {
		s.metrics.IncLogin(metrics.OutcomeInactiveUser)
		s.log.Warn("Inactive user tried to login",
			zap.Int64("user_id", user.ID),
			zap.String("status", string(user.Status)))
		return nil, ErrInactiveUser
	}

	now := s.now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.metrics.IncLogin(metrics.OutcomeError)
		return nil, apperror.Wrap(apperror.CodeInternal, err, "failed to record login")
	}
	user.LastLogin = &now

	s.metrics.IncLogin(metrics.OutcomeSuccess)
	s.log.Info("User authenticated",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username))

	return user, nil
}

func (s *authService) IssueToken(user *entity.User) (*response.TokenResponse, error) {
	token, _, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		s.log.Error("Failed to issue token", zap.Error(err), zap.Int64("user_id", user.ID))
		return nil, apperror.Wrap(apperror.CodeInternal, err, "failed to issue token")
	}

	return &response.TokenResponse{
		AccessToken: token,
		TokenType:   response.TokenTypeBearer,
		ExpiresIn:   int(s.tokens.TTL().Seconds()),
	}, nil
}

// VerifyToken is a pure signature and expiry check; it never reads the
// user store.
func (s *authService) VerifyToken(token string) (*Identity, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	identity := &Identity{
		UserID:   claims.UserID,
		Username: claims.Subject,
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}
	return identity, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.TokenResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	user, err := s.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, ErrInvalidCredentials) && !errors.Is(err, ErrInactiveUser) {
			s.log.Error("Login failed", zap.Error(err), zap.String("username", req.Username))
		}
		return nil, err
	}

	return s.IssueToken(user)
}
