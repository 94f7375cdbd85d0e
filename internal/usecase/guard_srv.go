package usecase

import (
	"context"
	"fmt"

	"user-management/internal/data/entity"
	"user-management/internal/data/repository"
	"user-management/pkg/apperror"

	"go.uber.org/zap"
)

// GuardService turns a presented bearer token into a live, active user and
// checks role membership.
type GuardService interface {
	CurrentUser(ctx context.Context, token string) (*entity.User, error)
	RequireRole(user *entity.User, role entity.RoleName) error
}

type guardService struct {
	auth     AuthService
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewGuardService(auth AuthService, userRepo repository.UserRepository, log *zap.Logger) GuardService {
	return &guardService{
		auth:     auth,
		userRepo: userRepo,
		log:      log,
	}
}

func (g *guardService) CurrentUser(ctx context.Context, token string) (*entity.User, error) {
	identity, err := g.auth.VerifyToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	user, err := g.userRepo.FindByID(ctx, identity.UserID)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeInternal, err, "failed to resolve current user")
	}

	// a username mismatch means the id was reused or the account renamed
	if user == nil || user.Username != identity.Username {
		g.log.Warn("Token subject no longer exists",
			zap.Int64("user_id", identity.UserID),
			zap.String("username", identity.Username))
		return nil, ErrUnauthorized
	}

	if !user.IsActive() {
		g.log.Warn("Inactive user presented a token",
			zap.Int64("user_id", user.ID),
			zap.String("status", string(user.Status)))
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, ErrInactiveUser)
	}

	return user, nil
}

func (g *guardService) RequireRole(user *entity.User, role entity.RoleName) error {
	if user == nil {
		return ErrUnauthorized
	}
	if !user.HasRole(role) {
		g.log.Warn("Role check failed",
			zap.Int64("user_id", user.ID),
			zap.String("required_role", string(role)))
		return ErrForbidden
	}
	return nil
}
