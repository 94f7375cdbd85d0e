package usecase

import (
	"user-management/internal/data/repository"
	"user-management/pkg/metrics"
	"user-management/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth  AuthService
	Guard GuardService
	User  UserService
}

func NewService(
	repo *repository.Repository,
	tokens *utils.TokenManager,
	authMetrics *metrics.AuthMetrics,
	log *zap.Logger,
) *Service {
	auth := NewAuthService(repo.User, tokens, authMetrics, log)
	return &Service{
		Auth:  auth,
		Guard: NewGuardService(auth, repo.User, log),
		User:  NewUserService(repo, log),
	}
}
