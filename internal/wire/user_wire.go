package wire

import (
	"user-management/internal/adaptor"
	"user-management/internal/usecase"
	"user-management/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	guard usecase.GuardService,
	log *zap.Logger,
) {
	// any active, authenticated user
	r.With(middleware.Authenticate(guard, log)).Get("/user", userHandler.GetProfile)
}
