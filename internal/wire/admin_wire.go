package wire

import (
	"user-management/internal/adaptor"
	"user-management/internal/data/entity"
	"user-management/internal/usecase"
	"user-management/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAdmin(
	r chi.Router,
	adminHandler *adaptor.AdminHandler,
	guard usecase.GuardService,
	log *zap.Logger,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Authenticate(guard, log))
		r.Use(middleware.RequireRole(guard, entity.RoleAdmin, log))

		r.Get("/user", adminHandler.ListUsers)
		r.Post("/user", adminHandler.CreateUser)
		r.Delete("/user", adminHandler.DeleteUser)
		r.Patch("/user/status", adminHandler.UpdateStatus)
	})
}
