package repository

import (
	"user-management/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User UserRepository
	Role RoleRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User: NewUserRepository(db, log),
		Role: NewRoleRepository(db, log),
	}
}
