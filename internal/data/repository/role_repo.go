package repository

import (
	"context"
	"fmt"

	"user-management/internal/data/entity"
	"user-management/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RoleRepository interface {
	FindAll(ctx context.Context) ([]entity.Role, error)
	FindByNames(ctx context.Context, names []entity.RoleName) ([]entity.Role, error)
	EnsureDefaults(ctx context.Context, names []entity.RoleName) error
}

type roleRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRoleRepository(db database.PgxIface, log *zap.Logger) RoleRepository {
	return &roleRepository{
		db:  db,
		log: log.With(zap.String("repository", "role")),
	}
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func scanRoles(rows pgx.Rows) ([]entity.Role, error) {
	defer rows.Close()

	roles := []entity.Role{}
	for rows.Next() {
		var role entity.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, fmt.Errorf("scan role row: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate role rows: %w", err)
	}
	return roles, nil
}

func findRolesByNames(ctx context.Context, q querier, names []entity.RoleName) ([]entity.Role, error) {
	raw := make([]string, len(names))
	for i, name := range names {
		raw[i] = string(name)
	}

	rows, err := q.Query(ctx, `SELECT id, name FROM role WHERE name = ANY($1) ORDER BY id`, raw)
	if err != nil {
		return nil, fmt.Errorf("find roles by names: %w", err)
	}
	return scanRoles(rows)
}

func (rr *roleRepository) FindAll(ctx context.Context) ([]entity.Role, error) {
	rows, err := rr.db.Query(ctx, `SELECT id, name FROM role ORDER BY id`)
	if err != nil {
		rr.log.Error("Failed to get roles", zap.Error(err))
		return nil, fmt.Errorf("find all roles: %w", err)
	}
	return scanRoles(rows)
}

func (rr *roleRepository) FindByNames(ctx context.Context, names []entity.RoleName) ([]entity.Role, error) {
	roles, err := findRolesByNames(ctx, rr.db, names)
	if err != nil {
		rr.log.Error("Failed to find roles", zap.Error(err))
		return nil, err
	}
	return roles, nil
}

// EnsureDefaults inserts any missing role names. Safe to run on every start.
func (rr *roleRepository) EnsureDefaults(ctx context.Context, names []entity.RoleName) error {
	for _, name := range names {
		_, err := rr.db.Exec(ctx,
			`INSERT INTO role (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`,
			string(name),
		)
		if err != nil {
			rr.log.Error("Failed to seed role", zap.Error(err), zap.String("role", string(name)))
			return fmt.Errorf("seed role %s: %w", name, err)
		}
	}
	return nil
}
