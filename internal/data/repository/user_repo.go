package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"user-management/internal/data/entity"
	"user-management/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindAll(ctx context.Context) ([]*entity.User, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	UpdateStatus(ctx context.Context, username string, status entity.UserStatus) error
	DeleteByUsername(ctx context.Context, username string) error
}

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

const userColumns = `id, fullname, username, phone_number, password, created_at, last_login, status`

func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Fullname,
		&user.Username,
		&user.PhoneNumber,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.LastLogin,
		&user.Status,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts the user and its role associations in one transaction.
// user.Roles is matched by name; on success ID, CreatedAt and role IDs are
// filled in. Nothing is persisted when any step fails.
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	if err := ur.create(ctx, user); err != nil {
		var dup *DuplicateError
		if !errors.As(err, &dup) && !errors.Is(err, ErrUnknownRole) {
			ur.log.Error("Failed to create user",
				zap.Error(err),
				zap.String("username", user.Username),
			)
		}
		return fmt.Errorf("create user %s: %w", user.Username, err)
	}

	return nil
}

func (ur *userRepository) create(ctx context.Context, user *entity.User) error {
	tx, err := ur.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	// no-op once committed
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO user_account (fullname, username, phone_number, password, created_at, last_login, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err = tx.QueryRow(ctx, query,
		user.Fullname,
		user.Username,
		user.PhoneNumber,
		user.PasswordHash,
		user.CreatedAt,
		user.LastLogin,
		user.Status,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return translateError(err)
	}

	roles := []entity.Role{}
	if len(user.Roles) > 0 {
		roles, err = findRolesByNames(ctx, tx, user.RoleNames())
		if err != nil {
			return err
		}
		if len(roles) != len(user.Roles) {
			return ErrUnknownRole
		}
	}

	for _, role := range roles {
		_, err := tx.Exec(ctx,
			`INSERT INTO user_role (user_id, role_id) VALUES ($1, $2)`,
			user.ID, role.ID,
		)
		if err != nil {
			return translateError(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", translateError(err))
	}

	user.Roles = roles
	return nil
}

func (ur *userRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM user_account WHERE id = $1`

	user, err := scanUser(ur.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by ID", zap.Error(err), zap.Int64("user_id", id))
		return nil, fmt.Errorf("find user by ID %d: %w", id, err)
	}

	if err := ur.loadRoles(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (ur *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM user_account WHERE username = $1`

	user, err := scanUser(ur.db.QueryRow(ctx, query, username))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by username", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("find user by username %s: %w", username, err)
	}

	if err := ur.loadRoles(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// FindAll returns every user ordered by id. Roles for the whole page are
// fetched with a single extra query.
func (ur *userRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM user_account ORDER BY id`

	rows, err := ur.db.Query(ctx, query)
	if err != nil {
		ur.log.Error("Failed to get all users", zap.Error(err))
		return nil, fmt.Errorf("find all users: %w", err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			ur.log.Error("Failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		ur.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate users rows: %w", err)
	}

	if err := ur.loadRoles(ctx, users...); err != nil {
		return nil, err
	}
	return users, nil
}

func (ur *userRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	result, err := ur.db.Exec(ctx, `UPDATE user_account SET last_login = $2 WHERE id = $1`, id, at)
	if err != nil {
		ur.log.Error("Failed to update last login", zap.Error(err), zap.Int64("user_id", id))
		return fmt.Errorf("update last login %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("update last login %d: %w", id, ErrNotFound)
	}
	return nil
}

func (ur *userRepository) UpdateStatus(ctx context.Context, username string, status entity.UserStatus) error {
	result, err := ur.db.Exec(ctx, `UPDATE user_account SET status = $2 WHERE username = $1`, username, status)
	if err != nil {
		ur.log.Error("Failed to update status", zap.Error(err), zap.String("username", username))
		return fmt.Errorf("update status %s: %w", username, translateError(err))
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("update status %s: %w", username, ErrNotFound)
	}
	return nil
}

// DeleteByUsername removes the user; user_role rows go with it through
// ON DELETE CASCADE, role rows are untouched.
func (ur *userRepository) DeleteByUsername(ctx context.Context, username string) error {
	result, err := ur.db.Exec(ctx, `DELETE FROM user_account WHERE username = $1`, username)
	if err != nil {
		ur.log.Error("Failed to delete user", zap.Error(err), zap.String("username", username))
		return fmt.Errorf("delete user %s: %w", username, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete user %s: %w", username, ErrNotFound)
	}

	ur.log.Info("User deleted", zap.String("username", username))
	return nil
}

func (ur *userRepository) loadRoles(ctx context.Context, users ...*entity.User) error {
	if len(users) == 0 {
		return nil
	}

	ids := make([]int64, len(users))
	byID := make(map[int64]*entity.User, len(users))
	for i, user := range users {
		ids[i] = user.ID
		byID[user.ID] = user
		user.Roles = []entity.Role{}
	}

	query := `
		SELECT ur.user_id, r.id, r.name
		FROM user_role ur
		JOIN role r ON r.id = ur.role_id
		WHERE ur.user_id = ANY($1)
		ORDER BY ur.user_id, r.id
	`

	rows, err := ur.db.Query(ctx, query, ids)
	if err != nil {
		ur.log.Error("Failed to load user roles", zap.Error(err), zap.Int("users", len(ids)))
		return fmt.Errorf("load user roles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID int64
		var role entity.Role
		if err := rows.Scan(&userID, &role.ID, &role.Name); err != nil {
			return fmt.Errorf("scan user role row: %w", err)
		}
		if user, ok := byID[userID]; ok {
			user.Roles = append(user.Roles, role)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate user role rows: %w", err)
	}
	return nil
}
