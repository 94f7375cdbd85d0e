package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"user-management/internal/data/entity"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var userRowColumns = []string{"id", "fullname", "username", "phone_number", "password", "created_at", "last_login", "status"}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func newUser(roles ...entity.RoleName) *entity.User {
	user := &entity.User{
		Base:         entity.Base{CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		Fullname:     "Alice",
		Username:     "alice@mail.com",
		PasswordHash: "$2a$10$hash",
		Status:       entity.StatusActive,
	}
	for _, name := range roles {
		user.Roles = append(user.Roles, entity.Role{Name: name})
	}
	return user
}

func TestUserRepository_CreateCommits(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock, zap.NewNop())
	user := newUser(entity.RoleAdmin, entity.RoleUser)
	createdAt := time.Date(2024, 5, 1, 10, 0, 1, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO user_account").
		WithArgs(user.Fullname, user.Username, pgxmock.AnyArg(), user.PasswordHash, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), createdAt))
	mock.ExpectQuery("SELECT id, name FROM role WHERE name = ANY").
		WithArgs([]string{"admin", "user"}).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).
			AddRow(1, entity.RoleAdmin).
			AddRow(2, entity.RoleUser))
	mock.ExpectExec("INSERT INTO user_role").
		WithArgs(int64(7), 1).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO user_role").
		WithArgs(int64(7), 2).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), user)

	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, createdAt, user.CreatedAt)
	assert.Equal(t, []entity.Role{{ID: 1, Name: entity.RoleAdmin}, {ID: 2, Name: entity.RoleUser}}, user.Roles)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateWithoutRoles(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock, zap.NewNop())
	user := newUser()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO user_account").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(3), user.CreatedAt))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), user))
	assert.Empty(t, user.Roles)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateRollsBackOnUnknownRole(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock, zap.NewNop())
	user := newUser(entity.RoleAdmin, entity.RoleName("ghost"))

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO user_account").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), user.CreatedAt))
	mock.ExpectQuery("SELECT id, name FROM role WHERE name = ANY").
		WithArgs([]string{"admin", "ghost"}).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).AddRow(1, entity.RoleAdmin))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), user)

	require.ErrorIs(t, err, ErrUnknownRole)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateDuplicateUsername(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock, zap.NewNop())
	user := newUser(entity.RoleUser)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO user_account").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "user_account_username_key"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), user)

	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "username", dup.Field)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByUsernameMissing(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock, zap.NewNop())

	mock.ExpectQuery("FROM user_account WHERE username = ").
		WithArgs("ghost@mail.com").
		WillReturnError(pgx.ErrNoRows)

	user, err := repo.FindByUsername(context.Background(), "ghost@mail.com")

	require.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByIDWithoutRoles(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock, zap.NewNop())
	createdAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM user_account WHERE id = ").
		WithArgs(int64(4)).
		WillReturnRows(pgxmock.NewRows(userRowColumns).
			AddRow(int64(4), "Bob", "bob@mail.com", (*string)(nil), "hash", createdAt, (*time.Time)(nil), entity.StatusPending))
	mock.ExpectQuery("FROM user_role").
		WithArgs([]int64{4}).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "id", "name"}))

	user, err := repo.FindByID(context.Background(), 4)

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "bob@mail.com", user.Username)
	assert.Nil(t, user.PhoneNumber)
	assert.Nil(t, user.LastLogin)
	assert.Equal(t, entity.StatusPending, user.Status)
	assert.NotNil(t, user.Roles)
	assert.Empty(t, user.Roles)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindAllLoadsRolesInOneQuery(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock, zap.NewNop())
	createdAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	phone := "0812345678"

	mock.ExpectQuery(regexp.QuoteMeta("FROM user_account ORDER BY id")).
		WillReturnRows(pgxmock.NewRows(userRowColumns).
			AddRow(int64(1), "Admin", "admin@mail.com", &phone, "hash", createdAt, &createdAt, entity.StatusActive).
			AddRow(int64(2), "Alice", "alice@mail.com", (*string)(nil), "hash", createdAt, (*time.Time)(nil), entity.StatusPending))
	mock.ExpectQuery("FROM user_role").
		WithArgs([]int64{1, 2}).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "id", "name"}).
			AddRow(int64(1), 1, entity.RoleAdmin).
			AddRow(int64(1), 2, entity.RoleUser).
			AddRow(int64(2), 2, entity.RoleUser))

	users, err := repo.FindAll(context.Background())

	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, []entity.RoleName{entity.RoleAdmin, entity.RoleUser}, users[0].RoleNames())
	assert.Equal(t, []entity.RoleName{entity.RoleUser}, users[1].RoleNames())
	require.NotNil(t, users[0].PhoneNumber)
	assert.Equal(t, phone, *users[0].PhoneNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindAllEmpty(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock, zap.NewNop())

	mock.ExpectQuery(regexp.QuoteMeta("FROM user_account ORDER BY id")).
		WillReturnRows(pgxmock.NewRows(userRowColumns))

	users, err := repo.FindAll(context.Background())

	require.NoError(t, err)
	assert.Empty(t, users)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_NoRowsAffectedIsNotFound(t *testing.T) {
	ctx := context.Background()

	t.Run("delete", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewUserRepository(mock, zap.NewNop())
		mock.ExpectExec("DELETE FROM user_account").
			WithArgs("ghost@mail.com").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := repo.DeleteByUsername(ctx, "ghost@mail.com")

		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update status", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewUserRepository(mock, zap.NewNop())
		mock.ExpectExec("UPDATE user_account SET status").
			WithArgs("ghost@mail.com", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateStatus(ctx, "ghost@mail.com", entity.StatusActive)

		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update last login", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewUserRepository(mock, zap.NewNop())
		mock.ExpectExec("UPDATE user_account SET last_login").
			WithArgs(int64(9), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateLastLogin(ctx, 9, time.Now())

		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_DeleteExisting(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock, zap.NewNop())
	mock.ExpectExec("DELETE FROM user_account").
		WithArgs("alice@mail.com").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, repo.DeleteByUsername(context.Background(), "alice@mail.com"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_QueryFailureIsWrapped(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock, zap.NewNop())
	boom := errors.New("connection reset")

	mock.ExpectQuery("FROM user_account WHERE id = ").
		WithArgs(int64(1)).
		WillReturnError(boom)

	user, err := repo.FindByID(context.Background(), 1)

	assert.Nil(t, user)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
