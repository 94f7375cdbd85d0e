// Package testutil holds in-memory stand-ins for the Postgres repositories
// and fixtures shared by usecase and HTTP tests.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"user-management/internal/data/entity"
	"user-management/internal/data/repository"
	"user-management/pkg/utils"
)

// Store backs both MemUserRepo and MemRoleRepo so role joins and cascades
// behave like the SQL schema.
type Store struct {
	mu        sync.Mutex
	users     map[int64]*entity.User
	roles     map[entity.RoleName]entity.Role
	nextUser  int64
	nextRole  int
	failCalls map[string]error
}

func NewStore() *Store {
	s := &Store{
		users:     make(map[int64]*entity.User),
		roles:     make(map[entity.RoleName]entity.Role),
		failCalls: make(map[string]error),
	}
	for _, name := range entity.KnownRoles {
		s.nextRole++
		s.roles[name] = entity.Role{ID: s.nextRole, Name: name}
	}
	return s
}

// FailOn makes every call of the named method return err until cleared with nil.
func (s *Store) FailOn(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failCalls, method)
		return
	}
	s.failCalls[method] = err
}

func (s *Store) fail(method string) error {
	return s.failCalls[method]
}

// Repository wires the store into the shape the services expect.
func (s *Store) Repository() *repository.Repository {
	return &repository.Repository{
		User: &MemUserRepo{s: s},
		Role: &MemRoleRepo{s: s},
	}
}

func clone(u *entity.User) *entity.User {
	cp := *u
	cp.Roles = append([]entity.Role{}, u.Roles...)
	if u.PhoneNumber != nil {
		phone := *u.PhoneNumber
		cp.PhoneNumber = &phone
	}
	if u.LastLogin != nil {
		at := *u.LastLogin
		cp.LastLogin = &at
	}
	return &cp
}

type MemUserRepo struct {
	s *Store
}

func (r *MemUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Create"); err != nil {
		return err
	}

	for _, existing := range r.s.users {
		if existing.Username == user.Username {
			return &repository.DuplicateError{Field: "username", Constraint: "user_account_username_key"}
		}
		if user.PhoneNumber != nil && existing.PhoneNumber != nil && *existing.PhoneNumber == *user.PhoneNumber {
			return &repository.DuplicateError{Field: "phone_number", Constraint: "user_account_phone_number_key"}
		}
	}

	roles := make([]entity.Role, 0, len(user.Roles))
	for _, role := range user.Roles {
		known, ok := r.s.roles[role.Name]
		if !ok {
			return fmt.Errorf("create user %s: %w", user.Username, repository.ErrUnknownRole)
		}
		roles = append(roles, known)
	}

	r.s.nextUser++
	user.ID = r.s.nextUser
	user.Roles = roles
	r.s.users[user.ID] = clone(user)
	return nil
}

func (r *MemUserRepo) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("FindByID"); err != nil {
		return nil, err
	}

	if user, ok := r.s.users[id]; ok {
		return clone(user), nil
	}
	return nil, nil
}

func (r *MemUserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("FindByUsername"); err != nil {
		return nil, err
	}

	for _, user := range r.s.users {
		if user.Username == username {
			return clone(user), nil
		}
	}
	return nil, nil
}

func (r *MemUserRepo) FindAll(ctx context.Context) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("FindAll"); err != nil {
		return nil, err
	}

	users := make([]*entity.User, 0, len(r.s.users))
	for _, user := range r.s.users {
		users = append(users, clone(user))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *MemUserRepo) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("UpdateLastLogin"); err != nil {
		return err
	}

	user, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.LastLogin = &at
	return nil
}

func (r *MemUserRepo) UpdateStatus(ctx context.Context, username string, status entity.UserStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("UpdateStatus"); err != nil {
		return err
	}

	for _, user := range r.s.users {
		if user.Username == username {
			user.Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *MemUserRepo) DeleteByUsername(ctx context.Context, username string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("DeleteByUsername"); err != nil {
		return err
	}

	for id, user := range r.s.users {
		if user.Username == username {
			delete(r.s.users, id)
			return nil
		}
	}
	return repository.ErrNotFound
}

type MemRoleRepo struct {
	s *Store
}

func (r *MemRoleRepo) FindAll(ctx context.Context) ([]entity.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	roles := make([]entity.Role, 0, len(r.s.roles))
	for _, role := range r.s.roles {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].ID < roles[j].ID })
	return roles, nil
}

func (r *MemRoleRepo) FindByNames(ctx context.Context, names []entity.RoleName) ([]entity.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	roles := []entity.Role{}
	for _, name := range names {
		if role, ok := r.s.roles[name]; ok {
			roles = append(roles, role)
		}
	}
	return roles, nil
}

func (r *MemRoleRepo) EnsureDefaults(ctx context.Context, names []entity.RoleName) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("EnsureDefaults"); err != nil {
		return err
	}

	for _, name := range names {
		if _, ok := r.s.roles[name]; !ok {
			r.s.nextRole++
			r.s.roles[name] = entity.Role{ID: r.s.nextRole, Name: name}
		}
	}
	return nil
}

// SeedUser inserts a user with a bcrypt-hashed password and returns it.
func (s *Store) SeedUser(t *testing.T, username, password string, status entity.UserStatus, roles ...entity.RoleName) *entity.User {
	t.Helper()

	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	user := &entity.User{
		Base:         entity.Base{CreatedAt: time.Now()},
		Fullname:     "Test " + username,
		Username:     username,
		PasswordHash: hash,
		Status:       status,
	}
	for _, name := range roles {
		user.Roles = append(user.Roles, entity.Role{Name: name})
	}

	if err := (&MemUserRepo{s: s}).Create(context.Background(), user); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

// TokenManager returns a signer with a fixed test secret.
func TokenManager(t *testing.T, opts ...utils.TokenOption) *utils.TokenManager {
	t.Helper()

	m, err := utils.NewTokenManager(utils.JWTConfig{
		Secret:        "test-secret",
		Issuer:        "user-management",
		ExpiryMinutes: 30,
	}, opts...)
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	return m
}
