package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"user-management/internal/data/entity"
	"user-management/internal/data/repository"
	"user-management/internal/dto/request"
	"user-management/internal/dto/response"
	"user-management/pkg/apperror"
	"user-management/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	GetProfile(ctx context.Context, query request.ProfileQuery) (*response.UserResponse, error)
	ListUsers(ctx context.Context) ([]response.UserResponse, error)
	CreateUser(ctx context.Context, req *request.CreateUserRequest) (*response.UserResponse, error)
	UpdateStatus(ctx context.Context, req *request.UpdateStatusRequest) (*response.UserResponse, error)
	DeleteUser(ctx context.Context, username string) error
	SeedDefaults(ctx context.Context, seed utils.SeedConfig) error
}

type userService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewUserService(repo *repository.Repository, log *zap.Logger) UserService {
	return &userService{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

func (us *userService) GetProfile(ctx context.Context, query request.ProfileQuery) (*response.UserResponse, error) {
	var (
		user *entity.User
		err  error
	)

	switch {
	case query.ID > 0:
		user, err = us.repo.User.FindByID(ctx, query.ID)
	case query.Username != "":
		user, err = us.repo.User.FindByUsername(ctx, query.Username)
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeInternal, err, "failed to get profile")
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) ListUsers(ctx context.Context) ([]response.UserResponse, error) {
	users, err := us.repo.User.FindAll(ctx)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeInternal, err, "failed to get users")
	}

	us.log.Debug("Users retrieved", zap.Int("count", len(users)))
	return response.UsersToResponse(users), nil
}

func (us *userService) CreateUser(ctx context.Context, req *request.CreateUserRequest) (*response.UserResponse, error) {
	// 1. Validate request shape
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		us.log.Warn("Create user validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	// 2. Hash password
	// max=72 counts runes; bcrypt limits bytes
	hashedPassword, err := utils.HashPassword(req.Password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, validationError(map[string]string{"password": "Maximum length is 72 bytes"})
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeInternal, err, "failed to process password")
	}

	// 3. Build entity and check invariants
	user := &entity.User{
		Base:         entity.Base{CreatedAt: us.now()},
		Fullname:     strings.TrimSpace(req.Fullname),
		Username:     req.Username,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: hashedPassword,
		Status:       entity.StatusPending,
	}
	if user.PhoneNumber != nil && *user.PhoneNumber == "" {
		user.PhoneNumber = nil
	}
	if req.Status != "" {
		user.Status = entity.UserStatus(req.Status)
	}
	for _, role := range req.Roles {
		user.Roles = append(user.Roles, entity.Role{Name: entity.RoleName(role.Name)})
	}

	if errs := user.Validate(); errs != nil {
		return nil, validationError(errs)
	}

	// 4. Username must be free
	existing, err := us.repo.User.FindByUsername(ctx, user.Username)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeInternal, err, "failed to check username")
	}
	if existing != nil {
		return nil, ErrUserConflict.WithDetails(map[string]string{"username": "already taken"})
	}

	// 5. Insert; the unique constraints settle concurrent creates
	if err := us.repo.User.Create(ctx, user); err != nil {
		return nil, us.mapWriteError(err)
	}

	us.log.Info("User created",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username),
		zap.String("status", string(user.Status)))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) UpdateStatus(ctx context.Context, req *request.UpdateStatusRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	if err := us.repo.User.UpdateStatus(ctx, req.Username, entity.UserStatus(req.Status)); err != nil {
		return nil, us.mapWriteError(err)
	}

	user, err := us.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeInternal, err, "failed to reload user")
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	us.log.Info("User status changed",
		zap.String("username", req.Username),
		zap.String("status", req.Status))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) DeleteUser(ctx context.Context, username string) error {
	if username == "" {
		return validationError(map[string]string{"username": "This field is required"})
	}

	if err := us.repo.User.DeleteByUsername(ctx, username); err != nil {
		return us.mapWriteError(err)
	}
	return nil
}

// SeedDefaults makes sure every known role exists and, when enabled, that
// the bootstrap admin account is present and usable.
func (us *userService) SeedDefaults(ctx context.Context, seed utils.SeedConfig) error {
	if err := us.repo.Role.EnsureDefaults(ctx, entity.KnownRoles); err != nil {
		return err
	}
	if !seed.Enabled {
		return nil
	}

	existing, err := us.repo.User.FindByUsername(ctx, seed.AdminUsername)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	_, err = us.CreateUser(ctx, &request.CreateUserRequest{
		Fullname: seed.AdminFullname,
		Username: seed.AdminUsername,
		Password: seed.AdminPassword,
		Status:   string(entity.StatusActive),
		Roles:    []request.RoleRequest{{Name: string(entity.RoleAdmin)}},
	})
	// another instance may have seeded it concurrently
	if errors.Is(err, ErrUserConflict) {
		return nil
	}
	if err != nil {
		return err
	}

	us.log.Info("Bootstrap admin created", zap.String("username", seed.AdminUsername))
	return nil
}

func (us *userService) mapWriteError(err error) error {
	var dup *repository.DuplicateError
	var check *repository.CheckError

	switch {
	case errors.As(err, &dup):
		return ErrUserConflict.WithDetails(map[string]string{dup.Field: "already taken"})
	case errors.As(err, &check):
		return validationError(map[string]string{check.Field: "violates " + check.Constraint})
	case errors.Is(err, repository.ErrUnknownRole):
		return validationError(map[string]string{"roles": "Unknown role"})
	case errors.Is(err, repository.ErrNotFound):
		return ErrUserNotFound
	default:
		return apperror.Wrap(apperror.CodeInternal, err, "failed to write user")
	}
}
