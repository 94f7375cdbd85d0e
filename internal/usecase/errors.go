package usecase

import "user-management/pkg/apperror"

// Authentication failures share CodeUnauthorized so the HTTP layer answers
// all of them with the same 401 body.
var (
	ErrInvalidCredentials = apperror.New(apperror.CodeUnauthorized, "invalid credentials")
	ErrInactiveUser       = apperror.New(apperror.CodeUnauthorized, "inactive user")
	ErrInvalidToken       = apperror.New(apperror.CodeUnauthorized, "invalid token")
	ErrUnauthorized       = apperror.New(apperror.CodeUnauthorized, "could not validate credentials")
	ErrForbidden          = apperror.New(apperror.CodeForbidden, "insufficient role")
	ErrUserNotFound       = apperror.New(apperror.CodeNotFound, "user not found")
	ErrUserConflict       = apperror.New(apperror.CodeConflict, "user already exists")
	ErrValidation         = apperror.New(apperror.CodeValidation, "validation failed")
)

func validationError(errs map[string]string) error {
	return ErrValidation.WithDetails(errs)
}
