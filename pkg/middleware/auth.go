package middleware

import (
	"net/http"
	"strings"

	"user-management/internal/data/entity"
	"user-management/internal/usecase"
	"user-management/pkg/apperror"
	"user-management/pkg/utils"

	"go.uber.org/zap"
)

// Authenticate resolves the bearer token into an active user and stores it in
// the request context. Every failure answers 401 with the same body.
func Authenticate(guard usecase.GuardService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				logger.Debug("Missing or malformed authorization header", zap.String("path", r.URL.Path))
				writeAuthError(w, logger, usecase.ErrUnauthorized)
				return
			}

			user, err := guard.CurrentUser(r.Context(), token)
			if err != nil {
				writeAuthError(w, logger, err)
				return
			}

			ctx := utils.SetUserContext(r.Context(), user)
			ctx = utils.SetTokenContext(ctx, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole must run after Authenticate.
func RequireRole(guard usecase.GuardService, role entity.RoleName, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, _ := utils.GetUserFromContext(r.Context())

			if err := guard.RequireRole(user, role); err != nil {
				logger.Warn("Role check rejected request",
					zap.String("role", string(role)),
					zap.String("path", r.URL.Path))
				writeAuthError(w, logger, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the credential from "Bearer <token>". The scheme is
// matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

func writeAuthError(w http.ResponseWriter, logger *zap.Logger, err error) {
	code := apperror.CodeOf(err)
	meta := apperror.MetadataFor(code)

	if code == apperror.CodeInternal {
		logger.Error("Failed to authenticate request", zap.Error(err))
		utils.ResponseInternalError(w, meta.PublicMessage)
		return
	}

	utils.ResponseUnauthorized(w, meta.PublicMessage)
}
