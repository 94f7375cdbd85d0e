package wire

import (
	"user-management/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler) {
	// public: password grant
	r.Post("/auth/token", authHandler.Token)
}
