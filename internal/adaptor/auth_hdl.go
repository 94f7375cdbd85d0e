package adaptor

import (
	"net/http"

	"user-management/internal/dto/request"
	"user-management/internal/usecase"
	"user-management/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log,
	}
}

// Token handles POST /auth/token (OAuth2 password grant, form encoded)
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		utils.ResponseBadRequest(w, "Invalid form body", nil)
		return
	}

	req := request.LoginRequest{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	token, err := h.service.Login(r.Context(), &req)
	if err != nil {
		WriteError(w, h.log, err, "login")
		return
	}

	utils.ResponseRaw(w, http.StatusOK, token)
}
