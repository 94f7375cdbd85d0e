package adaptor

import (
	"encoding/json"
	"net/http"

	"user-management/internal/dto/request"
	"user-management/internal/usecase"
	"user-management/pkg/utils"

	"go.uber.org/zap"
)

// maxBodyBytes caps admin JSON bodies; the DTOs are a few hundred bytes.
const maxBodyBytes = 4 << 10

// AdminHandler serves /admin/user. Every route sits behind the admin role check.
type AdminHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewAdminHandler(service usecase.UserService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		log:     log,
	}
}

// ListUsers handles GET /admin/user
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		WriteError(w, h.log, err, "list users")
		return
	}

	utils.ResponseSuccess(w, "Users retrieved successfully", users)
}

// CreateUser handles POST /admin/user
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req request.CreateUserRequest

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	user, err := h.service.CreateUser(r.Context(), &req)
	if err != nil {
		WriteError(w, h.log, err, "create user")
		return
	}

	utils.ResponseSuccess(w, "User created successfully", user)
}

// UpdateStatus handles PATCH /admin/user/status
func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateStatusRequest

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	user, err := h.service.UpdateStatus(r.Context(), &req)
	if err != nil {
		WriteError(w, h.log, err, "update user status")
		return
	}

	utils.ResponseSuccess(w, "User status updated successfully", user)
}

// DeleteUser handles DELETE /admin/user?username=
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")

	if err := h.service.DeleteUser(r.Context(), username); err != nil {
		WriteError(w, h.log, err, "delete user")
		return
	}

	utils.ResponseSuccess(w, "User deleted successfully", nil)
}
