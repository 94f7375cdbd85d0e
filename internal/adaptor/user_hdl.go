package adaptor

import (
	"net/http"
	"strconv"

	"user-management/internal/dto/request"
	"user-management/internal/usecase"
	"user-management/pkg/utils"

	"go.uber.org/zap"
)

type UserHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log,
	}
}

// GetProfile handles GET /user?username=&id=
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var q request.ProfileQuery
	q.Username = query.Get("username")

	if raw := query.Get("id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			utils.ResponseBadRequest(w, "Validation failed", map[string]string{"id": "Must be an integer"})
			return
		}
		q.ID = id
	}

	profile, err := h.service.GetProfile(r.Context(), q)
	if err != nil {
		WriteError(w, h.log, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "Profile retrieved successfully", profile)
}
