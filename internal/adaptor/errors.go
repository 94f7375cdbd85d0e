package adaptor

import (
	"net/http"

	"user-management/pkg/apperror"
	"user-management/pkg/utils"

	"go.uber.org/zap"
)

// WriteError maps a service error onto the response taxonomy. Client errors
// are logged at warn; anything untyped or internal is logged with its cause
// and answered with a generic 500.
func WriteError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	code := apperror.CodeOf(err)
	meta := apperror.MetadataFor(code)

	switch code {
	case apperror.CodeInternal:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, meta.PublicMessage)
		return

	case apperror.CodeUnauthorized, apperror.CodeForbidden:
		// one body for every auth failure; the cause stays in the log
		log.Warn(operation+" failed - unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, meta.PublicMessage)
		return
	}

	log.Warn(operation+" failed", zap.Error(err), zap.String("code", string(code)))

	typed := apperror.As(err)
	var details any
	if meta.DetailsAllowed {
		details = typed.Details()
	}
	utils.ResponseJSON(w, meta.HTTPStatus, false, typed.Message(), nil, details)
}
