package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/BradenHooton/sitebase/internal/models"
	pkghttp "github.com/BradenHooton/sitebase/pkg/http"
)

// writeServiceError maps service sentinel errors to HTTP responses
func writeServiceError(w http.ResponseWriter, err error, notFound string) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		pkghttp.WriteValidationError(w, ve.Field, ve.Message)
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrBadRequest):
		pkghttp.WriteBadRequest(w, err.Error())
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, notFound)
	case errors.Is(err, models.ErrConflict):
		pkghttp.WriteConflict(w, "A record with the same unique value already exists")
	case errors.Is(err, models.ErrUnauthorized):
		pkghttp.WriteUnauthorized(w, "Invalid email or password")
	case errors.Is(err, models.ErrAccountDisabled):
		pkghttp.WriteForbidden(w, "Account is disabled")
	case errors.Is(err, models.ErrForbidden):
		pkghttp.WriteForbidden(w, "Forbidden")
	default:
		if !errors.Is(err, models.ErrInternalServer) {
			slog.Error("unmapped service error", slog.Any("error", err))
		}
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}
