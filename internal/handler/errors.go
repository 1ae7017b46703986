package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/fleetdesk/internal/models"
)

// statusFor maps an error kind to its HTTP status. conflict is the status used
// for a duplicate that collides with an existing record.
func statusFor(kind models.ErrorKind, conflict int) int {
	switch kind {
	case models.KindMissingFields, models.KindInvalidID, models.KindInvalidCapacity, models.KindDuplicateDate:
		return http.StatusBadRequest
	case models.KindDuplicateID, models.KindDuplicateFlight:
		return conflict
	case models.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c echo.Context, err error, conflict int) error {
	kind := models.KindOf(err)
	status := statusFor(kind, conflict)

	if kind == "" {
		c.Logger().Error(err)
		return c.JSON(status, models.ErrorResponse{
			Error:   "internal_error",
			Message: "Internal server error",
			Code:    status,
		})
	}

	resp := models.ErrorResponse{
		Error:   string(kind),
		Message: err.Error(),
		Code:    status,
	}
	var e *models.Error
	if errors.As(err, &e) {
		resp.Message = e.Message
		resp.Fields = e.Fields
	}
	return c.JSON(status, resp)
}

func badRequest(c echo.Context, code, message string) error {
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   code,
		Message: message,
		Code:    http.StatusBadRequest,
	})
}
