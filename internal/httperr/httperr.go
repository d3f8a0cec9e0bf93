package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`

	ConflictingAppointmentID string `json:"conflicting_appointment_id,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

// Respond maps a use case error onto its HTTP representation.
// It reports false for errors it does not recognise, after writing a 500.
func Respond(c *gin.Context, err error) bool {
	if ce, ok := AsConflict(err); ok {
		c.JSON(http.StatusConflict, HTTPError{
			Code:                     "time_conflict",
			Message:                  "Time slot overlaps an existing appointment.",
			ConflictingAppointmentID: ce.ConflictingAppointmentID,
		})
		return true
	}

	if ve, ok := AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, HTTPError{
			Code:    ve.Code,
			Message: "Invalid request.",
			Field:   ve.Field,
		})
		return true
	}

	var nf NotFoundError
	if errors.As(err, &nf) {
		NotFound(c, nf.Entity+"_not_found", "Resource not found.")
		return true
	}

	var be BusinessError
	if errors.As(err, &be) {
		Write(c, http.StatusUnprocessableEntity, be.Code, "Operation not allowed.")
		return true
	}

	if IsExclusionConflict(err) {
		Write(c, http.StatusConflict, "constraint_violation", "Concurrent update rejected.")
		return true
	}

	Internal(c, "internal_error", "Unexpected error.")
	return false
}
