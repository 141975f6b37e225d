package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"studio/internal/domain"
	"studio/internal/http/middleware"
	"studio/internal/utils"
)

// RespondDomainError maps domain error kinds to HTTP responses. End users get
// generic messages; transport and store internals go to logs only.
func RespondDomainError(c *gin.Context, err error) {
	reqID := middleware.GetRequestID(c)

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		RespondError(c, http.StatusUnauthorized, "unauthorized")

	case domain.IsValidation(err):
		var v domain.ValidationError
		errors.As(err, &v)
		c.JSON(http.StatusBadRequest, gin.H{
			"ok":         false,
			"error":      v.Error(),
			"field":      v.Field,
			"request_id": reqID,
		})

	case domain.IsBadRequest(err):
		RespondError(c, http.StatusBadRequest, err.Error())

	case domain.IsNotFound(err):
		RespondError(c, http.StatusBadRequest, "booking not found")

	case errors.Is(err, domain.ErrServiceDisabled):
		RespondError(c, http.StatusServiceUnavailable, "booking is currently unavailable")

	case errors.Is(err, domain.ErrMisconfiguredTransport):
		RespondError(c, http.StatusServiceUnavailable, "booking is currently unavailable")

	case domain.IsSendFailed(err):
		utils.LogEvent(reqID, "http", "send_failed", err.Error())
		RespondError(c, http.StatusBadGateway, "failed to send email")

	case domain.IsStore(err):
		utils.LogEvent(reqID, "http", "store_error", err.Error())
		RespondError(c, http.StatusInternalServerError, "update failed")

	default:
		utils.LogEvent(reqID, "http", "internal_error", err.Error())
		RespondError(c, http.StatusInternalServerError, "internal error")
	}
}
