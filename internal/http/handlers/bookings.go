package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studio/internal/domain/models"
	"studio/internal/http/middleware"
	"studio/internal/repositories"
	"studio/internal/services"
)

func (h *Handlers) intakeService(c *gin.Context) services.IntakeService {
	return services.IntakeService{
		Enabled:     h.Env.BookingEnabled,
		APIKey:      h.Env.MailAPIKey,
		From:        h.Env.MailFrom,
		ShopInbox:   h.Env.ShopInbox,
		BlobBaseURL: h.Env.BlobPublicBaseURL,
		Sender:      h.Sender,
		Bookings:    repositories.BookingRepository{DB: h.DB},
		Events:      repositories.EventRepository{DB: h.DB},
		RequestID:   middleware.GetRequestID(c),
	}
}

// POST /api/bookings
func (h *Handlers) SubmitBooking(c *gin.Context) {
	var req models.BookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	reference, err := h.intakeService(c).Submit(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "reference": reference})
}
