package handlers

import (
	"crypto/subtle"
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"studio/internal/auth"
	"studio/internal/domain"
	"studio/internal/http/middleware"
	"studio/internal/repositories"
	"studio/internal/services"
	"studio/internal/utils"
)

type loginRequest struct {
	Password string `json:"password"`
}

type updateRequest struct {
	Changes map[string]any `json:"changes"`
}

type composeRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (h *Handlers) adminService(c *gin.Context) services.AdminService {
	return services.AdminService{
		Secret:    h.Env.AdminTokenSecret,
		From:      h.Env.MailFrom,
		Bookings:  repositories.BookingRepository{DB: h.DB},
		Events:    repositories.EventRepository{DB: h.DB},
		Sender:    h.Sender,
		RequestID: middleware.GetRequestID(c),
	}
}

// adminToken pulls the credential out of the cookie. Missing cookie is just an
// empty token; the verifier collapses every failure to the same 401.
func adminToken(c *gin.Context) string {
	token, err := c.Cookie(auth.CookieName)
	if err != nil {
		return ""
	}
	return token
}

func (h *Handlers) requireAdmin(c *gin.Context) bool {
	if !auth.VerifyToken(adminToken(c), h.Env.AdminTokenSecret) {
		RespondError(c, http.StatusUnauthorized, "unauthorized")
		return false
	}
	return true
}

// passwordMatches checks the supplied password against the configured secret,
// preferring the bcrypt hash when one is set.
func (h *Handlers) passwordMatches(password string) bool {
	if h.Env.AdminPasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(h.Env.AdminPasswordHash), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(h.Env.AdminPassword), []byte(password)) == 1
}

// POST /api/admin/login
func (h *Handlers) AdminLogin(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	if h.Env.AdminTokenSecret == "" || (h.Env.AdminPassword == "" && h.Env.AdminPasswordHash == "") {
		utils.LogEvent(middleware.GetRequestID(c), "admin", "login_misconfigured", "admin password or signing secret not set")
		RespondError(c, http.StatusInternalServerError, "admin login is not configured")
		return
	}

	if !h.passwordMatches(req.Password) {
		RespondError(c, http.StatusUnauthorized, "invalid password")
		return
	}

	token, err := auth.IssueToken(h.Env.AdminTokenSecret)
	if err != nil {
		utils.LogEvent(middleware.GetRequestID(c), "admin", "token_issue_failed", err.Error())
		RespondError(c, http.StatusInternalServerError, "failed to create session")
		return
	}

	c.Header("Set-Cookie", auth.CookieDirective(token, h.Env.CookieSecure()))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// POST /api/admin/logout
func (h *Handlers) AdminLogout(c *gin.Context) {
	c.Header("Set-Cookie", auth.ClearCookieDirective(h.Env.CookieSecure()))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /api/admin/bookings
func (h *Handlers) ListBookings(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	repo := repositories.BookingRepository{DB: h.DB}
	bookings, err := repo.List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, domain.StoreError{Err: err})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "bookings": bookings})
}

// GET /api/admin/bookings/:id
func (h *Handlers) GetBooking(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	repo := repositories.BookingRepository{DB: h.DB}
	rec, err := repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondDomainError(c, domain.NotFoundError{Resource: "booking"})
			return
		}
		RespondDomainError(c, domain.StoreError{Err: err})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "booking": rec})
}

// PUT /api/admin/bookings/:id
func (h *Handlers) UpdateBooking(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	var req updateRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := h.adminService(c)
	if err := svc.Update(c.Request.Context(), adminToken(c), c.Param("id"), req.Changes); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// POST /api/admin/bookings/:id/email
func (h *Handlers) EmailCustomer(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	var req composeRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := h.adminService(c)
	if err := svc.ComposeAndSend(c.Request.Context(), adminToken(c), c.Param("id"), req.Subject, req.Message); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /api/admin/bookings/:id/pdf
func (h *Handlers) BookingPDF(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	svc := services.DocsService{
		Bookings:  repositories.BookingRepository{DB: h.DB},
		RequestID: middleware.GetRequestID(c),
	}
	pdf, filename, err := svc.GenerateBookingSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondDomainError(c, domain.NotFoundError{Resource: "booking"})
			return
		}
		RespondDomainError(c, domain.StoreError{Err: err})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
