package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"studio/internal/config"
	"studio/internal/http/middleware"
	"studio/internal/mailer"
)

// Handlers bundles the shared collaborators every endpoint needs.
type Handlers struct {
	Env    config.Env
	DB     *sql.DB
	Sender mailer.Sender
}

func New(env config.Env, db *sql.DB, sender mailer.Sender) *Handlers {
	if sender == nil {
		sender = mailer.New(env.MailAPIBaseURL, env.MailAPIKey)
	}
	return &Handlers{Env: env, DB: db, Sender: sender}
}

// RespondError sends standard error payload with request_id included.
func RespondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"ok":         false,
		"error":      message,
		"request_id": middleware.GetRequestID(c),
	})
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		RespondError(c, http.StatusBadRequest, "empty body")
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid payload")
		return false
	}
	return true
}
