package api

import (
	"database/sql"
	"log"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"

	intconfig "studio/internal/config"
	h "studio/internal/http/handlers"
	"studio/internal/http/middleware"
	"studio/internal/mailer"
)

func NewRouter(env intconfig.Env, db *sql.DB, sender mailer.Sender) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	handlers := h.New(env, db, sender)

	// Limiter covers the two surfaces an anonymous client can hammer.
	limiter := middleware.NewRateLimiter(env.RateLimitPerMin)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.Health)
		api.GET("/db-check", handlers.DBCheck)

		api.POST("/bookings", limiter.Middleware(), handlers.SubmitBooking)
		api.POST("/uploads/sign", limiter.Middleware(), handlers.SignUpload)

		admin := api.Group("/admin")
		admin.POST("/login", limiter.Middleware(), handlers.AdminLogin)
		admin.POST("/logout", handlers.AdminLogout)

		admin.GET("/bookings", handlers.ListBookings)
		admin.GET("/bookings/:id", handlers.GetBooking)
		admin.PUT("/bookings/:id", handlers.UpdateBooking)
		admin.POST("/bookings/:id/email", handlers.EmailCustomer)
		admin.GET("/bookings/:id/pdf", handlers.BookingPDF)
	}

	return r
}
