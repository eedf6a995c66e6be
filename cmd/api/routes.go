package main

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/ZdravkoRistic/qtotal/internal/auth"
	"github.com/ZdravkoRistic/qtotal/internal/config"
	"github.com/ZdravkoRistic/qtotal/internal/httpapi"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, m *auth.Manager, rdb *redis.Client, cfg config.Config) {
	// public
	r.GET("/healthz", httpapi.Healthz)

	// Contact form and the confirmation link from the proposal email. Only
	// the form is rate limited; confirmation ids are already unguessable.
	api := r.Group("/api")
	{
		api.POST("/contact",
			httpapi.RateLimit(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window),
			h.SubmitContact,
		)
		api.GET("/confirm", h.ConfirmMeeting)
	}

	// admin API
	v1 := r.Group("/v1")
	{
		v1.POST("/auth/login", h.Login)

		admin := v1.Group("/admin")
		admin.Use(auth.RequireAccessToken(m))
		{
			admin.GET("/inquiries", h.ListInquiries)
			admin.GET("/inquiries/:id", h.GetInquiry)
		}
	}
}
