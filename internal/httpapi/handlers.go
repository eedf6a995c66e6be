package httpapi

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZdravkoRistic/qtotal/internal/auth"
	"github.com/ZdravkoRistic/qtotal/internal/config"
	"github.com/ZdravkoRistic/qtotal/internal/inquiry"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, render.

// InquiryService is the surface the handlers need from the inquiry workflow.
type InquiryService interface {
	SubmitInquiry(ctx context.Context, req inquiry.SubmitRequest) (inquiry.SubmitResult, error)
	ConfirmMeeting(ctx context.Context, id string, timeIndex int) (inquiry.ConfirmResult, error)
	Get(ctx context.Context, id string) (inquiry.Record, error)
	List(ctx context.Context, offset, limit int) ([]inquiry.Record, error)
}

type Handlers struct {
	Inquiries InquiryService
	Auth      *auth.Manager
	AuthCfg   config.AuthConfig
}

// --- Auth ---

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login checks the configured admin credentials and issues a JWT token pair.
func (h Handlers) Login(c *gin.Context) {
	if h.Auth == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Username == "" || req.Password == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "username, password required"})
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.AuthCfg.AdminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.AuthCfg.AdminPassword)) == 1
	if !userOK || !passOK {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	pair, err := h.Auth.IssuePair(time.Now(), req.Username, "admin")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken})
}

// Healthz is the liveness endpoint.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
