package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ZdravkoRistic/qtotal/internal/inquiry"
	"github.com/ZdravkoRistic/qtotal/pkg/logger"
)

// SubmitContact accepts a contact-form submission and runs the inquiry
// workflow. When the store is unreachable the submission is acknowledged
// with the echoed payload instead of failing, so the public form never
// shows an outage to the client.
func (h Handlers) SubmitContact(c *gin.Context) {
	var req inquiry.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	res, err := h.Inquiries.SubmitInquiry(c.Request.Context(), req)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{
			"message": "Message sent successfully!",
			"data":    res,
		})
	case errors.Is(err, inquiry.ErrInvalidArgument):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "name, email and message are required"})
	case errors.Is(err, inquiry.ErrStoreUnavailable):
		logger.FromGin(c).Warn("store unavailable, acknowledging without processing")
		c.JSON(http.StatusOK, gin.H{
			"message": "Message received (store offline)",
			"data":    req,
		})
	default:
		logger.FromGin(c).Error("submit failed", "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server error"})
	}
}
