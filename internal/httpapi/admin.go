package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ZdravkoRistic/qtotal/internal/inquiry"
	"github.com/ZdravkoRistic/qtotal/pkg/logger"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListInquiries returns inquiries newest first with offset/limit paging.
// Admin only; routing attaches the access-token middleware.
func (h Handlers) ListInquiries(c *gin.Context) {
	offset := intQuery(c, "offset", 0)
	limit := intQuery(c, "limit", defaultPageSize)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}

	records, err := h.Inquiries.List(c.Request.Context(), offset, limit)
	if err != nil {
		logger.FromGin(c).Error("list inquiries failed", "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	if records == nil {
		records = []inquiry.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"data": records, "offset": offset, "limit": limit})
}

// GetInquiry returns a single record by id.
func (h Handlers) GetInquiry(c *gin.Context) {
	id := c.Param("id")
	rec, err := h.Inquiries.Get(c.Request.Context(), id)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"data": rec})
	case errors.Is(err, inquiry.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "inquiry not found"})
	default:
		logger.FromGin(c).Error("get inquiry failed", "inquiry_id", id, "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server error"})
	}
}

func intQuery(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
