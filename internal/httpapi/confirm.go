package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ZdravkoRistic/qtotal/internal/inquiry"
	"github.com/ZdravkoRistic/qtotal/pkg/logger"
)

// ConfirmMeeting handles the link the client clicks in the proposal email.
// The response is a standalone HTML page because the link opens in a browser,
// not in the frontend app.
//
// A missing id or time parameter is an invalid link and is rejected before
// any lookup. A present but non-numeric time is passed through as an
// out-of-range index so that not-found and already-confirmed still take
// precedence over invalid-slot.
func (h Handlers) ConfirmMeeting(c *gin.Context) {
	id := c.Query("id")
	timeStr := c.Query("time")
	if id == "" || timeStr == "" {
		renderPage(c, http.StatusBadRequest, pageInvalidLink, pageData{})
		return
	}

	idx, err := strconv.Atoi(timeStr)
	if err != nil {
		idx = -1
	}

	res, err := h.Inquiries.ConfirmMeeting(c.Request.Context(), id, idx)
	if err != nil {
		logger.FromGin(c).Error("confirm failed", "inquiry_id", id, "error", err)
		renderPage(c, http.StatusInternalServerError, pageServerError, pageData{Reason: err.Error()})
		return
	}

	data := pageData{
		ClientName:  res.ClientName,
		MeetingTime: res.MeetingTime,
		Reason:      res.Reason,
	}

	switch res.Outcome {
	case inquiry.OutcomeNotFound:
		renderPage(c, http.StatusNotFound, pageNotFound, data)
	case inquiry.OutcomeInvalidSlot:
		renderPage(c, http.StatusBadRequest, pageInvalidSlot, data)
	case inquiry.OutcomeAlreadyConfirmed:
		renderPage(c, http.StatusOK, pageAlreadyConfirmed, data)
	case inquiry.OutcomeBooked:
		renderPage(c, http.StatusOK, pageBooked, data)
	case inquiry.OutcomeBookingFailed:
		renderPage(c, http.StatusOK, pageBookingFailed, data)
	default:
		renderPage(c, http.StatusInternalServerError, pageServerError, data)
	}
}
