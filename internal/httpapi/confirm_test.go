package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ZdravkoRistic/qtotal/internal/inquiry"
)

func confirmRouter(svc InquiryService) *gin.Engine {
	r := gin.New()
	h := Handlers{Inquiries: svc}
	r.GET("/api/confirm", h.ConfirmMeeting)
	return r
}

func getPage(t *testing.T, r http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestConfirmInvalidLink(t *testing.T) {
	svc := &fakeService{}
	for _, path := range []string{
		"/api/confirm",
		"/api/confirm?id=abc",
		"/api/confirm?time=0",
	} {
		w := getPage(t, confirmRouter(svc), path)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d", path, w.Code)
		}
		if !strings.Contains(w.Body.String(), "Nevažeći link za potvrdu") {
			t.Fatalf("%s: missing invalid-link copy", path)
		}
	}
	if svc.confirmCalls != 0 {
		t.Fatalf("service called %d times for invalid links", svc.confirmCalls)
	}
}

func TestConfirmNonNumericTimePassedAsInvalidIndex(t *testing.T) {
	svc := &fakeService{confirmRes: inquiry.ConfirmResult{Outcome: inquiry.OutcomeNotFound}}
	w := getPage(t, confirmRouter(svc), "/api/confirm?id=abc&time=banana")
	if svc.confirmCalls != 1 || svc.lastIdx != -1 {
		t.Fatalf("expected one call with index -1, got calls=%d idx=%d", svc.confirmCalls, svc.lastIdx)
	}
	// Record checks decide the outcome, not the malformed index.
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestConfirmOutcomePages(t *testing.T) {
	tests := []struct {
		name       string
		res        inquiry.ConfirmResult
		wantStatus int
		wantBody   string
	}{
		{
			name:       "not found",
			res:        inquiry.ConfirmResult{Outcome: inquiry.OutcomeNotFound},
			wantStatus: http.StatusNotFound,
			wantBody:   "Kontakt nije pronađen",
		},
		{
			name:       "invalid slot",
			res:        inquiry.ConfirmResult{Outcome: inquiry.OutcomeInvalidSlot},
			wantStatus: http.StatusBadRequest,
			wantBody:   "Nevažeći termin",
		},
		{
			name: "already confirmed",
			res: inquiry.ConfirmResult{
				Outcome:     inquiry.OutcomeAlreadyConfirmed,
				MeetingTime: "Ponedeljak, 2. decembar u 10:00",
			},
			wantStatus: http.StatusOK,
			wantBody:   "Sastanak već zakazan",
		},
		{
			name: "booked",
			res: inquiry.ConfirmResult{
				Outcome:     inquiry.OutcomeBooked,
				ClientName:  "Ana",
				MeetingTime: "Ponedeljak, 2. decembar u 10:00",
				EventID:     "evt-1",
			},
			wantStatus: http.StatusOK,
			wantBody:   "Sastanak uspešno zakazan",
		},
		{
			name: "booking failed",
			res: inquiry.ConfirmResult{
				Outcome:     inquiry.OutcomeBookingFailed,
				MeetingTime: "Ponedeljak, 2. decembar u 10:00",
				Reason:      "calendar: event insert: timeout",
			},
			wantStatus: http.StatusOK,
			wantBody:   "Greška prilikom zakazivanja",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{confirmRes: tt.res}
			w := getPage(t, confirmRouter(svc), "/api/confirm?id=abc&time=0")
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			body := w.Body.String()
			if !strings.Contains(body, tt.wantBody) {
				t.Fatalf("body missing %q:\n%s", tt.wantBody, body)
			}
			if tt.res.MeetingTime != "" && !strings.Contains(body, tt.res.MeetingTime) {
				t.Fatalf("body missing meeting time %q", tt.res.MeetingTime)
			}
			if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
				t.Fatalf("Content-Type = %q", ct)
			}
		})
	}
}

func TestConfirmServiceError(t *testing.T) {
	svc := &fakeService{confirmErr: context.DeadlineExceeded}
	w := getPage(t, confirmRouter(svc), "/api/confirm?id=abc&time=0")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Server Greška") {
		t.Fatalf("missing server error copy")
	}
}

func TestConfirmPageEscapesRecordText(t *testing.T) {
	svc := &fakeService{confirmRes: inquiry.ConfirmResult{
		Outcome:     inquiry.OutcomeBooked,
		ClientName:  `<script>alert("x")</script>`,
		MeetingTime: "Ponedeljak, 2. decembar u 10:00",
	}}
	w := getPage(t, confirmRouter(svc), "/api/confirm?id=abc&time=0")
	if strings.Contains(w.Body.String(), "<script>") {
		t.Fatalf("client name not escaped")
	}
}
