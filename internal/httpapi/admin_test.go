package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZdravkoRistic/qtotal/internal/auth"
	"github.com/ZdravkoRistic/qtotal/internal/config"
	"github.com/ZdravkoRistic/qtotal/internal/inquiry"
)

func testAuthCfg() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
		AdminUsername:   "admin",
		AdminPassword:   "correct-password",
	}
}

func adminRouter(t *testing.T, svc InquiryService) (*gin.Engine, *auth.Manager) {
	t.Helper()
	cfg := testAuthCfg()
	m, err := auth.NewManager(cfg)
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	h := Handlers{Inquiries: svc, Auth: m, AuthCfg: cfg}

	r := gin.New()
	r.POST("/v1/auth/login", h.Login)
	admin := r.Group("/v1/admin", auth.RequireAccessToken(m))
	admin.GET("/inquiries", h.ListInquiries)
	admin.GET("/inquiries/:id", h.GetInquiry)
	return r, m
}

func bearerToken(t *testing.T, m *auth.Manager) string {
	t.Helper()
	pair, err := m.IssuePair(time.Now(), "admin", "admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return "Bearer " + pair.AccessToken
}

func TestLogin(t *testing.T) {
	r, _ := adminRouter(t, &fakeService{})

	w := postJSON(t, r, "/v1/auth/login", `{"username":"admin","password":"correct-password"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatalf("expected token pair")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r, _ := adminRouter(t, &fakeService{})

	w := postJSON(t, r, "/v1/auth/login", `{"username":"admin","password":"wrong"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestAdminListRequiresToken(t *testing.T) {
	r, _ := adminRouter(t, &fakeService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/inquiries", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestAdminList(t *testing.T) {
	svc := &fakeService{records: []inquiry.Record{
		{ID: "b", Name: "Marko", Status: inquiry.StatusEmailSent},
		{ID: "a", Name: "Ana", Status: inquiry.StatusCompleted},
	}}
	r, m := adminRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/inquiries?limit=5", nil)
	req.Header.Set("Authorization", bearerToken(t, m))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data  []inquiry.Record `json:"data"`
		Limit int              `json:"limit"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Data) != 2 || resp.Limit != 5 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAdminGetNotFound(t *testing.T) {
	svc := &fakeService{getErr: inquiry.ErrNotFound}
	r, m := adminRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/inquiries/nope", nil)
	req.Header.Set("Authorization", bearerToken(t, m))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestRateLimitFailsOpenWithoutRedis(t *testing.T) {
	r := gin.New()
	r.POST("/api/contact", RateLimit(nil, 1, time.Minute), Handlers{Inquiries: &fakeService{}}.SubmitContact)

	for i := 0; i < 3; i++ {
		w := postJSON(t, r, "/api/contact", `{"name":"Ana","email":"a@b.c","message":"m"}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("request %d: status = %d", i, w.Code)
		}
	}
}
