package recovery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/userservice/clients/otp"
	apperrors "github.com/kbukum/userservice/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubService struct {
	resetID  int64
	resetReq ResetRequest
	err      error
}

func (s *stubService) RequestOtp(context.Context, string) (otp.Descriptor, error) {
	return otp.Descriptor{ID: 3, Otp: "654321", UserID: 5, Status: "CREATED", URL: "http://x/5/password"}, s.err
}

func (s *stubService) ResetPassword(_ context.Context, id int64, req ResetRequest) error {
	s.resetID, s.resetReq = id, req
	return s.err
}

func newRouter(svc Service) *gin.Engine {
	h := NewHandler(svc)
	r := gin.New()
	r.POST("/auth/otp", h.RequestOtp)
	r.PATCH("/users/:id/password", h.ResetPassword)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestHandler_RequestOtp_HidesCode(t *testing.T) {
	rr := do(newRouter(&stubService{}), http.MethodPost, "/auth/otp", `{"email":"ana@example.com"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body)
	}
	if strings.Contains(rr.Body.String(), "654321") {
		t.Errorf("response leaks the code: %s", rr.Body)
	}
	var body map[string]any
	_ = json.Unmarshal(rr.Body.Bytes(), &body)
	if body["otp_status"] != "CREATED" || body["url"] != "http://x/5/password" {
		t.Errorf("body = %v", body)
	}
}

func TestHandler_RequestOtp_Invalid(t *testing.T) {
	rr := do(newRouter(&stubService{}), http.MethodPost, "/auth/otp", `{"email":"bad"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
	var fields []apperrors.FieldError
	if err := json.Unmarshal(rr.Body.Bytes(), &fields); err != nil || len(fields) == 0 || fields[0].Field != "email" {
		t.Errorf("body = %s", rr.Body)
	}
}

func TestHandler_ResetPassword(t *testing.T) {
	svc := &stubService{}
	rr := do(newRouter(svc), http.MethodPatch, "/users/5/password",
		`{"email":"ana@example.com","otp":"123456","password":"NewPass123"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body)
	}
	if svc.resetID != 5 || svc.resetReq.Otp != "123456" {
		t.Errorf("service got id=%d req=%+v", svc.resetID, svc.resetReq)
	}
}

func TestHandler_ResetPassword_Errors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		svcErr error
		want   int
	}{
		{"bad id", "/users/abc/password", `{}`, nil, http.StatusBadRequest},
		{"short otp", "/users/5/password", `{"email":"ana@example.com","otp":"123","password":"NewPass123"}`, nil, http.StatusBadRequest},
		{"signed otp", "/users/5/password", `{"email":"ana@example.com","otp":"-12345","password":"NewPass123"}`, nil, http.StatusBadRequest},
		{"plus otp", "/users/5/password", `{"email":"ana@example.com","otp":"+12345","password":"NewPass123"}`, nil, http.StatusBadRequest},
		{"decimal otp", "/users/5/password", `{"email":"ana@example.com","otp":"1.2345","password":"NewPass123"}`, nil, http.StatusBadRequest},
		{"password over 72 bytes", "/users/5/password", `{"email":"ana@example.com","otp":"123456","password":"Aa1` + strings.Repeat("é", 47) + `"}`, nil, http.StatusBadRequest},
		{"weak password", "/users/5/password", `{"email":"ana@example.com","otp":"123456","password":"newpass123"}`, nil, http.StatusBadRequest},
		{"mismatch", "/users/5/password", `{"email":"ana@example.com","otp":"123456","password":"NewPass123"}`, apperrors.EmailAndIDNotFromSameUser(), http.StatusBadRequest},
		{"downstream", "/users/5/password", `{"email":"ana@example.com","otp":"123456","password":"NewPass123"}`, apperrors.ExternalService("x", nil), http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(newRouter(&stubService{err: tt.svcErr}), http.MethodPatch, tt.path, tt.body)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rr.Code, tt.want, rr.Body)
			}
		})
	}
}
