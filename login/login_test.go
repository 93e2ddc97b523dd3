package login

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/userservice/auth/jwt"
	"github.com/kbukum/userservice/auth/keys"
	"github.com/kbukum/userservice/auth/password"
	"github.com/kbukum/userservice/clients/userdata"
	apperrors "github.com/kbukum/userservice/errors"
	"github.com/kbukum/userservice/httpclient"
	"github.com/kbukum/userservice/logger"
	"github.com/kbukum/userservice/notification"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUsers struct {
	creds map[string]userdata.Credentials
	err   error
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (userdata.Credentials, error) {
	if f.err != nil {
		return userdata.Credentials{}, f.err
	}
	c, ok := f.creds[email]
	if !ok {
		return userdata.Credentials{}, &httpclient.Error{Code: httpclient.ErrCodeStatus, StatusCode: http.StatusNotFound}
	}
	return c, nil
}

type fakeNotifier struct{ logins []int64 }

func (f *fakeNotifier) UserLogin(_ context.Context, c notification.Contact) {
	f.logins = append(f.logins, c.ID)
}

type countingRecorder struct{ n int }

func (r *countingRecorder) RecordTokenIssued(context.Context) { r.n++ }

type fixture struct {
	svc      *Service
	verifier *jwt.Verifier
	users    *fakeUsers
	notifier *fakeNotifier
	metrics  *countingRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	store := keys.NewStaticStore(&keys.Pair{Private: key, Public: &key.PublicKey})

	hasher := password.NewBcryptHasher(password.WithCost(4))
	hash, err := hasher.Hash("Secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	users := &fakeUsers{creds: map[string]userdata.Credentials{
		"ana@example.com": {ID: 5, Name: "Ana Maria", Email: "ana@example.com", Password: hash},
	}}
	n := &fakeNotifier{}
	m := &countingRecorder{}
	return &fixture{
		svc:      NewService(users, hasher, jwt.NewIssuer(jwt.Config{}, store), n, m, logger.Nop()),
		verifier: jwt.NewVerifier(jwt.Config{}, store),
		users:    users,
		notifier: n,
		metrics:  m,
	}
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	f := newFixture(t)
	token, err := f.svc.Login(context.Background(), Request{Email: "ana@example.com", Password: "Secret123"})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	p, err := f.verifier.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if p.UserID != 5 || p.Email != "ana@example.com" {
		t.Errorf("principal = %+v", p)
	}
	if len(f.notifier.logins) != 1 || f.notifier.logins[0] != 5 {
		t.Errorf("USER_LOGIN events = %v", f.notifier.logins)
	}
	if f.metrics.n != 1 {
		t.Errorf("tokens recorded = %d, want 1", f.metrics.n)
	}
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name  string
		req   Request
		setup func(f *fixture)
		want  apperrors.ErrorCode
	}{
		{"unknown email", Request{Email: "nobody@example.com", Password: "Secret123"}, nil, apperrors.ErrCodeUserNotFound},
		{"wrong password", Request{Email: "ana@example.com", Password: "Wrong1234"}, nil, apperrors.ErrCodeIncorrectPassword},
		{"data service down", Request{Email: "ana@example.com", Password: "Secret123"}, func(f *fixture) {
			f.users.err = errors.New("connection refused")
		}, apperrors.ErrCodeExternalService},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}
			_, err := f.svc.Login(context.Background(), tt.req)
			appErr, ok := apperrors.AsAppError(err)
			if !ok || appErr.Code != tt.want {
				t.Fatalf("err = %v, want %s", err, tt.want)
			}
			if len(f.notifier.logins) != 0 {
				t.Error("no USER_LOGIN expected on failure")
			}
		})
	}
}

func TestHandler_Login(t *testing.T) {
	f := newFixture(t)
	r := gin.New()
	r.POST("/auth/login", NewHandler(f.svc).Login)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"ok", `{"email":"ana@example.com","password":"Secret123"}`, http.StatusOK},
		{"missing password", `{"email":"ana@example.com"}`, http.StatusBadRequest},
		{"wrong password", `{"email":"ana@example.com","password":"Wrong1234"}`, http.StatusBadRequest},
		{"unknown", `{"email":"nobody@example.com","password":"Secret123"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			if rr.Code != tt.want {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.want, rr.Body)
			}
			if tt.want == http.StatusOK {
				var resp Response
				if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil || resp.Token == "" {
					t.Errorf("body = %s", rr.Body)
				}
				if rr.Header().Get("Cache-Control") != "no-store" {
					t.Error("token response must not be cached")
				}
			}
		})
	}
}
