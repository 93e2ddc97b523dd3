// Package login exchanges email and password for a bearer token.
package login

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/userservice/auth"
	"github.com/kbukum/userservice/auth/jwt"
	"github.com/kbukum/userservice/auth/password"
	"github.com/kbukum/userservice/clients"
	"github.com/kbukum/userservice/clients/userdata"
	apperrors "github.com/kbukum/userservice/errors"
	"github.com/kbukum/userservice/logger"
	"github.com/kbukum/userservice/notification"
	"github.com/kbukum/userservice/observability"
	"github.com/kbukum/userservice/server/respond"
	"github.com/kbukum/userservice/validation"
)

// Users looks up the stored credentials.
type Users interface {
	GetUserByEmail(ctx context.Context, email string) (userdata.Credentials, error)
}

// Verifier checks a password against its stored hash.
type Verifier interface {
	Verify(password, hash string) error
}

// Notifier announces successful logins.
type Notifier interface {
	UserLogin(ctx context.Context, c notification.Contact)
}

// IssueRecorder counts issued tokens.
type IssueRecorder interface {
	RecordTokenIssued(ctx context.Context)
}

// Request is the login body.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Response carries the issued token.
type Response struct {
	Token string `json:"token"`
}

// Service authenticates users.
type Service struct {
	users    Users
	verifier Verifier
	issuer   auth.TokenIssuer
	notifier Notifier
	metrics  IssueRecorder
	log      *logger.Logger
}

// NewService creates a login Service. metrics may be nil.
func NewService(users Users, verifier Verifier, issuer auth.TokenIssuer, notifier Notifier, metrics IssueRecorder, log *logger.Logger) *Service {
	return &Service{
		users:    users,
		verifier: verifier,
		issuer:   issuer,
		notifier: notifier,
		metrics:  metrics,
		log:      log.WithComponent("login"),
	}
}

// Login verifies the credentials and returns a signed token.
func (s *Service) Login(ctx context.Context, req Request) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return "", clients.Translate(clients.ServiceUserData, err, clients.StatusMap{
			http.StatusNotFound: apperrors.UserNotFound,
		})
	}

	if err := s.verifier.Verify(req.Password, user.Password); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			s.log.WithContext(ctx).Info("Login rejected", logger.Fields(logger.FieldUserID, user.ID, logger.FieldStatus, "incorrect_password"))
			return "", apperrors.IncorrectPassword()
		}
		return "", apperrors.Internal(fmt.Errorf("verify password: %w", err))
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanTokenIssue, attribute.Int64("user.id", user.ID))
	token, err := s.issuer.Issue(jwt.Identity{UserID: user.ID, Email: user.Email})
	observability.EndSpan(span, err)
	if err != nil {
		return "", apperrors.Internal(fmt.Errorf("issue token: %w", err))
	}
	if s.metrics != nil {
		s.metrics.RecordTokenIssued(ctx)
	}

	s.log.WithContext(ctx).Info("Login succeeded", logger.Fields(logger.FieldUserID, user.ID))
	s.notifier.UserLogin(ctx, notification.Contact{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Phone: user.Phone,
	})
	return token, nil
}

// Handler exposes Login over HTTP.
type Handler struct {
	svc *Service
}

// NewHandler creates a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req Request
	if err := validation.BindJSON(c, &req); err != nil {
		respond.Error(c, err)
		return
	}
	token, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	respond.OK(c, Response{Token: token})
}
