package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/userservice/auth"
	"github.com/kbukum/userservice/auth/authctx"
	"github.com/kbukum/userservice/auth/jwt"
	apperrors "github.com/kbukum/userservice/errors"
	"github.com/kbukum/userservice/logger"
	"github.com/kbukum/userservice/observability"
	"github.com/kbukum/userservice/server/respond"
)

// Gin context keys holding the outcome of a rejected authentication.
const (
	AttrErrorStatus  = "auth.error.status"
	AttrErrorMessage = "auth.error.message"
)

// Stage is a step of the authentication pipeline.
type Stage string

const (
	StageStart          Stage = "start"
	StageRouteChecked   Stage = "route_checked"
	StageTokenExtracted Stage = "token_extracted"
	StageVerified       Stage = "verified"
	StageForwarded      Stage = "forwarded"
	StageRejected       Stage = "rejected"
)

// PublicRoutes decides which requests skip authentication.
type PublicRoutes interface {
	IsPublic(method, path string) bool
}

// DecisionRecorder counts gate decisions. *observability.Metrics implements it.
type DecisionRecorder interface {
	RecordAuthDecision(ctx context.Context, outcome, reason string)
}

// AuthConfig configures the bearer-token middleware.
type AuthConfig struct {
	Routes   PublicRoutes
	Verifier auth.TokenVerifier
	// Metrics is optional.
	Metrics DecisionRecorder
	// Log is optional; the global logger is used when nil.
	Log *logger.Logger
}

// Authenticate returns middleware that admits public routes untouched and
// otherwise requires a valid "Bearer <token>" Authorization header. On
// success the verified principal is attached to the request context.
func Authenticate(cfg AuthConfig) gin.HandlerFunc {
	log := cfg.Log
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	log = log.WithComponent("auth")

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		stage := StageStart

		if cfg.Routes != nil && cfg.Routes.IsPublic(c.Request.Method, c.Request.URL.Path) {
			stage = StageForwarded
			record(ctx, cfg.Metrics, stage, "public")
			c.Next()
			return
		}
		stage = StageRouteChecked

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			reject(c, cfg.Metrics, log, stage, "missing_token", apperrors.MissingToken())
			return
		}
		stage = StageTokenExtracted

		_, span := observability.StartSpan(ctx, observability.SpanTokenVerify)
		principal, err := cfg.Verifier.Verify(token)
		observability.EndSpan(span, err)
		if err != nil {
			reject(c, cfg.Metrics, log, stage, reasonFor(err), auth.Failure(err))
			return
		}
		stage = StageVerified

		ctx = authctx.WithPrincipal(ctx, principal)
		ctx = logger.ContextWithUserID(ctx, principal.UserID)
		c.Request = c.Request.WithContext(ctx)

		record(ctx, cfg.Metrics, StageForwarded, "verified")
		log.Debug("Request authenticated", logger.Fields(
			logger.FieldUserID, principal.UserID,
			"stage", string(stage),
		))
		c.Next()
	}
}

// AuthFailureResponder writes the rejection recorded on c and aborts. With
// nothing recorded it answers 401 "Unauthorized".
func AuthFailureResponder(c *gin.Context) {
	status := http.StatusUnauthorized
	message := http.StatusText(http.StatusUnauthorized)
	if v, ok := c.Get(AttrErrorStatus); ok {
		if s, ok := v.(int); ok && s > 0 {
			status = s
		}
	}
	if v, ok := c.Get(AttrErrorMessage); ok {
		if m, ok := v.(string); ok && m != "" {
			message = m
		}
	}
	c.Header("Cache-Control", "no-store")
	c.AbortWithStatusJSON(status, apperrors.ErrorResponse{
		Status:    status,
		Message:   message,
		Timestamp: respond.Now(),
	})
}

func reject(c *gin.Context, m DecisionRecorder, log *logger.Logger, at Stage, reason string, appErr *apperrors.AppError) {
	c.Set(AttrErrorStatus, appErr.HTTPStatus)
	c.Set(AttrErrorMessage, appErr.Message)
	record(c.Request.Context(), m, StageRejected, reason)

	fields := logger.Fields(
		logger.FieldMethod, c.Request.Method,
		logger.FieldPath, c.Request.URL.Path,
		"stage", string(at),
		"reason", reason,
	)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		log.WithError(appErr).Error("Token validation failed", fields)
	} else {
		log.Info("Request rejected", fields)
	}
	AuthFailureResponder(c)
}

func record(ctx context.Context, m DecisionRecorder, s Stage, reason string) {
	if m != nil {
		m.RecordAuthDecision(ctx, string(s), reason)
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || scheme != "Bearer" {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func reasonFor(err error) string {
	switch {
	case errors.Is(err, jwt.ErrExpiredToken):
		return "expired"
	case errors.Is(err, jwt.ErrInvalidIssuer):
		return "invalid_issuer"
	case errors.Is(err, jwt.ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, jwt.ErrMalformedToken):
		return "malformed"
	default:
		return "unknown"
	}
}
