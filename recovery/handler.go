package recovery

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/userservice/clients/otp"
	"github.com/kbukum/userservice/server/middleware"
	"github.com/kbukum/userservice/server/respond"
	"github.com/kbukum/userservice/validation"
)

// Service is what the handlers drive. *Orchestrator implements it.
type Service interface {
	RequestOtp(ctx context.Context, email string) (otp.Descriptor, error)
	ResetPassword(ctx context.Context, id int64, req ResetRequest) error
}

// Handler exposes recovery over HTTP.
type Handler struct {
	svc Service
}

// NewHandler creates a Handler.
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// otpResponse is the OTP service's descriptor minus the otp field. The
// code never leaves this service over HTTP; the user receives it from the
// OTP service.
type otpResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	Status    string    `json:"otp_status"`
	URL       string    `json:"url"`
}

// RequestOtp handles POST /auth/otp. The body is {id, user_id, created_at,
// otp_status, url}; unlike the downstream descriptor it has no otp field.
func (h *Handler) RequestOtp(c *gin.Context) {
	var req OtpRequest
	if err := validation.BindJSON(c, &req); err != nil {
		respond.Error(c, err)
		return
	}
	d, err := h.svc.RequestOtp(c.Request.Context(), req.Email)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, otpResponse{
		ID:        d.ID,
		UserID:    d.UserID,
		CreatedAt: d.CreatedAt,
		Status:    d.Status,
		URL:       d.URL,
	})
}

// ResetPassword handles PATCH /users/:id/password.
func (h *Handler) ResetPassword(c *gin.Context) {
	id, err := middleware.ParseID(c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	var req ResetRequest
	if err := validation.BindJSON(c, &req); err != nil {
		respond.Error(c, err)
		return
	}
	if err := h.svc.ResetPassword(c.Request.Context(), id, req); err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "Password reset for user"})
}
