package recovery

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kbukum/userservice/clients"
	"github.com/kbukum/userservice/clients/otp"
	"github.com/kbukum/userservice/clients/userdata"
	apperrors "github.com/kbukum/userservice/errors"
	"github.com/kbukum/userservice/logger"
	"github.com/kbukum/userservice/notification"
)

// Users is the slice of the user data service recovery needs.
type Users interface {
	GetUserByID(ctx context.Context, id int64) (userdata.User, error)
	GetUserByEmail(ctx context.Context, email string) (userdata.Credentials, error)
	RecoverPassword(ctx context.Context, id int64, req userdata.PasswordRecovery) error
}

// OtpIssuer requests one-time codes.
type OtpIssuer interface {
	RequestOtp(ctx context.Context, email string) (otp.Descriptor, error)
}

// Hasher hashes the new password before it leaves the service.
type Hasher interface {
	Hash(password string) (string, error)
}

// Notifier announces recovery events.
type Notifier interface {
	OtpRequested(ctx context.Context, c notification.Contact, recoveryURL string)
	PasswordChanged(ctx context.Context, c notification.Contact)
}

// OtpRequest asks for a recovery code.
type OtpRequest struct {
	Email string `json:"email" validate:"required,email,min=8,max=50"`
}

// ResetRequest sets a new password for a user id, authorised by the code.
type ResetRequest struct {
	Email    string `json:"email" validate:"required,email,min=8,max=50"`
	Otp      string `json:"otp" validate:"required,len=6,number"`
	Password string `json:"password" validate:"required,min=8,max=50,maxbytes=72,strongpassword"`
}

// Orchestrator runs both recovery steps.
type Orchestrator struct {
	users    Users
	otps     OtpIssuer
	hasher   Hasher
	notifier Notifier
	log      *logger.Logger
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(users Users, otps OtpIssuer, hasher Hasher, notifier Notifier, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		users:    users,
		otps:     otps,
		hasher:   hasher,
		notifier: notifier,
		log:      log.WithComponent("recovery"),
	}
}

// RequestOtp issues a recovery code for the account registered under email
// and emits OTP_REQUESTED with the recovery link.
func (o *Orchestrator) RequestOtp(ctx context.Context, email string) (otp.Descriptor, error) {
	owner, err := o.users.GetUserByEmail(ctx, email)
	if err != nil {
		return otp.Descriptor{}, clients.Translate(clients.ServiceUserData, err, clients.StatusMap{
			http.StatusNotFound: apperrors.UserNotFound,
		})
	}

	d, err := o.otps.RequestOtp(ctx, email)
	if err != nil {
		return otp.Descriptor{}, clients.Translate(clients.ServiceOtp, err, clients.StatusMap{
			http.StatusConflict: apperrors.OtpCreation,
		})
	}
	if !d.Created() {
		return otp.Descriptor{}, apperrors.OtpCreation().WithDetail("otp_status", d.Status)
	}

	o.log.WithContext(ctx).Info("Recovery code issued", logger.Fields(logger.FieldUserID, owner.ID))
	o.notifier.OtpRequested(ctx, notification.Contact{
		ID:    owner.ID,
		Name:  owner.Name,
		Email: owner.Email,
		Phone: owner.Phone,
	}, d.URL)
	return d, nil
}

// ResetPassword replaces the password of user id. The email in req must be
// the one on record for id; a mismatch is rejected before the code is sent
// anywhere.
func (o *Orchestrator) ResetPassword(ctx context.Context, id int64, req ResetRequest) error {
	user, err := o.users.GetUserByID(ctx, id)
	if err != nil {
		return clients.Translate(clients.ServiceUserData, err, clients.StatusMap{
			http.StatusNotFound: apperrors.UserNotFound,
		})
	}
	if user.Email != req.Email {
		return apperrors.EmailAndIDNotFromSameUser()
	}

	hashed, err := o.hasher.Hash(req.Password)
	if err != nil {
		return apperrors.Internal(fmt.Errorf("hash password: %w", err))
	}

	err = o.users.RecoverPassword(ctx, id, userdata.PasswordRecovery{
		Email:    req.Email,
		Otp:      req.Otp,
		Password: hashed,
	})
	if err != nil {
		return clients.Translate(clients.ServiceUserData, err, clients.StatusMap{
			http.StatusNotFound:         apperrors.UserNotFound,
			http.StatusMethodNotAllowed: apperrors.EmailAndIDNotFromSameUser,
			http.StatusBadRequest:       apperrors.InvalidOTP,
		})
	}

	o.log.WithContext(ctx).Info("Password reset", logger.Fields(logger.FieldUserID, id))
	o.notifier.PasswordChanged(ctx, notification.Contact{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Phone: user.Phone,
	})
	return nil
}
