// Package clients holds the outbound service clients and the rule for
// turning their failures into client-facing errors.
package clients

import (
	"errors"

	apperrors "github.com/kbukum/userservice/errors"
	"github.com/kbukum/userservice/httpclient"
)

// Display names used in ExternalService errors.
const (
	ServiceUserData = "user data service"
	ServiceOtp      = "OTP service"
)

// StatusMap maps downstream HTTP statuses to client-facing errors.
type StatusMap map[int]func() *apperrors.AppError

// Translate maps a failed outbound call through byStatus. Statuses not in
// the map, timeouts, connection failures and undecodable answers all become
// ExternalService (503).
func Translate(service string, err error, byStatus StatusMap) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var hErr *httpclient.Error
	if errors.As(err, &hErr) && hErr.Code == httpclient.ErrCodeStatus {
		if mk, ok := byStatus[hErr.StatusCode]; ok {
			return mk().WithCause(err)
		}
	}
	return apperrors.ExternalService(service, err)
}
