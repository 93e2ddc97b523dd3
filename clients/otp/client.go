// Package otp is the client for the one-time-password service.
package otp

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/userservice/httpclient"
)

// DefaultBaseURL is used when neither config nor AUTH_SERVICE_URL set one.
const DefaultBaseURL = "http://localhost:8082/api/v1/auth"

// StatusCreated is the status of a freshly issued code.
const StatusCreated = "CREATED"

// Descriptor describes an issued one-time password.
type Descriptor struct {
	ID        int64     `json:"id"`
	Otp       string    `json:"otp"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	Status    string    `json:"otp_status"`
	// URL is the password-recovery link sent to the user.
	URL string `json:"url"`
}

// Created reports whether the code was issued.
func (d Descriptor) Created() bool {
	return strings.EqualFold(d.Status, StatusCreated)
}

// Client requests codes from the OTP service.
type Client struct {
	http *httpclient.Client
}

// New wraps an HTTP client pointed at the OTP service.
func New(c *httpclient.Client) *Client {
	return &Client{http: c}
}

type request struct {
	Email string `json:"email"`
}

// RequestOtp asks the OTP service to issue a code for email.
func (c *Client) RequestOtp(ctx context.Context, email string) (Descriptor, error) {
	return httpclient.DoEnvelope[Descriptor](ctx, c.http, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/otp",
		Body:   request{Email: email},
	})
}
