// Package userdata is the client for the user data service, the system of
// record for user accounts.
package userdata

import (
	"context"
	"net/http"
	"strconv"

	"github.com/kbukum/userservice/httpclient"
)

// DefaultBaseURL is used when neither config nor DATA_SERVICE_URL set one.
const DefaultBaseURL = "http://localhost:8082/api/users"

// Client calls the user data service. Errors are *httpclient.Error carrying
// the downstream status; callers translate them.
type Client struct {
	http *httpclient.Client
}

// New wraps an HTTP client pointed at the data service's users resource.
func New(c *httpclient.Client) *Client {
	return &Client{http: c}
}

func idPath(id int64, suffix string) string {
	return "/" + strconv.FormatInt(id, 10) + suffix
}

// Register creates a user.
func (c *Client) Register(ctx context.Context, reg Registration) (User, error) {
	return httpclient.DoEnvelope[User](ctx, c.http, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/register",
		Body:   reg,
	})
}

// List returns one page of users.
func (c *Client) List(ctx context.Context, page, size int) (Page, error) {
	return httpclient.DoEnvelope[Page](ctx, c.http, httpclient.Request{
		Method: http.MethodGet,
		Query: map[string]string{
			"page": strconv.Itoa(page),
			"size": strconv.Itoa(size),
		},
	})
}

// GetUserByID fetches a user.
func (c *Client) GetUserByID(ctx context.Context, id int64) (User, error) {
	return httpclient.DoEnvelope[User](ctx, c.http, httpclient.Request{
		Method: http.MethodGet,
		Path:   idPath(id, ""),
	})
}

// GetUserByEmail fetches a user with its password hash.
func (c *Client) GetUserByEmail(ctx context.Context, email string) (Credentials, error) {
	return httpclient.DoEnvelope[Credentials](ctx, c.http, httpclient.Request{
		Method: http.MethodGet,
		Path:   "/email",
		Query:  map[string]string{"value": email},
	})
}

// Update replaces a user's profile.
func (c *Client) Update(ctx context.Context, id int64, u Update) (User, error) {
	return httpclient.DoEnvelope[User](ctx, c.http, httpclient.Request{
		Method: http.MethodPut,
		Path:   idPath(id, ""),
		Body:   u,
	})
}

// Delete removes a user.
func (c *Client) Delete(ctx context.Context, id int64) error {
	_, err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodDelete,
		Path:   idPath(id, ""),
	})
	return err
}

// RecoverPassword sets a new password for id if the OTP is valid.
func (c *Client) RecoverPassword(ctx context.Context, id int64, req PasswordRecovery) error {
	_, err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodPatch,
		Path:   idPath(id, "/password"),
		Body:   req,
	})
	return err
}

// VerifyAccount marks id as verified.
func (c *Client) VerifyAccount(ctx context.Context, id int64) (AccountStatusResult, error) {
	return httpclient.DoEnvelope[AccountStatusResult](ctx, c.http, httpclient.Request{
		Method: http.MethodPatch,
		Path:   idPath(id, "/account_status"),
	})
}
