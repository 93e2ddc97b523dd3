package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
)

// Envelope is the response wrapper used by the user data and OTP services.
type Envelope[T any] struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       T               `json:"data"`
	Error      json.RawMessage `json:"error,omitempty"`
	StatusCode int             `json:"statusCode"`
	Timestamp  string          `json:"timestamp"`
}

// DoEnvelope executes req and returns the envelope's data. A non-2xx answer
// is returned as *Error without decoding.
func DoEnvelope[T any](ctx context.Context, c *Client, req Request) (T, error) {
	var zero T
	resp, err := c.Do(ctx, req)
	if err != nil {
		return zero, err
	}
	if len(resp.Body) == 0 {
		return zero, newDecodeError(c.config.Name, resp.StatusCode, nil, fmt.Errorf("empty response body"))
	}
	var env Envelope[T]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return zero, newDecodeError(c.config.Name, resp.StatusCode, resp.Body, err)
	}
	return env.Data, nil
}

func peekEnvelope(body []byte) (*Envelope[json.RawMessage], error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("empty body")
	}
	var env Envelope[json.RawMessage]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	return &env, nil
}
