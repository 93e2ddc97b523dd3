// Package httpclient is the JSON client used to reach downstream services.
//
// Calls are never retried: each Do is one attempt bounded by the configured
// timeout and the caller's context. Non-2xx answers come back as *Error with
// the downstream status, which callers translate into domain errors.
//
//	c, err := httpclient.New(httpclient.Config{
//	    Name:    "user-data",
//	    BaseURL: "http://localhost:8082/api/users",
//	})
//	user, err := httpclient.DoEnvelope[User](ctx, c, httpclient.Request{
//	    Method: http.MethodGet,
//	    Path:   "/42",
//	})
package httpclient
