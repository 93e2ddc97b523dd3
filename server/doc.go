// Package server provides the HTTP server: Gin behind an h2c handler, a
// standard middleware stack and the /health probes.
//
// Routes are registered on API(), which is mounted at the configured
// context path. Unknown routes answer with the standard error body.
package server
