// Package notification publishes user lifecycle events (login, OTP request,
// registration, password change, account verification) to the event stream.
//
// Emit is fire-and-forget: the event is built synchronously and handed to a
// Sender on a background goroutine, so publish failures are logged and
// counted but never reach the HTTP caller. Close drains in-flight sends and
// is wired into shutdown through Component.
package notification
