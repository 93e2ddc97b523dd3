// Package recovery implements the OTP-driven password reset workflow.
//
// A user who forgot their password asks for a one-time code by email
// (RequestOtp). The OTP service issues it and a notification carries the
// recovery link. The user then submits email, code and new password against
// their user id (ResetPassword). The email must belong to that id before the
// code is ever checked. No bearer token is involved at any step.
package recovery
