// Package errors is the service-wide error taxonomy.
//
// Every failure that reaches a client is an *AppError whose Code selects the
// HTTP status from a single table (see StatusFor). The HTTP layer renders them
// through one responder as {status, message, timestamp}, or as a list of
// {field, message} for validation failures.
package errors
