// Package errors holds the sentinel errors shared by the service and API
// layers. Services wrap them with context; the API layer classifies them with
// errors.Is and picks the HTTP status.
package errors

import "errors"

var (
	// ErrNotFound: the requested record does not exist. Maps to 404.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation: the client's input broke a business rule. Maps to 400 and
	// the wrapped message is shown to the client.
	ErrValidation = errors.New("validation failed")

	// ErrConflict: the operation clashes with the current state. Maps to 409.
	ErrConflict = errors.New("resource conflict")

	// ErrPermission: the caller is known but not allowed. Maps to 403.
	ErrPermission = errors.New("permission denied")

	// ErrUnauthorized: missing or wrong credentials. Maps to 401.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited: the caller or the upstream gateway throttled the
	// request. Maps to 429.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrQuotaExceeded: the upstream gateway needs more credits. Maps to 402.
	ErrQuotaExceeded = errors.New("payment required")

	// ErrUpstream: the AI gateway failed for any other reason. Maps to 500
	// with a fixed message.
	ErrUpstream = errors.New("ai gateway error")

	// ErrInternal: anything unexpected. Maps to 500 with a generic message.
	ErrInternal = errors.New("internal server error")
)
