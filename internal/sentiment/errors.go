// Package sentiment provides a client for the sentiment aggregation service.
package sentiment

import "errors"

var (
	// ErrServiceUnavailable indicates the sentiment service is unreachable
	ErrServiceUnavailable = errors.New("sentiment service unavailable")

	// ErrConnectionFailed indicates the HTTP request could not be made
	ErrConnectionFailed = errors.New("sentiment connection failed")

	// ErrInvalidResponse indicates an unparseable response from the service
	ErrInvalidResponse = errors.New("invalid response from sentiment service")
)
