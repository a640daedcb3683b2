package transport

import (
	"errors"
	"fmt"
)

var (
	ErrUsage             = errors.New("invalid usage")
	ErrAPI               = errors.New("serpapi request failed")
	ErrDecode            = errors.New("decode response")
	ErrInvalidDecoder    = fmt.Errorf("%w: invalid decoder, available: json, html, object", ErrUsage)
	ErrUnexpectedPayload = errors.New("unexpected payload shape")
)

// APIError is returned for any non-200 response. Message holds the server's
// "error" field, or the raw body when the body carries none.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Is(target error) bool {
	return target == ErrAPI
}

func isAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

func isUsageError(err error) bool {
	return errors.Is(err, ErrUsage)
}
