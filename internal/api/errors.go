package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// ErrInvalidConfig is returned by New for an unusable configuration.
var ErrInvalidConfig = errors.New("invalid api config")

// APIError is a non-2xx response.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %d %s", e.Op, e.Status, e.Message)
}

// Temporary reports whether retrying later may succeed.
func (e *APIError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// newAPIError builds an APIError from a response body. The message is the
// body's "error" field when present, otherwise the status text.
func newAPIError(op string, status int, body []byte) *APIError {
	msg := http.StatusText(status)
	if gjson.ValidBytes(body) {
		if v := gjson.GetBytes(body, "error"); v.Exists() && v.String() != "" {
			msg = v.String()
		}
	}
	return &APIError{Op: op, Status: status, Message: msg}
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
