package devicecloud

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when no credentials or no thing id are configured.
var ErrNotConfigured = errors.New("devicecloud: client not configured")

// APIError is a non-2xx answer from the device cloud.
type APIError struct {
	// Op is "token" or "publish".
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("devicecloud: %s failed with status %d: %s", e.Op, e.StatusCode, e.Body)
}
