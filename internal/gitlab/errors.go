package gitlab

import (
	"errors"
	"fmt"
	"net/http"

	gl "gitlab.com/gitlab-org/api/client-go"
)

var (
	// ErrNotFound is returned when the host answers 404 for the requested object.
	ErrNotFound = errors.New("gitlab object not found")
	// ErrTransport covers every other failed host call.
	ErrTransport = errors.New("gitlab request failed")
)

// wrapError classifies a failed SDK call so callers can match on it with errors.Is.
func wrapError(op string, resp *gl.Response, err error) error {
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w: %w", op, ErrNotFound, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrTransport, err)
}
