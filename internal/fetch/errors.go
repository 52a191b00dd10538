package fetch

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
)

// Common errors returned by sources.
var (
	// ErrTransport indicates the request never produced a response.
	ErrTransport = errors.New("bibliography transport error")

	// ErrStatus indicates the server answered with a non-success status.
	ErrStatus = errors.New("bibliography request failed")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching %s: %s", e.URL, e.Status)
}

// Unwrap lets errors.Is match ErrStatus.
func (e *StatusError) Unwrap() error {
	return ErrStatus
}

// IsNotFound returns true if the error indicates the document does not exist,
// either as an HTTP 404 or a missing local file.
func IsNotFound(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode == http.StatusNotFound
	}
	return errors.Is(err, fs.ErrNotExist)
}
