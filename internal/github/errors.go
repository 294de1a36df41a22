package github

import (
	"errors"
	"fmt"

	"github.com/imroc/req/v3"
)

// ErrNotFound indicates the requested repository path does not exist.
var ErrNotFound = errors.New("remote path not found")

// TransportError wraps a failed remote request. These are retryable:
// re-running the sync repeats only the work that did not complete.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("remote request %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("remote request %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error { return e.Err }

// checkResponse converts a req error or non-2xx response into the package
// error taxonomy.
func checkResponse(resp *req.Response, err error, url string) error {
	if err != nil {
		return &TransportError{URL: url, Err: err}
	}
	if resp.StatusCode == 404 {
		return fmt.Errorf("%s: %w", url, ErrNotFound)
	}
	if !resp.IsSuccessState() {
		return &TransportError{URL: url, StatusCode: resp.StatusCode}
	}
	return nil
}
