package httpclient

import "fmt"

// HTTPError reports a non-2xx response from a catalog server.
type HTTPError struct {
	StatusCode int
	URL        string
	Message    string
}

// Error returns the error message.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for URL %s: %s", e.StatusCode, e.URL, e.Message)
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, url, message string) error {
	return &HTTPError{
		StatusCode: statusCode,
		URL:        url,
		Message:    message,
	}
}
