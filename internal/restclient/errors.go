package restclient

import "fmt"

const maxBodyInError = 512

// StatusError is returned for non-2xx responses
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.URL, e.StatusCode, truncate(e.Body))
}

// DecodeError is returned when a response body does not match the expected shape
type DecodeError struct {
	URL        string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to parse API response `%s` with status `%d` from %s: %v",
		truncate(e.Body), e.StatusCode, e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func truncate(b []byte) string {
	if len(b) <= maxBodyInError {
		return string(b)
	}
	return string(b[:maxBodyInError]) + "..."
}
