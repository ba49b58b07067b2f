package apify

import "fmt"

// StatusRateLimit is the HTTP status Apify returns when the token is over
// its rate limit.
const StatusRateLimit = 429

// ConnectionError indicates the API could not be reached at all.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("apify: connection failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// APIError indicates the API answered with an unexpected status code.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("apify: %s", e.Message)
}

// RateLimitError indicates the request was rejected due to rate limiting.
type RateLimitError struct {
	StatusCode int
}

func (e *RateLimitError) Error() string {
	return "apify: rate limit exceeded"
}
