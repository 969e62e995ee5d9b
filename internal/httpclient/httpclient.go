package httpclient

import (
	"net/http"
	"time"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// New returns a plain client bounded by timeout. A zero timeout means no
// client-level limit; callers are expected to pass a deadline on the request
// context instead.
func New(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
