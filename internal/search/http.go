package search

import (
	"errors"
	"net/http"
	"time"
)

// BrowserUserAgent is sent by every HTML/RSS source; several endpoints reject default Go clients.
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// ErrUnexpectedStatus indicates an upstream response with a non-200 status.
var ErrUnexpectedStatus = errors.New("unexpected status code")

// NewHTTPClient returns a client with a fixed per-call timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
