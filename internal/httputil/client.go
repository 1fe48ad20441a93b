package httputil

import (
	"net/http"
	"time"
)

const DefaultTimeout = 10 * time.Second

// NewClient returns an HTTP client with standard timeout configuration.
// Every outbound provider call goes through a client built here so a hung
// upstream cannot block an ingestion request indefinitely.
func NewClient() *http.Client {
	return &http.Client{
		Timeout: DefaultTimeout,
	}
}
