package services

import (
	"net/http"
	"os"
	"sync"
	"time"
)

const defaultFetchTimeout = 30 * time.Second

// DefaultHttpClient is the client used to fetch remote documents. The timeout
// can be overridden with FETCH_TIMEOUT (a Go duration such as "10s").
var DefaultHttpClient = sync.OnceValue(func() *http.Client {
	timeout := defaultFetchTimeout
	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			timeout = d
		}
	}

	return &http.Client{Timeout: timeout}
})
