package httpx

import (
	"net"
	"net/http"
	"time"
)

// The only outbound caller is the mail provider client: single small JSON
// POSTs, low concurrency. Timeouts are tight so a slow provider surfaces as
// an error (and trips the mailer's breaker) instead of pinning goroutines.
var defaultClient = &http.Client{
	Timeout: 15 * time.Second,
	Transport: &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       60 * time.Second,
	},
}

func Client() *http.Client { return defaultClient }
