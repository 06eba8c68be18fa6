// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages: browser-like
// request headers, content-encoding aware body decoding, a pooled transport,
// and the TransportError type used to report per-request failures.
package httputil

import (
	"net"
	"net/http"
	"time"
)

// DefaultUserAgent identifies requests as a desktop Chrome browser. Search
// pages serve a stripped-down layout to unknown clients.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// AcceptEncoding lists the encodings DecodeBody understands.
const AcceptEncoding = "gzip, deflate, br, zstd"

// SetBrowserHeaders sets the headers a browser would send for a top-level
// navigation. An empty userAgent falls back to DefaultUserAgent.
//
// Setting Accept-Encoding disables net/http's transparent gzip handling, so
// callers must read the body through DecodeBody.
func SetBrowserHeaders(req *http.Request, userAgent string) {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Accept-Encoding", AcceptEncoding)
}

// NewTransport returns a pooled transport shared by the discovery client and
// the verification collector.
func NewTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          20,
		IdleConnTimeout:       90 * time.Second,
	}
}

// NewClient returns an HTTP client on a fresh transport. A zero timeout
// leaves requests unbounded; cancellation then comes from the request context.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: NewTransport(),
	}
}
