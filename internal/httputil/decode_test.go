// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<html><head><title>Acme Finance</title></head><body>ok</body></html>`

func encodeGzip(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func encodeBrotli(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	_, err := w.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func encodeZlib(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, err := w.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func encodeRawDeflate(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	require.NoError(t, err)
	_, err = w.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func encodeZstd(t *testing.T, s string) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()
	return enc.EncodeAll([]byte(s), nil)
}

func TestDecodeBody(t *testing.T) {
	tests := []struct {
		name     string
		encoding string
		body     func(t *testing.T) []byte
	}{
		{"identity", "", func(*testing.T) []byte { return []byte(samplePage) }},
		{"gzip", "gzip", func(t *testing.T) []byte { return encodeGzip(t, samplePage) }},
		{"deflate", "deflate", func(t *testing.T) []byte { return encodeZlib(t, samplePage) }},
		{"raw deflate", "deflate", func(t *testing.T) []byte { return encodeRawDeflate(t, samplePage) }},
		{"brotli", "br", func(t *testing.T) []byte { return encodeBrotli(t, samplePage) }},
		{"zstd", "zstd", func(t *testing.T) []byte { return encodeZstd(t, samplePage) }},
		{"upper case header", "GZIP", func(t *testing.T) []byte { return encodeGzip(t, samplePage) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := tt.body(t)
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				if tt.encoding != "" {
					w.Header().Set("Content-Encoding", tt.encoding)
				}
				w.Header().Set("Content-Type", "text/html")
				w.Write(payload)
			}))
			defer ts.Close()

			req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
			require.NoError(t, err)
			SetBrowserHeaders(req, "")

			resp, err := ts.Client().Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := DecodeBody(resp)
			require.NoError(t, err)
			defer body.Close()

			got, err := io.ReadAll(body)
			require.NoError(t, err)
			assert.Equal(t, samplePage, string(got))
		})
	}
}

func TestDecodeBody_Unsupported(t *testing.T) {
	resp := &http.Response{
		Header: http.Header{"Content-Encoding": {"compress"}},
		Body:   io.NopCloser(strings.NewReader("x")),
	}
	_, err := DecodeBody(resp)
	assert.ErrorContains(t, err, "unsupported content encoding")
}

func TestSetBrowserHeaders(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "https://example.com", nil)
	require.NoError(t, err)

	SetBrowserHeaders(req, "")
	assert.Equal(t, DefaultUserAgent, req.Header.Get("User-Agent"))
	assert.Equal(t, AcceptEncoding, req.Header.Get("Accept-Encoding"))
	assert.NotEmpty(t, req.Header.Get("Accept"))

	SetBrowserHeaders(req, "custom-agent/1.0")
	assert.Equal(t, "custom-agent/1.0", req.Header.Get("User-Agent"))
}

func TestTransportError(t *testing.T) {
	statusErr := &TransportError{URL: "https://a.example", StatusCode: http.StatusTooManyRequests}
	assert.Equal(t, "request https://a.example: HTTP 429 Too Many Requests", statusErr.Error())
	assert.Nil(t, errors.Unwrap(statusErr))

	cause := errors.New("connection refused")
	netErr := &TransportError{URL: "https://b.example", Err: cause}
	assert.ErrorIs(t, netErr, cause)
	assert.Contains(t, netErr.Error(), "connection refused")

	var te *TransportError
	wrapped := errors.Join(errors.New("discovery"), netErr)
	assert.True(t, errors.As(wrapped, &te))
}
