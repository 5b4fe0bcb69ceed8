package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithGZIPCompressesResponse(t *testing.T) {
	h := WithGZIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)

	assert.Equal(t, "gzip", res.Header().Get("Content-Encoding"))

	reader, err := gzip.NewReader(res.Body)
	require.NoError(t, err)
	defer reader.Close()

	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, `{"status":"ok"}`, string(body))
}

func TestWithGZIPPassthrough(t *testing.T) {
	h := WithGZIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`plain`))
	}))

	res := httptest.NewRecorder()
	h.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Empty(t, res.Header().Get("Content-Encoding"))
	assert.Equal(t, "plain", res.Body.String())
}

func TestWithGZIPDecompressesRequestBody(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(`{"discType":"Driver"}`))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	var seen string
	h := WithGZIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		seen = string(body)
	}))

	req := httptest.NewRequest(http.MethodPost, "/discs", &buf)
	req.Header.Set("Content-Encoding", "gzip")
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)

	assert.Equal(t, `{"discType":"Driver"}`, seen)
}

func TestWithGZIPRejectsBrokenBody(t *testing.T) {
	h := WithGZIP(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/discs", strings.NewReader("not gzip"))
	req.Header.Set("Content-Encoding", "gzip")
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)

	assert.Equal(t, http.StatusBadRequest, res.Code)
}
