package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/traveler-registration/internal/middleware"
)

// drain mimics a form handler: any read error is reported as 413.
var drain = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if _, err := io.ReadAll(r.Body); err != nil {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		return
	}
	w.WriteHeader(http.StatusOK)
})

func TestMaxBodySizeHandler(t *testing.T) {
	cases := []struct {
		name          string
		size          int
		contentLength int64
		want          int
	}{
		{"within limit", 50, 50, http.StatusOK},
		{"exactly at limit", 100, 100, http.StatusOK},
		{"declared too large", 200, 200, http.StatusRequestEntityTooLarge},
		{"streamed too large", 200, -1, http.StatusRequestEntityTooLarge},
		{"streamed small", 10, -1, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/add_traveler", strings.NewReader(strings.Repeat("a", tc.size)))
			req.ContentLength = tc.contentLength
			rec := httptest.NewRecorder()

			middleware.NewMaxBodySizeHandler(100)(drain).ServeHTTP(rec, req)

			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestMaxBodySizeHandler_EarlyRejectIsJSON(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodPost, "/restore_database", strings.NewReader("0123456789abc"))
	req.ContentLength = 13
	rec := httptest.NewRecorder()
	middleware.NewMaxBodySizeHandler(10)(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.False(t, called)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"code":"request_too_large"`)
}
