package logging

import (
	"context"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMiddlewareKeepsIncomingRequestID(t *testing.T) {
	var (
		gotID     string
		gotLogger *log.Logger
	)
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = RequestID(r.Context())
		gotLogger = Logger(r)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, "abc-123", gotID)
	require.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	require.Equal(t, "[abc-123] ", gotLogger.Prefix())
}

func TestMiddlewareGeneratesRequestID(t *testing.T) {
	var gotID string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Len(t, gotID, 36)
	require.Equal(t, gotID, rec.Header().Get(RequestIDHeader))
}

func TestFromContextDefault(t *testing.T) {
	require.Equal(t, log.Default(), FromContext(context.Background()))
	_, ok := RequestID(context.Background())
	require.False(t, ok)
}
