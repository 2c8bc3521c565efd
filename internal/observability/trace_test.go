package observability_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qiyuey/bookagent/internal/observability"
)

func TestTrace(t *testing.T) {
	t.Run("should issue ids and expose them in response headers", func(t *testing.T) {
		var gotTraceID, gotRequestID string
		handler := observability.Trace()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotTraceID = observability.GetTraceID(r.Context())
			gotRequestID = observability.GetRequestID(r.Context())
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.NotEmpty(t, gotTraceID)
		require.Len(t, gotTraceID, 32)
		require.NotEmpty(t, gotRequestID)
		require.Equal(t, gotTraceID, w.Header().Get("X-Trace-Id"))
		require.Equal(t, gotRequestID, w.Header().Get("X-Request-Id"))
	})

	t.Run("should keep a client-supplied request id", func(t *testing.T) {
		var gotRequestID string
		handler := observability.Trace()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotRequestID = observability.GetRequestID(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/book/models", nil)
		req.Header.Set("X-Request-Id", "caller-supplied-id")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		require.Equal(t, "caller-supplied-id", gotRequestID)
		require.Equal(t, "caller-supplied-id", w.Header().Get("X-Request-Id"))
	})
}
