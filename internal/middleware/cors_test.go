package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripweaver/backend/internal/middleware"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

// TestCORSHandler_SimpleRequests exercises plain GETs from allowed and
// disallowed origins. A disallowed origin still gets a 200 (the server does
// not reject it), but the Access-Control-Allow-Origin header must be absent
// so the browser blocks the response.
func TestCORSHandler_SimpleRequests(t *testing.T) {
	const allowed = "http://localhost:5173"

	tests := []struct {
		name       string
		origin     string
		wantHeader string
	}{
		{"allowed origin gets ACAO header", allowed, allowed},
		{"disallowed origin gets no ACAO header", "http://evil.example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := middleware.NewCORSHandler([]string{allowed})(okHandler)

			req := httptest.NewRequest(http.MethodGet, "/itineraries", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantHeader, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

// TestCORSHandler_Preflight verifies that an OPTIONS preflight for a JSON PUT
// succeeds with the CORS headers the browser needs. The Fetch spec requires
// Access-Control-Request-Headers values in lowercase, and rs/cors compares
// its normalized allow-list verbatim, so the test follows that convention.
func TestCORSHandler_Preflight(t *testing.T) {
	h := middleware.NewCORSHandler([]string{"http://localhost:5173"})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/itineraries", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "PUT")
	req.Header.Set("Access-Control-Request-Headers", "content-type")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	// rs/cors replies 204 to preflights it accepts.
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Methods"))
}
