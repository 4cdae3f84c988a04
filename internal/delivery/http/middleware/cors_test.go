package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	tests := []struct {
		name            string
		origins         []string
		origin          string
		preflight       bool
		wantStatus      int
		wantAllowOrigin string
		wantCredentials string
	}{
		{name: "listed origin", origins: []string{"https://app.example.com/"}, origin: "https://app.example.com", wantStatus: http.StatusTeapot, wantAllowOrigin: "https://app.example.com", wantCredentials: "true"},
		{name: "unlisted origin", origins: []string{"https://app.example.com"}, origin: "https://evil.example.com", wantStatus: http.StatusTeapot},
		{name: "wildcard", origins: []string{"*"}, origin: "https://any.example.com", wantStatus: http.StatusTeapot, wantAllowOrigin: "*"},
		{name: "preflight listed", origins: []string{"https://app.example.com"}, origin: "https://app.example.com", preflight: true, wantStatus: http.StatusNoContent, wantAllowOrigin: "https://app.example.com", wantCredentials: "true"},
		{name: "preflight unlisted", origins: nil, origin: "https://app.example.com", preflight: true, wantStatus: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := http.MethodGet
			if tt.preflight {
				method = http.MethodOptions
			}
			req := httptest.NewRequest(method, "http://test/meetings", nil)
			req.Header.Set("Origin", tt.origin)
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			rr := httptest.NewRecorder()

			CORS(tt.origins, next).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantAllowOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCredentials, rr.Header().Get("Access-Control-Allow-Credentials"))
			if tt.preflight && tt.wantAllowOrigin != "" {
				assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "PATCH")
			}
		})
	}
}
