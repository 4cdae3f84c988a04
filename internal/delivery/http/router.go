package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"meetingplanner/internal/delivery/http/controllers"
	"meetingplanner/internal/delivery/http/middleware"
	"meetingplanner/internal/domain"
)

// RouterConfig carries the controllers and cross-cutting settings of the API.
// A nil Verifier disables authentication and the /auth/token route.
type RouterConfig struct {
	Meetings       *controllers.MeetingController
	Auth           *controllers.AuthController
	Health         *controllers.HealthController
	Verifier       domain.TokenVerifier
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	protect := func(next http.HandlerFunc) http.HandlerFunc { return next }
	if cfg.Verifier != nil {
		protect = middleware.RequireAuth(cfg.Verifier, cfg.Logger)
		mux.HandleFunc("POST /auth/token", cfg.Auth.IssueToken)
	}

	mux.HandleFunc("GET /health", cfg.Health.Health)

	// Meetings
	m := cfg.Meetings
	mux.HandleFunc("GET /meetings", protect(m.ListMeetings))
	mux.HandleFunc("POST /meetings", protect(m.CreateMeeting))
	mux.HandleFunc("GET /meetings/export", protect(m.ExportMeetings))
	mux.HandleFunc("POST /meetings/import", protect(m.ImportMeetings))
	mux.HandleFunc("GET /meetings/{meetingID}", protect(m.GetMeeting))
	mux.HandleFunc("PATCH /meetings/{meetingID}", protect(m.UpdateMeeting))
	mux.HandleFunc("DELETE /meetings/{meetingID}", protect(m.DeleteMeeting))

	// Reminders
	mux.HandleFunc("GET /reminders", protect(m.ListReminders))
	mux.HandleFunc("DELETE /meetings/{meetingID}/reminder", protect(m.RemoveReminder))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	var handler http.Handler = mux
	handler = middleware.CORS(cfg.AllowedOrigins, handler)
	handler = middleware.LoggingMiddleware(cfg.Logger, handler)
	return handler
}
