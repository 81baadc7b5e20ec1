package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Business010101/aimodbot/pkg/utils/errutil"
	"github.com/Business010101/aimodbot/pkg/utils/logging"
)

// StatusProvider reports gateway connection state for the liveness endpoints
type StatusProvider interface {
	BotUsername() string
	GuildCount() int
	Latency() time.Duration
}

// Server is a small liveness server. It exists so that container platforms
// and uptime monitors can probe the bot over HTTP even though all real work
// happens on the Discord gateway.
type Server struct {
	router *chi.Mux
	status StatusProvider
}

func New(status StatusProvider) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		status: status,
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.rootHandler)
	r.Get("/healthz", s.healthHandler)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	name := s.status.BotUsername()
	if name == "" {
		name = "bot"
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(name + " is alive\n")); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status    string `json:"status"`
		Bot       string `json:"bot,omitempty"`
		Guilds    int    `json:"guilds"`
		LatencyMS int64  `json:"latency_ms"`
	}

	resp := response{
		Status:    "ok",
		Bot:       s.status.BotUsername(),
		Guilds:    s.status.GuildCount(),
		LatencyMS: s.status.Latency().Milliseconds(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
	}
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
