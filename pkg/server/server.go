package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Chidera261/koraDB/pkg/api"
	"github.com/Chidera261/koraDB/pkg/storage"
	"github.com/VictoriaMetrics/metrics"
	"github.com/gorilla/mux"
)

// Server holds references to the database, router and API handler
type Server struct {
	router  *mux.Router
	db      *storage.Database
	handler *api.Handler
	logger  *slog.Logger
}

// NewServer creates a server exposing db over HTTP. A nil logger uses
// slog.Default().
func NewServer(db *storage.Database, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		router:  mux.NewRouter(),
		db:      db,
		handler: api.NewHandler(db, logger),
		logger:  logger,
	}
	s.routes()

	s.router.Use(s.requestLoggerMiddleware)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Warn("No route found", "method", r.Method, "path", r.URL.Path)
		api.WriteJSONError(w, http.StatusNotFound, "no route for "+r.URL.Path)
	})

	return s
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLoggerMiddleware logs the method, path, status and duration of
// each request.
func (s *Server) requestLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("Request", "method", r.Method, "path", r.URL.Path,
			"status", rec.status, "elapsed", time.Since(start))
	})
}

// Router exposes the internal mux.Router.
func (s *Server) Router() http.Handler {
	return s.router
}

// Database returns the database served by s
func (s *Server) Database() *storage.Database {
	return s.db
}

// Shutdown flushes every pending collection write
func (s *Server) Shutdown() error {
	return s.db.Close()
}

func (s *Server) routes() {
	s.handler.RegisterRoutes(s.router)
	s.router.HandleFunc("/metrics", handleMetrics).Methods("GET")
}

func handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	metrics.WritePrometheus(w, true)
}
