// Package httpapi serves room analysis, session editing and overlay export
// over HTTP.
//
// Routes:
//
//	POST   /api/analyze
//	GET    /api/room-types
//	GET    /api/sessions
//	GET    /api/sessions/{id}
//	DELETE /api/sessions/{id}
//	PATCH  /api/sessions/{id}/pages/{pageID}/rooms/{roomID}
//	POST   /api/sessions/{id}/pages/{pageID}/export
//	GET    /healthcheck
//
// Errors are returned as {"error": "..."}. Validation problems are 400,
// unknown sessions, pages and rooms are 404, anything else is a 500 with a
// generic message.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ironsheep/floorplan-sandbox/internal/analysis"
	"github.com/ironsheep/floorplan-sandbox/internal/imaging"
	"github.com/ironsheep/floorplan-sandbox/internal/store"
)

// MaxBodyBytes bounds request bodies. Thumbnails arrive inline as data URLs.
const MaxBodyBytes = 64 << 20

// Server holds the HTTP handlers' dependencies.
type Server struct {
	analyzer *analysis.Service
	sessions *store.Store
	overlay  imaging.OverlayOptions
	logger   *slog.Logger
}

// New creates a server. logger may be nil.
func New(analyzer *analysis.Service, sessions *store.Store, overlay imaging.OverlayOptions, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		analyzer: analyzer,
		sessions: sessions,
		overlay:  overlay,
		logger:   logger,
	}
}

// Routes returns the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthcheck", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/room-types", s.handleRoomTypes)

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", s.handleListSessions)
			r.Get("/{id}", s.handleGetSession)
			r.Delete("/{id}", s.handleDeleteSession)
			r.Patch("/{id}/pages/{pageID}/rooms/{roomID}", s.handleUpdateRoom)
			r.Post("/{id}/pages/{pageID}/export", s.handleExport)
		})
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeFailure maps err to a status code and logs server-side failures.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, analysis.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error("Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
