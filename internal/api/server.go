// Package api serves the storefront's dynamic data over HTTP and a status websocket.
package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"kiosk/internal/config"
	"kiosk/internal/database"
	"kiosk/internal/metrics"
	"kiosk/internal/settings"
	"kiosk/internal/status"
)

// TransitionLog reads recorded open/closed changes, newest first.
type TransitionLog interface {
	RecentTransitions(ctx context.Context, limit int) ([]database.Transition, error)
}

// HTTPServer exposes the JSON API.
type HTTPServer struct {
	store       config.StoreConfig
	origins     []string
	ticker      *status.Ticker
	settings    *settings.Service
	transitions TransitionLog
	hub         *Hub
	logger   zerolog.Logger
	now      func() time.Time
	server   *http.Server
}

// NewHTTPServer wires the routes. hub may be nil to disable /ws/status and
// transitions nil to disable /api/transitions.
func NewHTTPServer(cfg *config.Config, ticker *status.Ticker, svc *settings.Service, transitions TransitionLog, hub *Hub, logger zerolog.Logger) *HTTPServer {
	s := &HTTPServer{
		store:       cfg.Store,
		origins:     cfg.Server.AllowedOrigins,
		ticker:      ticker,
		settings:    svc,
		transitions: transitions,
		hub:         hub,
		logger:      logger.With().Str("component", "http_api").Logger(),
		now:         time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/hours", s.handleHours)
	mux.HandleFunc("GET /api/hours.xlsx", s.handleHoursExport)
	mux.HandleFunc("GET /api/store", s.handleStore)
	mux.HandleFunc("GET /api/map", s.handleMap)
	mux.HandleFunc("GET /api/theme", s.handleGetTheme)
	mux.HandleFunc("POST /api/theme", s.handleSetTheme)
	mux.HandleFunc("POST /api/theme/toggle", s.handleToggleTheme)
	if transitions != nil {
		mux.HandleFunc("GET /api/transitions", s.handleTransitions)
	}
	if hub != nil {
		mux.HandleFunc("GET /ws/status", s.handleStatusSocket)
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           s.withCORS(s.instrument(mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the root handler, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

// Start listens until Shutdown is called.
func (s *HTTPServer) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("http api listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.code = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (s *HTTPServer) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)
		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveHTTP(path, rec.code, time.Since(start))
	})
}

func (s *HTTPServer) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Vary", "Origin")
			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) originAllowed(origin string) bool {
	for _, o := range s.origins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
