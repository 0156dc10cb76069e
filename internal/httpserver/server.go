// internal/httpserver/server.go
//
// HTTP server wiring for the typing game.
// Responsibilities:
//   - Router + middleware (CORS, request IDs, panic recovery, request logging).
//   - Public endpoints: "/", "/health", "/words/stats", "/debug/sessions".
//   - Play tickets: POST /session (rate limited per client IP).
//   - The WebSocket play endpoint: GET /play (see routes_play.go).
//
// Notes:
//   - JSON endpoints get a default Content-Type and a handler timeout; /play is
//     mounted outside that group because the connection is hijacked.
//   - Every WebSocket connection owns one game.Engine registered in the store.

package httpserver

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/typerush/internal/config"
	"github.com/robalobadob/typerush/internal/store"
	"github.com/robalobadob/typerush/internal/words"
)

// Server bundles router, engine registry, word bank and settings.
type Server struct {
	r       *chi.Mux
	cfg     config.Config
	store   store.Store
	bank    *words.Bank
	picker  words.Picker
	limiter *ipLimiter
	play    *playServer

	mu   sync.Mutex
	http *http.Server
}

// Option customizes a Server.
type Option func(*Server)

// WithPicker makes engines draw words from p instead of the bank.
func WithPicker(p words.Picker) Option { return func(s *Server) { s.picker = p } }

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, st store.Store, bank *words.Bank, opts ...Option) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		cfg:     cfg,
		store:   st,
		bank:    bank,
		picker:  bank,
		limiter: newIPLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	}
	for _, o := range opts {
		o(s)
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(requestLogger)
	s.r.Use(chimw.Recoverer)
	s.r.Use(s.cors)

	// --- JSON API ---
	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))
		r.Use(jsonContentType)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"service":   "typing-go",
				"endpoints": []string{"/health", "/words/stats", "POST /session", "GET /play (websocket)"},
			})
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		})
		r.Get("/words/stats", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, s.bank.Stats())
		})
		r.Get("/debug/sessions", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]int{
				"engines":     s.store.Len(),
				"connections": s.play.count(),
			})
		})
		r.With(s.limiter.middleware).Post("/session", s.handleSession)

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
		})
	})

	// --- WebSocket play endpoint ---
	s.play = newPlayServer(s)
	s.r.Get("/play", s.play.handlePlay)

	return s
}

// Start begins serving HTTP on addr. It returns http.ErrServerClosed after Shutdown.
func (s *Server) Start(addr string) error {
	s.mu.Lock()
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	hs := s.http
	s.mu.Unlock()
	return hs.ListenAndServe()
}

// Shutdown closes live play connections, stops their engines and drains HTTP.
func (s *Server) Shutdown(ctx context.Context) error {
	s.play.closeAll()
	s.store.CloseAll()
	s.mu.Lock()
	hs := s.http
	s.mu.Unlock()
	if hs == nil {
		return nil
	}
	return hs.Shutdown(ctx)
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one debug line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("reqId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("http")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("write response")
	}
}
