// internal/httpserver/server.go
//
// HTTP server wiring for the bingo backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", GET /score/best.
//   - Session endpoints (token required): mounted under /session.
//   - Admin endpoint: DELETE /score/best (basic auth, bcrypt).
//   - Background sweeper that paces every session and evicts idle ones.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - The session token is a signed JWT naming the session; it is accepted
//     from the Authorization header or a cookie.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/alphabet-bingo/internal/cue"
	"github.com/robalobadob/alphabet-bingo/internal/game"
	"github.com/robalobadob/alphabet-bingo/internal/letters"
	"github.com/robalobadob/alphabet-bingo/internal/score"
	"github.com/robalobadob/alphabet-bingo/internal/store"
)

// Options configures a Server. Zero durations and nil funcs get defaults.
type Options struct {
	Store             store.Store
	Scores            *score.Tracker
	Cues              cue.Table
	Pacing            game.Pacing
	ClientOrigin      string
	TokenSecret       string
	TokenTTL          time.Duration
	AdminPasswordHash string
	IdleTimeout       time.Duration
	SweepInterval     time.Duration

	// Now and Random are replaced in tests.
	Now    func() time.Time
	Random func() letters.Random
}

// Server bundles router, session store, and the shared score tracker.
type Server struct {
	r    *chi.Mux
	opts Options
}

// New constructs a Server, installs middleware, and registers routes.
func New(o Options) *Server {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Random == nil {
		o.Random = func() letters.Random { return letters.CryptoRandom{} }
	}
	if o.TokenSecret == "" {
		o.TokenSecret = "dev_secret_change_me"
	}
	if o.TokenTTL <= 0 {
		o.TokenTTL = 12 * time.Hour
	}
	if o.ClientOrigin == "" {
		o.ClientOrigin = "http://localhost:5173"
	}
	if o.SweepInterval <= 0 {
		o.SweepInterval = 100 * time.Millisecond
	}
	s := &Server{r: chi.NewRouter(), opts: o}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(o.ClientOrigin))            // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"alphabet-bingo","endpoints":["/health","POST /session","/session/*","/score/best"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Route("/session", s.mountSession)

	s.r.Get("/score/best", s.handleBest)
	s.r.With(s.requireAdmin).Delete("/score/best", s.handleResetBest)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Start serves HTTP on addr and runs the session sweeper until ctx is done.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}

	go s.sweep(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("shutdown")
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// sweep paces sessions between requests so letters get called and cues
// queued on time even while a client is only polling events.
func (s *Server) sweep(ctx context.Context) {
	t := time.NewTicker(s.opts.SweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.opts.Store.Sweep(ctx, s.opts.Now(), s.opts.IdleTimeout); n > 0 {
				log.Info().Int("evicted", n).Int("sessions", s.opts.Store.Len()).Msg("idle sessions evicted")
			}
		}
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------- score -------------------------------------

func (s *Server) handleBest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"best": s.opts.Scores.Best(r.Context())})
}

func (s *Server) handleResetBest(w http.ResponseWriter, r *http.Request) {
	if err := s.opts.Scores.Reset(r.Context()); err != nil {
		log.Error().Err(err).Msg("reset best score")
		writeError(w, http.StatusServiceUnavailable, "persistence_unavailable")
		return
	}
	log.Info().Msg("best score reset")
	w.WriteHeader(http.StatusNoContent)
}

// ------------------------------- small util --------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
