// internal/httpserver/routes_session.go
//
// Session endpoints. One session is one player's game.
//
// Endpoints:
//   POST /session            -> create a session, return token + view (also sets cookie)
//   GET  /session            -> current view
//   GET  /session/events     -> drain queued presentation/cue events
//   POST /session/play       -> start screen -> mode selection
//   POST /session/mode       -> {mode}
//   POST /session/case       -> {case}
//   POST /session/grid       -> {size}, starts a round
//   POST /session/back       -> {target?}, earlier menu screen
//   POST /session/tile       -> {index}, returns the outcome
//   POST /session/repeat     -> replay the current letter cue
//   POST /session/again      -> end screen -> start screen
//   POST /session/interact   -> first interaction (unblocks music)
//
// Every POST counts as a user interaction.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/alphabet-bingo/internal/collections"
	"github.com/robalobadob/alphabet-bingo/internal/event"
	"github.com/robalobadob/alphabet-bingo/internal/game"
	"github.com/robalobadob/alphabet-bingo/internal/letters"
	"github.com/robalobadob/alphabet-bingo/internal/sched"
	"github.com/robalobadob/alphabet-bingo/internal/store"
)

type ctxKey int

const ctxSessionKey ctxKey = iota

// roundView is the client-facing snapshot of a round.
type roundView struct {
	Board          game.Board `json:"board"`
	Called         string     `json:"called"`
	Correct        []int      `json:"correct"`
	CorrectCount   int        `json:"correctCount"`
	IncorrectCount int        `json:"incorrectCount"`
	Remaining      int        `json:"remaining"`
	Over           bool       `json:"over"`
	Won            bool       `json:"won"`
}

// view is what GET /session and every action return.
type view struct {
	SessionID string      `json:"sessionId"`
	Screen    game.Screen `json:"screen"`
	Config    game.Config `json:"config"`
	Best      int         `json:"best"`
	Round     *roundView  `json:"round,omitempty"`
	Pending   int         `json:"pendingEvents"`

	// NextDueMs is how long until the next paced event, so clients know
	// when to poll /session/events again.
	NextDueMs *int64 `json:"nextDueMs,omitempty"`
}

func viewOf(s *store.Session, now time.Time) view {
	m := s.Machine
	v := view{
		SessionID: s.ID,
		Screen:    m.Screen(),
		Config:    m.Config(),
		Best:      m.Best(),
		Pending:   s.Outbox.Len(),
	}
	if due, ok := m.Scheduler().NextDue(); ok {
		ms := due.Sub(now).Milliseconds()
		if ms < 0 {
			ms = 0
		}
		v.NextDueMs = &ms
	}
	if r, ok := m.Round(); ok {
		v.Round = &roundView{
			Board:          r.Board,
			Called:         r.Called,
			Correct:        collections.Sorted(r.Correct),
			CorrectCount:   r.CorrectCount,
			IncorrectCount: r.IncorrectCount,
			Remaining:      len(r.Available),
			Over:           r.Over,
			Won:            r.Won,
		}
	}
	return v
}

func (s *Server) mountSession(r chi.Router) {
	r.Post("/", s.handleNewSession)
	r.Group(func(r chi.Router) {
		r.Use(s.withSession)
		s.sessionRoutes(r)
	})
}

func (s *Server) sessionRoutes(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		var v view
		sess.Do(r.Context(), s.opts.Now(), func(sess *store.Session) { v = viewOf(sess, s.opts.Now()) })
		writeJSON(w, http.StatusOK, v)
	})

	r.Get("/events", func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		var evs []event.Event
		var dropped int
		sess.Do(r.Context(), s.opts.Now(), func(sess *store.Session) {
			evs = sess.Outbox.Drain()
			dropped = sess.Outbox.Dropped()
		})
		if evs == nil {
			evs = []event.Event{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"events": evs, "dropped": dropped})
	})

	r.Post("/play", s.act(func(ctx context.Context, m *game.Machine, _ *http.Request) (any, error) {
		return nil, m.Play(ctx)
	}))

	r.Post("/mode", s.act(func(ctx context.Context, m *game.Machine, r *http.Request) (any, error) {
		var body struct {
			Mode string `json:"mode"`
		}
		if err := decode(r, &body); err != nil {
			return nil, err
		}
		mode, err := game.ParseMode(body.Mode)
		if err != nil {
			return nil, err
		}
		return nil, m.SelectMode(ctx, mode)
	}))

	r.Post("/case", s.act(func(ctx context.Context, m *game.Machine, r *http.Request) (any, error) {
		var body struct {
			Case string `json:"case"`
		}
		if err := decode(r, &body); err != nil {
			return nil, err
		}
		c, err := letters.ParseCase(body.Case)
		if err != nil {
			return nil, err
		}
		return nil, m.SelectCase(ctx, c)
	}))

	r.Post("/grid", s.act(func(ctx context.Context, m *game.Machine, r *http.Request) (any, error) {
		var body struct {
			Size int `json:"size"`
		}
		if err := decode(r, &body); err != nil {
			return nil, err
		}
		return nil, m.SelectGrid(ctx, body.Size)
	}))

	r.Post("/back", s.act(func(ctx context.Context, m *game.Machine, r *http.Request) (any, error) {
		var body struct {
			Target game.Screen `json:"target"`
		}
		if err := decode(r, &body); err != nil {
			return nil, err
		}
		if body.Target == "" {
			return nil, m.Back(ctx)
		}
		return nil, m.BackTo(ctx, body.Target)
	}))

	r.Post("/tile", s.act(func(ctx context.Context, m *game.Machine, r *http.Request) (any, error) {
		var body struct {
			Index *int `json:"index"`
		}
		if err := decode(r, &body); err != nil {
			return nil, err
		}
		if body.Index == nil {
			return nil, errBadRequest
		}
		out, err := m.SelectTile(ctx, *body.Index)
		return out, err
	}))

	r.Post("/repeat", s.act(func(ctx context.Context, m *game.Machine, _ *http.Request) (any, error) {
		return nil, m.RepeatLetter(ctx)
	}))

	r.Post("/again", s.act(func(ctx context.Context, m *game.Machine, _ *http.Request) (any, error) {
		return nil, m.PlayAgain(ctx)
	}))

	r.Post("/interact", s.act(func(context.Context, *game.Machine, *http.Request) (any, error) {
		return nil, nil
	}))
}

// handleNewSession creates a session on the start screen.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	id := store.NewID()
	logger := log.With().Str("session", id).Logger()
	out := event.NewOutbox(s.opts.Cues, event.DefaultLimit)
	m := game.NewMachine(game.Options{
		Presenter: out,
		Player:    out,
		Scores:    s.opts.Scores,
		Scheduler: sched.New(s.opts.Now),
		Random:    s.opts.Random(),
		Pacing:    s.opts.Pacing,
		Logger:    &logger,
	})
	m.Start(r.Context())
	sess := store.NewSession(id, m, out, s.opts.Now())

	token, exp, err := s.signToken(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token_error")
		return
	}
	if err := s.opts.Store.Save(r.Context(), sess); err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	setSessionCookie(w, token, exp)
	logger.Info().Int("sessions", s.opts.Store.Len()).Msg("session created")

	var v view
	sess.Do(r.Context(), s.opts.Now(), func(sess *store.Session) { v = viewOf(sess, s.opts.Now()) })
	writeJSON(w, http.StatusCreated, map[string]any{"token": token, "sessionId": id, "view": v})
}

// withSession resolves the session named by the request token.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := bearerOrCookie(r)
		if tok == "" {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		id, err := s.parseToken(tok)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		sess, err := s.opts.Store.Get(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusNotFound, "session_not_found")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxSessionKey, sess)))
	})
}

func sessionFrom(r *http.Request) *store.Session {
	sess, _ := r.Context().Value(ctxSessionKey).(*store.Session)
	return sess
}

type action func(ctx context.Context, m *game.Machine, r *http.Request) (any, error)

// act runs fn under the session lock and replies with the outcome (if any)
// and the resulting view.
func (s *Server) act(fn action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		var (
			out any
			err error
			v   view
		)
		sess.Do(r.Context(), s.opts.Now(), func(sess *store.Session) {
			sess.Outbox.Unblock()
			sess.Machine.Interacted(r.Context())
			out, err = fn(r.Context(), sess.Machine, r)
			v = viewOf(sess, s.opts.Now())
		})
		if err != nil {
			writeError(w, statusOf(err), err.Error())
			return
		}
		resp := map[string]any{"view": v}
		if out != nil {
			resp["outcome"] = out
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

var errBadRequest = errors.New("bad request")

func decode(r *http.Request, v any) error {
	if r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errBadRequest
	}
	return nil
}

// statusOf maps engine errors to HTTP statuses.
func statusOf(err error) int {
	switch {
	case errors.Is(err, game.ErrWrongScreen):
		return http.StatusConflict
	case errors.Is(err, game.ErrInvalidSize),
		errors.Is(err, game.ErrTileOutOfRange),
		errors.Is(err, game.ErrUnknownMode),
		errors.Is(err, letters.ErrUnknownCase),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
