package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"sync"
	"time"

	"zerosum/game"
	"zerosum/searcher"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type MoveRequest struct {
	Board string `json:"board"`
}

type MoveProbability struct {
	Move        string  `json:"move"`
	Probability float64 `json:"probability"`
	Visits      int     `json:"visits"`
	Value       float64 `json:"value"`
}

type MoveResponse struct {
	Move          string            `json:"move"`
	Index         int               `json:"index"`
	Probabilities []MoveProbability `json:"probabilities"`
	Iterations    int               `json:"iterations"`
	DurationMs    float64           `json:"duration_ms"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// seat is one game's player. Players are not safe for concurrent use, so
// requests for the same game are served one at a time; keeping the player
// lets consecutive requests of a game reuse its tree.
type seat struct {
	sync.Mutex
	player *searcher.Player
}

type Server struct {
	options []searcher.Option
	mutex   sync.Mutex
	seats   map[string]*seat
}

// New creates a move server; every game gets a player built with options.
// Search metrics are always collected since responses report them.
func New(options ...searcher.Option) *Server {
	return &Server{
		options: append(slices.Clone(options), searcher.WithMetrics()),
		seats:   map[string]*seat{},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Get("/api/games", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string][]string{"games": game.Names()})
	})
	r.Post("/api/games/{game}/moves", s.handleFindMove)
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("starting move server")
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Msg("shutting down move server")
		return srv.Shutdown(shutdown)
	}
}

func (s *Server) handleFindMove(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "game")

	var payload MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
		return
	}

	board, err := game.Parse(name, payload.Board)
	switch {
	case errors.Is(err, game.ErrUnknownGame):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	case err != nil:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if board.IsEnded() {
		writeJSON(w, http.StatusConflict, errorResponse{Error: "game is already over"})
		return
	}

	st := s.seat(name)
	st.Lock()
	defer st.Unlock()

	move, err := st.player.ChooseMove(r.Context(), board)
	if err != nil {
		log.Error().Err(err).Str("game", name).Msg("failed to find move")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to find move: " + err.Error()})
		return
	}

	metric := st.player.Metrics()
	response := MoveResponse{
		Move:       board.FormatMove(move),
		Index:      move,
		Iterations: metric.Iterations,
		DurationMs: float64(metric.Duration) / float64(time.Millisecond),
	}
	for _, p := range st.player.MoveProbabilities(board) {
		response.Probabilities = append(response.Probabilities, MoveProbability{
			Move:        p.Text,
			Probability: p.Probability,
			Visits:      p.Visits,
			Value:       p.Value,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) seat(name string) *seat {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	st, ok := s.seats[name]
	if !ok {
		// the name was already resolved by game.Parse
		start, _ := game.New(name)
		st = &seat{player: searcher.NewPlayer(start, s.options...)}
		s.seats[name] = st
	}
	return st
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Info().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("elapsed", time.Since(start)).
				Msg("handled request")
		}()
		next.ServeHTTP(ww, r)
	})
}
