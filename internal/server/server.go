// Package server exposes game sessions to a browser UI over a websocket.
// Each connection drives one session: the human plays seat 0 and the
// configured adapter plays seat 1.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Defients/Jakuv-vgame-sub001/internal/config"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game"
)

// HumanSeat is the seat a websocket client plays.
const HumanSeat = 0

// ErrTooManySessions is returned when the session cap is reached.
var ErrTooManySessions = errors.New("too many sessions")

// AdapterFactory builds the decision adapter for a new session's AI seat.
type AdapterFactory func() (game.DecisionAdapter, error)

// Options configures a Server.
type Options struct {
	Engine      game.Options
	Session     game.SessionConfig
	WebSocket   config.WebSocketConfig
	MaxSessions int
}

// Server wires the router, the hub and the session manager.
type Server struct {
	opts       Options
	manager    *game.Manager
	hub        *Hub
	newAdapter AdapterFactory
	upgrader   websocket.Upgrader
	logger     *zap.Logger
}

// New creates a server. The hub must be run with Hub().Run.
func New(opts Options, manager *game.Manager, newAdapter AdapterFactory, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		opts:       opts,
		manager:    manager,
		hub:        NewHub(logger.Named("hub")),
		newAdapter: newAdapter,
		logger:     logger,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  opts.WebSocket.ReadBufferSize,
		WriteBufferSize: opts.WebSocket.WriteBufferSize,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Hub returns the connection hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/ws", s.handleWS)
	r.Route("/api/sessions", func(r chi.Router) {
		r.Get("/", s.handleListSessions)
		r.Get("/{id}", s.handleSession)
		r.Get("/{id}/stats", s.handleSessionStats)
	})
	return r
}

func (s *Server) checkOrigin(r *http.Request) bool {
	allowed := s.opts.WebSocket.AllowedOrigins
	if len(allowed) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	for _, o := range allowed {
		if o == origin || o == "*" {
			return true
		}
	}
	return false
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"sessions": s.manager.Len(),
		"clients":  s.hub.Len(),
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"sessions": s.manager.List()})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.manager.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sess.View(HumanSeat))
}

func (s *Server) handleSessionStats(w http.ResponseWriter, r *http.Request) {
	sess, err := s.manager.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	var stats game.GameStats
	sess.Inspect(func(e *game.Engine) { stats = e.Stats() })
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	client := newClient(s, conn)
	if !s.hub.Register(client) {
		_ = conn.Close()
		return
	}
	go client.writePump()
	go client.readPump()
}

// createSession opens a started game for a new connection.
func (s *Server) createSession(ctx context.Context) (*game.Session, error) {
	if s.opts.MaxSessions > 0 && s.manager.Len() >= s.opts.MaxSessions {
		return nil, ErrTooManySessions
	}
	var adapters [2]game.DecisionAdapter
	if s.newAdapter != nil {
		a, err := s.newAdapter()
		if err != nil {
			return nil, err
		}
		adapters[1-HumanSeat] = a
	}
	return s.manager.Create(ctx, game.SessionOptions{
		Engine:    s.opts.Engine,
		Adapters:  adapters,
		Config:    s.opts.Session,
		AutoStart: true,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
