// Package server hosts bingo games over HTTP and websocket and serves the
// browser UI.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/bingo/internal/protocol"
	"github.com/lox/bingo/web"
)

// Server represents the HTTP + WebSocket server
type Server struct {
	games       *GameManager
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	logger      *log.Logger
	mu          sync.RWMutex
	httpServer  *http.Server
}

// NewServer creates a server for the games hosted by games.
func NewServer(games *GameManager, logger *log.Logger) *Server {
	s := &Server{
		games: games,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// The UI is served from this origin or opened from a dev server
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		logger:      logger.WithPrefix("server"),
	}
	games.SetNotifier(s.BroadcastToGame)
	return s
}

// Handler returns the routes served by the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /", http.FileServer(web.StaticFS()))
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("POST /api/games", s.handleCreateGame)
	mux.HandleFunc("GET /api/games/{id}", s.handleGetGame)
	mux.HandleFunc("POST /api/games/{id}/draw", s.handleDraw)
	return mux
}

// Start listens on addr and blocks until the server stops.
func (s *Server) Start(addr string) error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info("Starting server", "addr", addr)
	return srv.ListenAndServe()
}

// Shutdown stops accepting requests and closes every websocket.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	for conn := range s.connections {
		_ = conn.Close() // Ignore close errors during shutdown
	}
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) register(conn *Connection) {
	s.mu.Lock()
	s.connections[conn] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "game", conn.GameID(), "total", total)
}

func (s *Server) unregister(conn *Connection) {
	s.mu.Lock()
	if _, ok := s.connections[conn]; ok {
		delete(s.connections, conn)
	}
	total := len(s.connections)
	s.mu.Unlock()
	_ = conn.Close() // Ignore close errors during unregistration
	s.logger.Info("Client disconnected", "game", conn.GameID(), "total", total)
}

// handleWebSocket upgrades a connection that watches ?game=<id>.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game")
	if _, err := s.games.Get(gameID); err != nil {
		writeError(w, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, gameID, s.logger, s.games)
	s.register(client)
	client.Start()

	go func() {
		<-client.Done()
		s.unregister(client)
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK") // Ignore write errors for health check
}

// BroadcastToGame sends msg to every connection watching gameID.
func (s *Server) BroadcastToGame(gameID string, msg *protocol.Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for conn := range s.connections {
		if conn.GameID() != gameID {
			continue
		}
		if err := conn.SendMessage(msg); err != nil {
			s.logger.Error("Failed to send message to client", "error", err, "game", gameID)
		} else {
			count++
		}
	}

	s.logger.Debug("Broadcasted message to game", "game", gameID, "type", msg.Type, "recipients", count)
}

// Watchers returns how many connections are watching gameID.
func (s *Server) Watchers(gameID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for conn := range s.connections {
		if conn.GameID() == gameID {
			n++
		}
	}
	return n
}
