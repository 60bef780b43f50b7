// Package ws implements an EventSink that pushes every published
// event to connected dashboard clients over WebSocket, grounded on
// the teacher's kraken WebSocketClient connection/subscription
// bookkeeping and its gorilla/mux HTTP server wiring.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/sawpanic/perpscreener/internal/eventbus"
)

// Sink fans published events out to every connected WebSocket client.
// It implements eventbus.EventSink.
type Sink struct {
	mu       sync.RWMutex
	clients  map[*websocket.Conn]struct{}
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// NewSink builds an empty Sink. Origin checking is disabled since the
// dashboard transport is an out-of-scope external collaborator (spec
// §1 "Out of scope").
func NewSink(log zerolog.Logger) *Sink {
	return &Sink{
		clients: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log.With().Str("component", "eventbus_ws").Logger(),
	}
}

// Handler upgrades an HTTP request to a WebSocket connection and
// registers it as a client.
func (s *Sink) Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()

	go s.readLoop(conn)
}

// readLoop drains and discards client frames so control frames (ping,
// close) are processed, and deregisters the client on disconnect.
func (s *Sink) readLoop(conn *websocket.Conn) {
	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Publish implements eventbus.EventSink, JSON-encoding evt to every
// connected client. A client whose write fails is dropped.
func (s *Sink) Publish(evt eventbus.Event) {
	payload, err := json.Marshal(evt)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to encode event")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			conn.Close()
			delete(s.clients, conn)
		}
	}
}

// RegisterRoutes mounts the WebSocket upgrade endpoint on router.
func (s *Sink) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/ws", s.Handler)
}
