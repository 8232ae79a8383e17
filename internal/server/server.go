// Package server is a live-update transport for a sheet.Sheet, adapted
// from the teacher's spreadsheet/server.go: a websocket hub that pushes
// every cell change to every connected client. Unlike the teacher's
// mustSetCell (which only logs a rejected write and otherwise drops it),
// this server surfaces spec.md §7's three operational failures
// (invalid-position, formula-syntax, circular-dependency) back to the
// client as typed error frames.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"cellgrid/cell"
	"cellgrid/position"
	"cellgrid/sheet"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Request is a client-issued edit over the websocket connection.
type Request struct {
	Type string `json:"type"` // "update_cell" | "clear"
	Pos  string `json:"pos"`
	Text string `json:"text,omitempty"`
}

// Response is a server-to-client frame: either a full cell update, a
// reset-then-resend signal, or an error report for a rejected write.
type Response struct {
	Type  string `json:"type"` // "update" | "reset" | "error"
	Pos   string `json:"pos,omitempty"`
	Text  string `json:"text,omitempty"`
	Value string `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
}

// Server hosts a single Sheet behind a websocket hub. All sheet access
// is serialized through mu — the core Sheet itself holds no locks
// (spec.md §5: the engine is single-threaded), so the server is what
// makes it safe to reach from concurrently-connected clients, exactly
// as the teacher's Sheet.mu did for its own string-keyed cell map.
type Server struct {
	Sheet *sheet.Sheet

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// New returns a Server wrapping a fresh, empty sheet.
func New() *Server {
	return &Server{
		Sheet:   sheet.New(),
		clients: make(map[*websocket.Conn]bool),
	}
}

// Start registers the websocket handler and serves HTTP at addr until the
// listener fails, mirroring the teacher's spreadsheet/server.go Start.
func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleWebSocket)

	log.Printf("starting cellgrid server at http://%s", addr)
	return http.ListenAndServe(addr, mux)
}

// HandleWebSocket upgrades the request and serves it until the client
// disconnects.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade error:", err)
		return
	}

	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	s.sendSnapshot(conn)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var req Request
		if err := json.Unmarshal(msg, &req); err != nil {
			log.Println("json error:", err)
			continue
		}
		s.handleRequest(req)
	}
}

func (s *Server) handleRequest(req Request) {
	pos, err := position.Parse(req.Pos)
	if err != nil {
		s.broadcast(Response{Type: "error", Pos: req.Pos, Error: err.Error()})
		return
	}

	s.mu.Lock()
	switch req.Type {
	case "update_cell":
		err = s.Sheet.Set(pos, req.Text)
	case "clear":
		err = s.Sheet.Clear(pos)
	}
	s.mu.Unlock()

	if err != nil {
		log.Printf("write to %s failed: %v", pos, err)
		s.broadcast(Response{Type: "error", Pos: req.Pos, Error: err.Error()})
		return
	}
	s.broadcastAll()
}

// sendSnapshot writes every live cell to a single newly-connected client.
func (s *Server) sendSnapshot(conn *websocket.Conn) {
	s.mu.Lock()
	responses := s.snapshotLocked()
	s.mu.Unlock()

	for _, resp := range responses {
		if err := conn.WriteJSON(resp); err != nil {
			log.Printf("snapshot write failed: %v", err)
			return
		}
	}
}

// broadcastAll sends a reset, then every live cell, to all clients —
// the simplest correct strategy (same one the teacher's broadcastAll
// uses) since a single write can ripple through an unbounded number of
// dependents.
func (s *Server) broadcastAll() {
	s.mu.Lock()
	responses := s.snapshotLocked()
	s.mu.Unlock()

	s.broadcast(Response{Type: "reset"})
	for _, resp := range responses {
		s.broadcast(resp)
	}
}

// snapshotLocked must be called with mu held.
func (s *Server) snapshotLocked() []Response {
	var responses []Response
	s.Sheet.Each(func(pos position.Position, c *cell.Cell) {
		responses = append(responses, Response{
			Type:  "update",
			Pos:   pos.String(),
			Text:  c.Body.Text(),
			Value: c.Body.Value(s.Sheet).String(),
		})
	})
	return responses
}

func (s *Server) broadcast(resp Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for client := range s.clients {
		if err := client.WriteJSON(resp); err != nil {
			log.Printf("broadcast write failed: %v", err)
			client.Close()
			delete(s.clients, client)
		}
	}
}
