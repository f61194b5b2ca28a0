package api

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wpupdater/wpupdater/pkg/wallpaper"
	"github.com/wpupdater/wpupdater/util/log"
)

// DefaultAddr is the loopback address the local API listens on.
const DefaultAddr = "127.0.0.1:49453"

const (
	writeWait       = 2 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Refresher is the part of the wallpaper refresher the API drives.
type Refresher interface {
	TriggerRefresh() (int, error)
	Status() wallpaper.Status
	Log() *wallpaper.ActivityLog
}

// Server represents the local REST/WebSocket server.
type Server struct {
	addr       string
	refresher  Refresher
	httpServer *http.Server
	mux        *http.ServeMux
	upgrader   websocket.Upgrader

	// WebSocket management
	clients   map[*websocket.Conn]bool
	clientsMu sync.Mutex

	unsubscribe func()
}

// NewServer creates a new API server bound to addr. An empty addr uses DefaultAddr.
func NewServer(refresher Refresher, addr string) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	s := &Server{
		addr:      addr,
		refresher: refresher,
		mux:       http.NewServeMux(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return loopbackOrigin(r.Header.Get("Origin"))
			},
		},
		clients: make(map[*websocket.Conn]bool),
	}
	s.setupRoutes()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.unsubscribe = refresher.Log().Subscribe(s.broadcastEntry)
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/health", s.enableCORS(s.handleHealth))
	s.mux.HandleFunc("/status", s.enableCORS(s.handleStatus))
	s.mux.HandleFunc("/log", s.enableCORS(s.handleLog))
	s.mux.HandleFunc("/refresh", s.enableCORS(s.handleRefresh))
	s.mux.HandleFunc("/ws", s.handleWebSocket)
}

// enableCORS adds CORS headers for loopback pages and rejects every other browser origin.
func (s *Server) enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if !loopbackOrigin(origin) {
			http.Error(w, "origin not allowed", http.StatusForbidden)
			return
		}
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// loopbackOrigin reports whether a request with this Origin header may use the API.
// Local tools send no Origin; browsers must be on a loopback page.
func loopbackOrigin(origin string) bool {
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Start serves until Stop is called. It blocks.
func (s *Server) Start() error {
	log.Printf("Local API listening on http://%s", s.addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop shuts the server down and closes every WebSocket client.
func (s *Server) Stop() error {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}

	s.clientsMu.Lock()
	for client := range s.clients {
		client.Close()
		delete(s.clients, client)
	}
	s.clientsMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// broadcastEntry pushes a new activity log entry to every WebSocket client.
func (s *Server) broadcastEntry(e wallpaper.Entry) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	msg := logMessage{Type: "log", Entry: e}
	for client := range s.clients {
		client.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.WriteJSON(msg); err != nil {
			log.Printf("Failed to broadcast to client: %v", err)
			client.Close()
			delete(s.clients, client)
		}
	}
}
