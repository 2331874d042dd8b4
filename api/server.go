package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/lookbusy1344/mips-sim/orchestrator"
)

// Server exposes a single orchestrator.Machine over HTTP and WebSocket. One
// Server serves one machine; running several simulations side by side means
// running several Servers on different ports.
type Server struct {
	machine     *orchestrator.Machine
	broadcaster *Broadcaster
	mux         *http.ServeMux
	server      *http.Server
	port        int
}

// NewServer creates a Server over machine, wiring the broadcaster to the
// orchestrator's PC-change/log callbacks so every step fans out to every
// connected WebSocket client.
func NewServer(machine *orchestrator.Machine, port int) *Server {
	s := &Server{
		machine:     machine,
		broadcaster: NewBroadcaster(),
		mux:         http.NewServeMux(),
		port:        port,
	}
	machine.SetCallbacks(s.onPCChange, s.onLog)
	s.registerRoutes()
	return s
}

func (s *Server) onPCChange(pc uint32) {
	s.broadcaster.Broadcast(BroadcastEvent{Type: EventPC, PC: pc})
}

func (s *Server) onLog(line string) {
	s.broadcaster.Broadcast(BroadcastEvent{Type: EventLog, Line: line})
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/v1/load", s.handleLoad)
	s.mux.HandleFunc("/api/v1/step", s.handleStep)
	s.mux.HandleFunc("/api/v1/state", s.handleState)
	s.mux.HandleFunc("/api/v1/machine-code", s.handleMachineCode)
	s.mux.HandleFunc("/api/v1/ws", s.handleWebSocket)
}

// Handler returns the server's routed handler wrapped in CORS middleware,
// mainly for tests that want to drive it with httptest.NewServer without
// calling Start.
func (s *Server) Handler() http.Handler {
	return s.corsMiddleware(s.mux)
}

// Start blocks serving HTTP on 127.0.0.1:port until Shutdown is called or
// the listener fails.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	log.Printf("mips-sim API server starting on http://127.0.0.1:%d", s.port)
	return s.server.ListenAndServe()
}

// Shutdown closes the broadcaster and gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.broadcaster.Close()
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// corsMiddleware restricts cross-origin access to localhost, matching a
// locally-hosted front-end talking to a locally-run simulator.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if isAllowedOrigin(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isAllowedOrigin(origin string) bool {
	if origin == "" {
		return true
	}
	if strings.HasPrefix(origin, "file://") {
		return true
	}
	return strings.HasPrefix(origin, "http://localhost") ||
		strings.HasPrefix(origin, "https://localhost") ||
		strings.HasPrefix(origin, "http://127.0.0.1") ||
		strings.HasPrefix(origin, "https://127.0.0.1")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"subscribers": s.broadcaster.SubscriptionCount(),
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("error encoding JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

func readJSON(r *http.Request, v any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	return decoder.Decode(v)
}
