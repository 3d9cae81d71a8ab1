// Package control exposes the session command mailbox over local HTTP so
// other programs can start playback or replace the search text.
package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/chiptide/internal/session"
)

// Commander is the session surface the server drives.
type Commander interface {
	PlayIndex(i int)
	SetSearch(text string)
	Status() session.Snapshot
}

// Server serves the command endpoints:
//
//	POST /play?index=N   play result row N
//	POST /search         replace the query with form value q
//	GET  /status         JSON snapshot of the session
type Server struct {
	cmds Commander
	log  *zap.Logger

	mu     sync.Mutex
	server *http.Server
	ln     net.Listener
}

// New creates a server; call Start to listen.
func New(cmds Commander, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{cmds: cmds, log: log}
}

// Handler returns the routing for the command endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /play", s.play)
	mux.HandleFunc("POST /search", s.search)
	mux.HandleFunc("GET /status", s.status)
	return mux
}

// Start listens on addr and serves in the background.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.mu.Lock()
	s.server = server
	s.ln = ln
	s.mu.Unlock()

	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Warn("control server stopped", zap.Error(err))
		}
	}()
	s.log.Info("control server started", zap.String("addr", ln.Addr().String()))
	return nil
}

// Addr returns the listening address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Close shuts the server down, waiting briefly for in-flight requests.
func (s *Server) Close() {
	s.mu.Lock()
	server := s.server
	s.server = nil
	s.ln = nil
	s.mu.Unlock()

	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_ = server.Shutdown(ctx)
		cancel()
	}
}

func (s *Server) play(w http.ResponseWriter, r *http.Request) {
	raw := r.FormValue("index")
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 {
		http.Error(w, fmt.Sprintf("invalid index %q", raw), http.StatusBadRequest)
		return
	}
	s.cmds.PlayIndex(index)
	s.log.Debug("play requested", zap.Int("index", index))
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if !r.Form.Has("q") {
		http.Error(w, "missing q", http.StatusBadRequest)
		return
	}
	q := r.Form.Get("q")
	s.cmds.SetSearch(q)
	s.log.Debug("search replaced", zap.String("query", q))
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) status(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.cmds.Status()); err != nil {
		s.log.Warn("encode status", zap.Error(err))
	}
}
