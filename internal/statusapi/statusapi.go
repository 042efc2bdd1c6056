// Package statusapi serves a read-only HTTP introspection endpoint
// over the engine's published axis state, mirroring the teacher's
// http.HandleFunc server shape but routed through gorilla/mux so
// per-axis paths can carry a typed {axis} variable.
package statusapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"motionctl/internal/engine"
)

const shutdownGrace = 2 * time.Second

// Server is the read-only status HTTP server. It never mutates engine
// state; handlers only call Axis.Snapshot, Engine.GlobalStep and
// Engine.Running.
type Server struct {
	Port int
	Eng  *engine.Engine
}

// NewServer returns a status server bound to port, reporting on eng.
func NewServer(port int, eng *engine.Engine) *Server {
	return &Server{Port: port, Eng: eng}
}

// Serve blocks, serving /status and /status/{axis} until done fires or
// the listener returns an error.
func (s *Server) Serve(done <-chan struct{}) error {
	r := mux.NewRouter()
	r.HandleFunc("/status", s.serveAll).Methods(http.MethodGet)
	r.HandleFunc("/status/{axis}", s.serveAxis).Methods(http.MethodGet)

	srv := &http.Server{Addr: fmt.Sprintf(":%d", s.Port), Handler: r}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-done:
		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(ctx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("statusapi: serve: %w", err)
		}
		return nil
	}
}

func (s *Server) serveAll(w http.ResponseWriter, r *http.Request) {
	snaps := make([]engine.Snapshot, len(s.Eng.Axes))
	for i, ax := range s.Eng.Axes {
		snaps[i] = ax.Snapshot()
	}
	writeJSON(w, map[string]interface{}{
		"globalStep": s.Eng.GlobalStep(),
		"running":    s.Eng.Running(),
		"axes":       snaps,
	})
}

func (s *Server) serveAxis(w http.ResponseWriter, r *http.Request) {
	idxStr := mux.Vars(r)["axis"]
	idx, err := strconv.Atoi(idxStr)
	if err != nil || idx < 0 || idx >= len(s.Eng.Axes) {
		http.Error(w, fmt.Sprintf("unknown axis %q", idxStr), http.StatusNotFound)
		return
	}
	writeJSON(w, s.Eng.Axes[idx].Snapshot())
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
