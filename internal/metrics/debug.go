package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"bubble-pop/internal/config"
	"bubble-pop/internal/game"
)

// StateSource is the read-only view of the engine the debug router needs.
type StateSource interface {
	State() game.GameState
	Mode() game.GameMode
	Paused() bool
	FrameCount() uint64
	Counts() game.Counts
	PopulationTarget() int
	GetEventLogStats() map[string]interface{}
}

// stateResponse is the /debug/state body.
type stateResponse struct {
	State            string                 `json:"state"`
	Mode             string                 `json:"mode"`
	Paused           bool                   `json:"paused"`
	Frame            uint64                 `json:"frame"`
	PopulationTarget int                    `json:"population_target"`
	Entities         game.Counts            `json:"entities"`
	Journal          map[string]interface{} `json:"journal,omitempty"`
}

// NewDebugRouter builds the debug routes. It has no side effects, so tests
// can mount it on httptest.NewServer. engine may be nil.
func NewDebugRouter(m *Metrics, engine StateSource) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	// pprof under /debug/pprof/
	r.Mount("/debug", middleware.Profiler())

	r.Handle("/metrics", m.Handler())

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if engine != nil {
		r.Get("/state", func(w http.ResponseWriter, r *http.Request) {
			resp := stateResponse{
				State:            engine.State().String(),
				Mode:             engine.Mode().String(),
				Paused:           engine.Paused(),
				Frame:            engine.FrameCount(),
				PopulationTarget: engine.PopulationTarget(),
				Entities:         engine.Counts(),
				Journal:          engine.GetEventLogStats(),
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(resp)
		})
	}
	return r
}

// LocalAddr forces addr onto the loopback interface unless
// POP_DEBUG_EXTERNAL=true. pprof must never be reachable from outside.
func LocalAddr(addr string) (string, bool) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return config.DefaultDebug().ListenAddr, true
	}
	if host == "localhost" {
		return addr, false
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return addr, false
	}
	if os.Getenv("POP_DEBUG_EXTERNAL") == "true" {
		return addr, false
	}
	return net.JoinHostPort("127.0.0.1", port), true
}

// DebugServer serves the debug router.
type DebugServer struct {
	srv  *http.Server
	addr string
	log  *zap.Logger
}

// StartDebugServer listens on cfg.ListenAddr (forced to localhost) and
// serves handler in the background. It returns nil, nil when disabled.
func StartDebugServer(cfg config.DebugConfig, handler http.Handler, log *zap.Logger) (*DebugServer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if !cfg.Enabled {
		log.Info("📊 Debug server disabled")
		return nil, nil
	}

	addr, forced := LocalAddr(cfg.ListenAddr)
	if forced {
		log.Warn("⚠️ Debug server forced to localhost for security",
			zap.String("requested", cfg.ListenAddr),
			zap.String("using", addr))
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("debug server listen %s: %w", addr, err)
	}

	s := &DebugServer{
		srv: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		addr: ln.Addr().String(),
		log:  log,
	}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("⚠️ Debug server error", zap.Error(err))
		}
	}()

	log.Info("📊 Debug server started",
		zap.String("pprof", "http://"+s.addr+"/debug/pprof/"),
		zap.String("metrics", "http://"+s.addr+"/metrics"))
	return s, nil
}

// Addr returns the bound address.
func (s *DebugServer) Addr() string { return s.addr }

// Shutdown stops the server, waiting for in-flight requests until ctx ends.
func (s *DebugServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
