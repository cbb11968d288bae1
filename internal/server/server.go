// Package server exposes the aggregated status over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/conradoqg/cloudstatus/internal/collector"
	"github.com/conradoqg/cloudstatus/internal/feed"
	"github.com/conradoqg/cloudstatus/internal/logx"
	"github.com/conradoqg/cloudstatus/internal/providers"
	"github.com/conradoqg/cloudstatus/internal/proxy"
	"github.com/conradoqg/cloudstatus/internal/registry"
)

// StatusProxy answers single-provider passthrough requests.
type StatusProxy interface {
	Status(ctx context.Context, id string) (json.RawMessage, error)
}

type Options struct {
	Refresher *collector.Refresher
	Store     *collector.Store
	Proxy     StatusProxy
	Channel   feed.Channel
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}

type Server struct {
	opts Options
	now  func() time.Time
}

func New(opts Options) *Server {
	return &Server{opts: opts, now: time.Now}
}

type snapshotResponse struct {
	Overall     providers.ProviderStatus `json:"overall"`
	LastUpdated time.Time                `json:"lastUpdated"`
	Providers   []providers.Provider     `json:"providers"`
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/providers", s.handleProviders)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)
	mux.HandleFunc("GET /api/rss", s.handleRSS)
	mux.HandleFunc("GET /api/status/{provider}", s.handleStatus)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	if s.opts.Metrics != nil {
		mux.Handle("GET /metrics", s.opts.Metrics)
	}
	return mux
}

// current returns the published snapshot, running a cycle synchronously if
// none has completed yet.
func (s *Server) current(ctx context.Context) *collector.Snapshot {
	if snap := s.opts.Store.Load(); snap != nil {
		return snap
	}
	return s.opts.Refresher.Refresh(ctx)
}

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	writeSnapshot(w, s.current(r.Context()))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	writeSnapshot(w, s.opts.Refresher.Refresh(r.Context()))
}

func (s *Server) handleRSS(w http.ResponseWriter, r *http.Request) {
	snap := s.current(r.Context())
	b, err := feed.Project(snap.Providers, s.opts.Channel, s.now())
	if err != nil {
		logx.Errorf("render rss: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to render feed"})
		return
	}
	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="cloud-status-feed.xml"`)
	_, _ = w.Write(b)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("provider")
	body, err := s.opts.Proxy.Status(r.Context(), id)
	var pe *proxy.Error
	switch {
	case err == nil:
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	case errors.Is(err, registry.ErrProviderNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Provider not found"})
	case errors.As(err, &pe):
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":    "Failed to fetch provider status",
			"provider": pe.Provider,
		})
	default:
		logx.Errorf("status provider=%s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":    "Failed to fetch provider status",
			"provider": id,
		})
	}
}

func writeSnapshot(w http.ResponseWriter, snap *collector.Snapshot) {
	writeJSON(w, http.StatusOK, snapshotResponse{
		Overall:     snap.Overall(),
		LastUpdated: snap.CompletedAt,
		Providers:   snap.Providers,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logx.Debugf("write response: %v", err)
	}
}
