// Package server hosts the heatmap preview API: a small HTTP surface
// that renders posted ratings grids on demand, so themes can be tuned
// without a write-render-open loop.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/showheat/showheat"
)

// DefaultAddr is the listen address used when SHOWHEAT_ADDR is unset.
const DefaultAddr = ":8750"

const shutdownGrace = 5 * time.Second

// Server renders preview heatmaps over HTTP. One FontCache is shared
// across all requests.
type Server struct {
	addr   string
	fonts  *showheat.FontCache
	router *mux.Router
}

// New creates a preview server listening on addr. Empty addr falls
// back to DefaultAddr. Extra font directories are scanned in addition
// to the system ones.
func New(addr string, fontDirs ...string) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	s := &Server{
		addr:  addr,
		fonts: showheat.NewFontCache(fontDirs...),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/v1/heatmap", s.handleHeatmap).Methods(http.MethodPost)
	r.HandleFunc("/v1/colormaps", s.handleColormaps).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	return r
}

// Handler exposes the route table, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("[INFO] preview server listening on %s", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		log.Printf("[INFO] preview server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
