package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heartlinkapp/discovery/internal/app"
	"github.com/heartlinkapp/discovery/internal/config"
	"github.com/heartlinkapp/discovery/internal/service/discover"
	"github.com/heartlinkapp/discovery/internal/service/likes"
	"github.com/heartlinkapp/discovery/internal/service/toplist"
)

// Server wires the engine services behind the internal HTTP surface.
// Authentication is external: the gateway injects the already
// authenticated viewer id as the X-User-ID header.
type Server struct {
	appCtx   *app.AppContext
	discover *discover.Service
	top      *toplist.Service
	likes    *likes.Service
}

// New builds the server and its services from AppContext.
func New(appCtx *app.AppContext) *Server {
	return &Server{
		appCtx:   appCtx,
		discover: discover.NewService(appCtx),
		top:      toplist.NewService(appCtx),
		likes:    likes.NewService(appCtx),
	}
}

// Router assembles the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/discover", s.handleDiscover)
		r.Get("/discover/top", s.handleTopProfiles)
		r.Get("/likes", s.handleLikes)
	})

	return r
}

// Start boots the HTTP server and blocks until it exits.
func Start(cfg *config.Config, s *Server) error {
	srv := &http.Server{
		Addr:              cfg.HTTP.Host + ":" + cfg.HTTP.Port,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv.ListenAndServe()
}
