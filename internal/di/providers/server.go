package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/leituraapp/leitura-server/internal/api"
	"github.com/leituraapp/leitura-server/internal/config"
	"github.com/leituraapp/leitura-server/internal/logger"
	"github.com/leituraapp/leitura-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Auth:       do.MustInvoke[*service.AuthService](i),
		Catalog:    do.MustInvoke[*service.CatalogService](i),
		Resolver:   do.MustInvoke[*service.ResolverService](i),
		Shelf:      do.MustInvoke[*service.ShelfService](i),
		Progress:   do.MustInvoke[*service.ProgressService](i),
		Goal:       do.MustInvoke[*service.GoalService](i),
		Challenge:  do.MustInvoke[*service.ChallengeService](i),
		Club:       do.MustInvoke[*service.ClubService](i),
		Annotation: do.MustInvoke[*service.AnnotationService](i),
		Import:     do.MustInvoke[*service.ImportService](i),
	}

	handler := api.NewServer(storeHandle.Store, services, cfg, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
