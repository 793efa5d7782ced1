// Package di provides dependency injection configuration for the Leitura server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/leituraapp/leitura-server/internal/auth"
	"github.com/leituraapp/leitura-server/internal/config"
	"github.com/leituraapp/leitura-server/internal/di/providers"
	"github.com/leituraapp/leitura-server/internal/logger"
	"github.com/leituraapp/leitura-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Catalog clients
	do.Provide(injector, providers.ProvideGoogleBooksClient)
	do.Provide(injector, providers.ProvideOpenLibraryClient)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvideResolverService)
	do.Provide(injector, providers.ProvideShelfService)
	do.Provide(injector, providers.ProvideProgressService)
	do.Provide(injector, providers.ProvideGoalService)
	do.Provide(injector, providers.ProvideChallengeService)
	do.Provide(injector, providers.ProvideClubService)
	do.Provide(injector, providers.ProvideAnnotationService)
	do.Provide(injector, providers.ProvideImportService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.CatalogService](injector)
	_ = do.MustInvoke[*service.ResolverService](injector)
	_ = do.MustInvoke[*service.ShelfService](injector)
	_ = do.MustInvoke[*service.ProgressService](injector)
	_ = do.MustInvoke[*service.GoalService](injector)
	_ = do.MustInvoke[*service.ChallengeService](injector)
	_ = do.MustInvoke[*service.ClubService](injector)
	_ = do.MustInvoke[*service.AnnotationService](injector)
	_ = do.MustInvoke[*service.ImportService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
