package providers

import (
	"github.com/samber/do/v2"

	"github.com/leituraapp/leitura-server/internal/auth"
	"github.com/leituraapp/leitura-server/internal/logger"
	"github.com/leituraapp/leitura-server/internal/metadata/googlebooks"
	"github.com/leituraapp/leitura-server/internal/metadata/openlibrary"
	"github.com/leituraapp/leitura-server/internal/service"
)

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideCatalogService provides the external book catalog service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	google := do.MustInvoke[*googlebooks.Client](i)
	openlib := do.MustInvoke[*openlibrary.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalogService(google, openlib, log.Logger), nil
}

// ProvideResolverService provides the book identity resolver.
func ProvideResolverService(i do.Injector) (*service.ResolverService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewResolverService(storeHandle.Store, log.Logger), nil
}

// ProvideShelfService provides the shelf service.
func ProvideShelfService(i do.Injector) (*service.ShelfService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	resolver := do.MustInvoke[*service.ResolverService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewShelfService(storeHandle.Store, resolver, log.Logger), nil
}

// ProvideProgressService provides the reading progress service.
func ProvideProgressService(i do.Injector) (*service.ProgressService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewProgressService(storeHandle.Store, log.Logger), nil
}

// ProvideGoalService provides the yearly goal service.
func ProvideGoalService(i do.Injector) (*service.GoalService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewGoalService(storeHandle.Store, log.Logger), nil
}

// ProvideChallengeService provides the bingo challenge service.
func ProvideChallengeService(i do.Injector) (*service.ChallengeService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewChallengeService(storeHandle.Store, log.Logger), nil
}

// ProvideClubService provides the reading club service.
func ProvideClubService(i do.Injector) (*service.ClubService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	resolver := do.MustInvoke[*service.ResolverService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewClubService(storeHandle.Store, resolver, log.Logger), nil
}

// ProvideAnnotationService provides the annotation service.
func ProvideAnnotationService(i do.Injector) (*service.AnnotationService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAnnotationService(storeHandle.Store, log.Logger), nil
}

// ProvideImportService provides the Goodreads import service.
func ProvideImportService(i do.Injector) (*service.ImportService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	resolver := do.MustInvoke[*service.ResolverService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewImportService(storeHandle.Store, resolver, log.Logger), nil
}
