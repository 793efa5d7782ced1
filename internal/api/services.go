package api

import (
	"github.com/leituraapp/leitura-server/internal/service"
)

// Services groups the business logic services used by the API server.
// This keeps the NewServer signature manageable and makes tests easy to wire.
type Services struct {
	Auth       *service.AuthService
	Catalog    *service.CatalogService
	Resolver   *service.ResolverService
	Shelf      *service.ShelfService
	Progress   *service.ProgressService
	Goal       *service.GoalService
	Challenge  *service.ChallengeService
	Club       *service.ClubService
	Annotation *service.AnnotationService
	Import     *service.ImportService
}
