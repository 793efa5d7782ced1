package providers

import (
	"github.com/samber/do/v2"

	"github.com/leituraapp/leitura-server/internal/config"
	"github.com/leituraapp/leitura-server/internal/logger"
	"github.com/leituraapp/leitura-server/internal/metadata/googlebooks"
	"github.com/leituraapp/leitura-server/internal/metadata/openlibrary"
)

// ProvideGoogleBooksClient provides the Google Books catalog client.
func ProvideGoogleBooksClient(i do.Injector) (*googlebooks.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return googlebooks.NewClient(log.Logger, cfg.Catalog.LanguageRestrict, cfg.Catalog.SearchLimit), nil
}

// ProvideOpenLibraryClient provides the Open Library catalog client.
func ProvideOpenLibraryClient(i do.Injector) (*openlibrary.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return openlibrary.NewClient(log.Logger, cfg.Catalog.SearchLimit), nil
}
