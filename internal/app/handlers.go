package app

import (
	"github.com/ajaypanchal761/createbharat-sub003/internal/handlers"
	"github.com/ajaypanchal761/createbharat-sub003/internal/platform/logger"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	Catalog     *handlers.CatalogHandler
	Progress    *handlers.ProgressHandler
	Certificate *handlers.CertificateHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:        handlers.NewAuthHandler(log, services.Auth),
		Catalog:     handlers.NewCatalogHandler(log, services.Catalog),
		Progress:    handlers.NewProgressHandler(log, services.Enrollment, services.Progress),
		Certificate: handlers.NewCertificateHandler(log, services.Certificate, services.Renderer),
	}
}
