package app

import (
	"os"

	"gorm.io/gorm"

	redisclient "github.com/ajaypanchal761/createbharat-sub003/internal/clients/redis"
	"github.com/ajaypanchal761/createbharat-sub003/internal/platform/logger"
	"github.com/ajaypanchal761/createbharat-sub003/internal/platform/razorpay"
	"github.com/ajaypanchal761/createbharat-sub003/internal/services"
)

type Services struct {
	Auth        services.AuthService
	Catalog     services.CatalogService
	Enrollment  services.EnrollmentService
	Progress    services.ProgressService
	Certificate services.CertificateService
	Identity    services.IdentityService
	Renderer    services.RendererService

	CatalogCache redisclient.CatalogCache
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) (Services, error) {
	log.Info("Wiring services...")

	// Catalog cache is optional; without REDIS_ADDR every structure read goes
	// straight to the database.
	var cache redisclient.CatalogCache
	if os.Getenv("REDIS_ADDR") != "" {
		c, err := redisclient.NewCatalogCache(log)
		if err != nil {
			log.Warn("Catalog cache unavailable, continuing without it", "error", err)
		} else {
			cache = c
		}
	}

	gateway, err := razorpay.NewFromEnv(log)
	if err != nil {
		log.Warn("Razorpay credentials missing, using noop gateway", "error", err)
		gateway = razorpay.NewNoop(log)
	}

	locks := services.NewKeyedMutex()

	catalog := services.NewCatalogService(db, log, r.Course, r.CourseModule, r.Topic, cache)
	identity := services.NewIdentityService(log, r.User)
	renderer, err := services.NewRendererService(log, catalog, identity, r.CertificateProgress)
	if err != nil {
		return Services{}, err
	}

	return Services{
		Auth:         services.NewAuthService(db, log, r.User, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		Catalog:      catalog,
		Enrollment:   services.NewEnrollmentService(db, log, catalog, r.CertificateProgress, locks),
		Progress:     services.NewProgressService(db, log, catalog, r.CertificateProgress, locks),
		Certificate:  services.NewCertificateService(db, log, catalog, r.CertificateProgress, gateway, locks),
		Identity:     identity,
		Renderer:     renderer,
		CatalogCache: cache,
	}, nil
}
