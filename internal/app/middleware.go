package app

import (
	"github.com/ajaypanchal761/createbharat-sub003/internal/middleware"
	"github.com/ajaypanchal761/createbharat-sub003/internal/platform/logger"
)

type Middleware struct {
	Auth *middleware.AuthMiddleware
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: middleware.NewAuthMiddleware(log, services.Auth),
	}
}
