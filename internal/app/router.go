package app

import (
	"github.com/gin-gonic/gin"

	"github.com/ajaypanchal761/createbharat-sub003/internal/server"
)

func wireRouter(h Handlers, m Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthHandler:        h.Auth,
		AuthMiddleware:     m.Auth,
		CatalogHandler:     h.Catalog,
		ProgressHandler:    h.Progress,
		CertificateHandler: h.Certificate,
	})
}
