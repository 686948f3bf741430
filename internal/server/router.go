package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ajaypanchal761/createbharat-sub003/internal/handlers"
	"github.com/ajaypanchal761/createbharat-sub003/internal/middleware"
)

type RouterConfig struct {
	AuthHandler        *handlers.AuthHandler
	AuthMiddleware     *middleware.AuthMiddleware
	CatalogHandler     *handlers.CatalogHandler
	ProgressHandler    *handlers.ProgressHandler
	CertificateHandler *handlers.CertificateHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
		api.GET("/courses", cfg.CatalogHandler.ListCourses)
		api.GET("/courses/:courseID", cfg.CatalogHandler.GetCourseStructure)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Enrollment and progress
	protected.POST("/courses/:courseID/enroll", cfg.ProgressHandler.Enroll)
	protected.POST("/courses/:courseID/topics/complete", cfg.ProgressHandler.CompleteTopic)
	protected.GET("/courses/:courseID/progress", cfg.ProgressHandler.GetProgress)
	// Certificate gate
	protected.POST("/courses/:courseID/certificate/order", cfg.CertificateHandler.CreateOrder)
	protected.POST("/courses/:courseID/certificate/confirm", cfg.CertificateHandler.ConfirmPayment)
	protected.GET("/courses/:courseID/certificate", cfg.CertificateHandler.GetCertificate)

	return router
}
