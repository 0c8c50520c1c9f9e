package main

import (
	"daycare-api/internal/handler"
	"daycare-api/internal/middleware"
	"daycare-api/internal/service"
	"daycare-api/internal/store"
	"daycare-api/pkg/config"
	"daycare-api/pkg/database"
	"daycare-api/pkg/jwtutil"
	"daycare-api/pkg/logger"
	"daycare-api/pkg/mailer"
	"daycare-api/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting daycare API...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Wire stores, services and handlers
	st := store.New(database.GetDB())
	mail := mailer.NewFromConfig(cfg, log)

	authService := service.NewAuthService(st, log)
	registrationService := service.NewRegistrationService(st, log)
	invitationService := service.NewInvitationService(st, mail, cfg, log)
	relationshipService := service.NewRelationshipService(st, mail, cfg, log)
	childService := service.NewChildService(st, log)
	classroomService := service.NewClassroomService(st, log)
	catalogService := service.NewCatalogService(st, log)

	authHandler := handler.NewAuthHandler(authService)
	tenantHandler := handler.NewTenantHandler(registrationService)
	invitationHandler := handler.NewInvitationHandler(invitationService)
	relationshipHandler := handler.NewRelationshipHandler(relationshipService)
	childHandler := handler.NewChildHandler(childService)
	classroomHandler := handler.NewClassroomHandler(classroomService, catalogService)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes - these don't belong under /api since they're for getting access to the API
	auth := e.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/register-tenant", tenantHandler.RegisterTenant)
	auth.POST("/verify-email", authHandler.VerifyEmail)
	auth.POST("/accept-invitation", invitationHandler.AcceptInvitation)

	// Invitation management - admin endpoints under /auth, but authenticated
	authAPI := e.Group("/auth")
	authAPI.Use(middleware.AuthMiddleware)
	authAPI.POST("/invite-staff", invitationHandler.InviteStaff)
	authAPI.POST("/resend-invitation", invitationHandler.ResendInvitation)
	authAPI.GET("/invited-users", invitationHandler.ListInvitedUsers)
	authAPI.DELETE("/cancel-invitation/:userId", invitationHandler.CancelInvitation)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)
	api.GET("/profile", authHandler.Profile)

	// Parent-child relationships - requires tenant context
	relationships := api.Group("/parent-relationships")
	relationships.Use(middleware.RequireTenantContext)
	relationships.POST("/add-new-parent", relationshipHandler.AddNewParent)
	relationships.POST("/add-existing-parent", relationshipHandler.AddExistingParent)
	relationships.PUT("/:relationshipId", relationshipHandler.UpdateRelationship)
	relationships.DELETE("/:relationshipId", relationshipHandler.RemoveRelationship)
	relationships.GET("/child/:childId/parents", relationshipHandler.ChildParents)
	relationships.GET("/available-parents", relationshipHandler.AvailableParents)

	// Children - requires tenant context
	children := api.Group("/children")
	children.Use(middleware.RequireTenantContext)
	children.POST("", childHandler.CreateChild)
	children.GET("", childHandler.ListChildren)
	children.GET("/:id", childHandler.GetChild)
	children.PUT("/:id", childHandler.UpdateChild)
	children.DELETE("/:id", childHandler.DeleteChild)

	// Classrooms - requires tenant context
	classrooms := api.Group("/classrooms")
	classrooms.Use(middleware.RequireTenantContext)
	classrooms.POST("", classroomHandler.CreateClassroom)
	classrooms.GET("", classroomHandler.ListClassrooms)
	classrooms.POST("/:id/assign-child", classroomHandler.AssignChild)

	// Service catalog - requires tenant context
	services := api.Group("/services")
	services.Use(middleware.RequireTenantContext)
	services.POST("", classroomHandler.CreateService)
	services.GET("", classroomHandler.ListServices)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
