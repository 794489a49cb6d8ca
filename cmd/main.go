package main

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"voicehub/internal/handler"
	"voicehub/internal/middleware"
	"voicehub/internal/rbac"
	"voicehub/internal/store"
	"voicehub/pkg/config"
	"voicehub/pkg/database"
	"voicehub/pkg/jwtutil"
	"voicehub/pkg/logger"
	"voicehub/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting voicehub service...", zap.String("environment", cfg.Server.Env))

	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	memberships := store.NewMembershipStore(database.GetDB())
	orgHandler := handler.NewOrgHandler(memberships)
	memberHandler := handler.NewMemberHandler(memberships)

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

	auth := e.Group("/auth")
	auth.POST("/login", handler.Login)
	auth.POST("/register", handler.Register)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	// User profile
	users := api.Group("/users")
	users.GET("/profile", handler.GetProfile)
	users.PATCH("/profile", handler.UpdateProfile)
	users.POST("/change-password", handler.ChangePassword)

	// Organization lifecycle and switching - no active-org context needed,
	// a user with zero memberships must be able to create their first org.
	orgs := api.Group("/orgs")
	orgs.POST("", orgHandler.CreateOrganization)
	orgs.GET("", orgHandler.ListOrganizations)
	orgs.GET("/active", orgHandler.GetActiveOrganization)
	orgs.POST("/switch", orgHandler.SwitchOrganization)
	orgs.GET("/:id", orgHandler.GetOrganization)

	// Membership management - role checks run against the path organization
	orgs.GET("/:id/members", memberHandler.ListMembers)
	orgs.POST("/:id/members", memberHandler.AddMember)
	orgs.PATCH("/:id/members/:user_id", memberHandler.UpdateMemberRole)
	orgs.DELETE("/:id/members/:user_id", memberHandler.RemoveMember)
	orgs.POST("/:id/transfer", memberHandler.TransferOwnership)

	// Notifications for the dashboard header
	notifications := api.Group("/notifications")
	notifications.GET("", handler.ListNotifications)
	notifications.POST("/:id/read", handler.MarkNotificationRead)
	notifications.POST("/read-all", handler.MarkAllNotificationsRead)

	// Active-organization scoped routes
	scoped := api.Group("")
	scoped.Use(middleware.ActiveOrgMiddleware(memberships))
	scoped.Use(middleware.RouteGuardMiddleware)

	scoped.GET("/session", handler.GetSession)
	scoped.GET("/access/route", handler.CheckRouteAccess)

	agents := scoped.Group("/agents")
	agents.GET("", handler.ListAgents)
	agents.GET("/:id", handler.GetAgent)
	agents.POST("", handler.CreateAgent, middleware.RequirePermission(rbac.ActionAgentsCreate))
	agents.PATCH("/:id", handler.UpdateAgent, middleware.RequirePermission(rbac.ActionAgentsEdit))
	agents.DELETE("/:id", handler.DeleteAgent, middleware.RequirePermission(rbac.ActionAgentsDelete))

	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
