package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"ascendia-notes/ascendia/broker"
	"ascendia-notes/ascendia/config"
	"ascendia-notes/ascendia/database"
	"ascendia-notes/ascendia/middleware"
	"ascendia-notes/ascendia/routes"
	"ascendia-notes/ascendia/services"
	"ascendia-notes/ascendia/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := config.Load()

	db, err := database.Setup(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	avatars, err := storage.NewAvatarStorage(cfg.MediaDir)
	if err != nil {
		log.Fatalf("Failed to initialize avatar storage: %v", err)
	}

	// Initialize NATS producer with better error handling
	natsAvailable := true
	err = broker.InitProducer(cfg)
	if err != nil {
		log.Printf("Warning: Failed to initialize NATS producer: %v", err)
		log.Println("The application will continue, but event publishing will be disabled")
		natsAvailable = false
	} else {
		defer broker.CloseProducer()
	}

	// Create and start the live-update hub
	liveUpdateService := services.NewLiveUpdateService()
	services.LiveUpdateServiceInstance = liveUpdateService
	liveUpdateService.Start(cfg) // This runs in a goroutine
	defer liveUpdateService.Stop()

	// Only start the outbox dispatcher if NATS is available
	if natsAvailable {
		eventDispatcherService := services.NewEventDispatcherService(db)
		services.EventDispatcherServiceInstance = eventDispatcherService
		eventDispatcherService.Start()
		defer eventDispatcherService.Stop()
	} else {
		log.Println("Event dispatcher is disabled due to NATS unavailability")
	}

	// Initialize authentication service
	authService := services.NewAuthService(cfg.JWTSecret, cfg.JWTExpirationHours)
	services.AuthServiceInstance = authService

	// Initialize profile service with avatar storage dependency
	profileService := services.NewProfileService(avatars)
	services.ProfileServiceInstance = profileService

	router := gin.Default()
	router.HandleMethodNotAllowed = true
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	router.Use(middleware.CSRFMiddleware(cfg.CookieSecure))

	// Stored avatars are served straight off disk
	router.Static("/media/avatars", filepath.Join(cfg.MediaDir, "avatars"))

	// Register authentication routes (public)
	routes.RegisterAuthRoutes(router, db, authService, cfg.CookieSecure)

	// Everything else requires a session
	authorized := router.Group("/")
	authorized.Use(middleware.AuthMiddleware(authService))
	{
		routes.RegisterNotebookRoutes(authorized, db, services.NotebookServiceInstance, services.NoteServiceInstance)
		routes.RegisterNoteRoutes(authorized, db, services.NoteServiceInstance, services.TagServiceInstance)
		routes.RegisterTagRoutes(authorized, db, services.TagServiceInstance)
		routes.RegisterProfileRoutes(authorized, db, services.UserServiceInstance, services.ProfileServiceInstance)
	}

	// WebSocket endpoint uses its own auth middleware (401, never a redirect)
	ws := router.Group("/")
	ws.Use(middleware.WebSocketAuthMiddleware(authService))
	{
		routes.RegisterWebSocketRoutes(ws, liveUpdateService)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("Shutting down server...")
		// Explicitly close NATS consumers before exiting
		broker.CloseAllConsumers()
		os.Exit(0)
	}()

	log.Printf("API server is running on port %s", cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
