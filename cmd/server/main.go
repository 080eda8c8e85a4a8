package main

import (
	"coachsync/internal/api"
	"coachsync/internal/config"
	"coachsync/internal/gsheets"
	"coachsync/internal/parser"
	mongorepo "coachsync/internal/repository/mongo"
	"coachsync/internal/service"
	"coachsync/internal/storage"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// @title Coach Sheet-Sync API
// @version 1.0
// @description API for linking coach-maintained workout spreadsheets to clients and serving parsed plans.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting coachsync server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongorepo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongorepo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	go func() { // Run index creation in the background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongorepo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongorepo.EnsureSheetLinkIndexes(ctx, appDB.Collection("sheet_links"))
		mongorepo.EnsureCachedPlanIndexes(ctx, appDB.Collection("cached_plans"))
		log.Println("Index creation process completed.")
	}()

	// --- Sheets Client ---
	// Explicitly constructed here and injected below; components never reach
	// for a shared global.
	log.Println("Initializing Google Sheets client...")
	sheetsClient, err := gsheets.NewClient(context.Background(), cfg.Sheets.CredentialsFile)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Sheets client: %v", err)
	}

	// --- Snapshot Archive (optional) ---
	var archive storage.ObjectStorage
	if cfg.Archive.Enabled {
		log.Println("Initializing snapshot archive...")
		archive, err = storage.NewS3Storage(cfg.Archive.S3)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
		}
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongorepo.NewMongoUserRepository(appDB)
	linkRepo := mongorepo.NewMongoSheetLinkRepository(appDB)
	planRepo := mongorepo.NewMongoCachedPlanRepository(appDB)
	txManager := mongorepo.NewTxManager(dbClient)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	planParser := parser.New(parser.DefaultColumnLayout())
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	linkService := service.NewLinkService(userRepo, linkRepo, planRepo, txManager, sheetsClient, archive, planParser, cfg.Sheets.DefaultTab, cfg.Sheets.FetchTimeout)
	planService := service.NewPlanService(linkRepo, planRepo, sheetsClient, planParser, cfg.Sheets.FetchTimeout)

	// --- Initialize Gin Engine ---
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, authService, linkService, planService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
