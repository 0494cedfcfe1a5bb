package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"promptdeck/internal/auth"
	"promptdeck/internal/config"
	"promptdeck/internal/handler"
	"promptdeck/internal/middleware"
	"promptdeck/internal/repository/postgres"
	"promptdeck/internal/service"
	"promptdeck/internal/service/prompt"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	componentRepo := postgres.NewComponentRepository(repoConfig)
	presetRepo := postgres.NewPresetRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Prompt layout drives section titles and ordering
	layout, err := prompt.LoadLayout()
	if err != nil {
		log.Fatalf("Failed to load prompt layout: %v", err)
	}
	compositor := prompt.NewCompositor(layout)

	// Create services
	validator := service.NewValidator(componentRepo)
	componentService := service.NewComponentService(componentRepo, presetRepo, txManager, validator, logger)
	presetService := service.NewPresetService(presetRepo, componentRepo, txManager, validator, logger)
	promptResolver := service.NewPromptResolver(componentRepo, presetRepo, compositor, logger)
	usageTracker := service.NewUsageTracker(componentRepo, presetRepo, txManager, logger)

	// Create handlers
	componentHandler := handler.NewComponentHandler(componentService, logger)
	presetHandler := handler.NewPresetHandler(presetService, logger)
	promptHandler := handler.NewPromptHandler(promptResolver, usageTracker, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", componentHandler.HealthCheck)

	// Component routes
	mux.HandleFunc("GET /api/components", componentHandler.ListComponents)
	mux.HandleFunc("POST /api/components", componentHandler.CreateComponent)
	mux.HandleFunc("GET /api/components/{id}", componentHandler.GetComponent)
	mux.HandleFunc("PATCH /api/components/{id}", componentHandler.UpdateComponent)
	mux.HandleFunc("DELETE /api/components/{id}", componentHandler.DeleteComponent)

	// Preset routes
	mux.HandleFunc("GET /api/presets", presetHandler.ListPresets)
	mux.HandleFunc("POST /api/presets", presetHandler.CreatePreset)
	mux.HandleFunc("GET /api/presets/{id}", presetHandler.GetPreset)
	mux.HandleFunc("PATCH /api/presets/{id}", presetHandler.UpdatePreset)
	mux.HandleFunc("DELETE /api/presets/{id}", presetHandler.DeletePreset)

	// Chat-turn prompt routes
	mux.HandleFunc("POST /api/prompts/resolve", promptHandler.ResolvePrompt)
	mux.HandleFunc("POST /api/prompts/usage", promptHandler.RecordUsage)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	root = middleware.Auth(jwtVerifier)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
