package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"leadgate/internal/auth"
	"leadgate/internal/config"
	leadRepo "leadgate/internal/domain/repositories/lead"
	"leadgate/internal/handler"
	"leadgate/internal/middleware"
	"leadgate/internal/repository/postgres"
	postgresLead "leadgate/internal/repository/postgres/lead"
	serviceLead "leadgate/internal/service/lead"
	"leadgate/internal/service/lead/phrases"
	"leadgate/internal/service/lead/responder"
	"leadgate/internal/webhook"

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

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	if cfg.WebhookURL == "" {
		log.Fatalf("CRM_WEBHOOK_URL is required")
	}

	// Widget embed-token verification (optional; dev runs without it)
	var verifier auth.TokenVerifier
	if cfg.EmbedJWKSURL != "" {
		v, err := auth.NewJWKSVerifier(cfg.EmbedJWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create embed token verifier: %v", err)
		}
		defer v.Close()
		verifier = v
	} else {
		logger.Warn("EMBED_JWKS_URL not set - embed authentication disabled")
	}

	// Progressive persistence (optional; the pipeline degrades to
	// delivery-only when no database is configured)
	var recordRepo leadRepo.RecordRepository
	if cfg.DatabaseURL != "" {
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

		tables := postgres.NewTableNames(cfg.TablePrefix)
		if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to ensure database schema: %v", err)
		}

		recordRepo = postgresLead.NewRecordRepository(&postgres.RepositoryConfig{
			Pool:   pool,
			Tables: tables,
			Logger: logger,
		})
	} else {
		logger.Warn("DATABASE_URL not set - progressive persistence disabled")
	}

	// Phrase tables for fallback extraction and completion detection
	phraseRegistry, err := phrases.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load phrase tables: %v", err)
	}
	logger.Info("phrase tables loaded", "languages", phraseRegistry.Languages())

	// Upstream responder
	llmResponder, err := responder.Setup(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to setup responder: %v", err)
	}

	// CRM delivery transports
	deliveryClient := webhook.NewClient(cfg.WebhookURL, webhook.DefaultClientConfig(), logger)
	beaconTransport := webhook.NewBeacon(cfg.BeaconURL, logger)

	// Session service (extraction, accumulation, completion, delivery
	// coordination)
	svcCfg := serviceLead.DefaultServiceConfig()
	svcCfg.DefaultLanguage = cfg.DefaultLanguage
	sessionService := serviceLead.NewService(
		llmResponder,
		recordRepo,
		deliveryClient,
		beaconTransport,
		phraseRegistry,
		serviceLead.DefaultExtractConfig(),
		svcCfg,
		logger,
	)

	sessionHandler := handler.NewSessionHandler(sessionService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", sessionHandler.HealthCheck)

	// Session routes
	mux.HandleFunc("POST /api/sessions", sessionHandler.OpenSession)
	mux.HandleFunc("GET /api/sessions/{id}", sessionHandler.GetSession)
	mux.HandleFunc("POST /api/sessions/{id}/turns", sessionHandler.SubmitTurn)
	mux.HandleFunc("POST /api/sessions/{id}/close", sessionHandler.CloseSession)
	mux.HandleFunc("POST /api/sessions/{id}/beacon", sessionHandler.Beacon)

	// Build middleware chain
	var httpHandler http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS -> Recovery -> Auth -> Routes
	httpHandler = middleware.EmbedAuth(verifier)(httpHandler)
	httpHandler = middleware.Recovery(logger)(httpHandler)

	// CORS - the widget is embedded cross-origin by nature
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
