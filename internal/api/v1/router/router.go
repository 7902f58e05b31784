package router

import (
	"context"
	"net/http"
	"strings"

	"app/internal/api/v1/handler"
	"app/internal/config"
	"app/internal/middleware"
	"app/internal/repository"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

func New(cfg *config.Config, logger zerolog.Logger) (http.Handler, *pgxpool.Pool, error) {
	// 1. Open DB connection pool
	dsn := cfg.DBConnectionString
	// Local databases usually run without SSL; production connection strings
	// are expected to carry their own sslmode.
	if cfg.Environment == "development" && !strings.Contains(dsn, "sslmode") {
		separator := "?"
		if strings.Contains(dsn, "?") {
			separator = "&"
		}
		dsn += separator + "sslmode=disable"
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open DB pool")
		return nil, nil, err
	}
	if err := pool.Ping(context.Background()); err != nil {
		logger.Error().Err(err).Msg("Failed to ping DB")
		pool.Close()
		return nil, nil, err
	}
	logger.Info().Msg("Database connection successful")

	// 2. Initialize validator
	validate := validator.New(validator.WithRequiredStructEnabled())

	// 3. Initialize provider clients
	ledger := service.NewUsageLedgerClient(cfg.IdentityBaseURL, cfg.IdentityAPIKey)
	textGen := service.NewTextGenClient(cfg.TextGenBaseURL, cfg.TextGenAPIKey, cfg.TextGenModel)
	imageGen := service.NewImageGenClient(cfg.ImageGenBaseURL, cfg.ImageGenAPIKey)
	media := service.NewMediaHostClient(cfg.MediaUploadURL, cfg.MediaDeliveryURL, cfg.MediaCloudName, cfg.MediaAPIKey, cfg.MediaAPISecret)
	bot := service.NewChatBotClient(cfg.ChatBotBaseURL, cfg.ChatBotAPIKey, cfg.ChatBotModel)

	// 4. Initialize repositories & services & handlers
	creationRepo := repository.NewCreationRepo(pool)
	chatRepo := repository.NewChatRepo(pool)

	generationSvc := service.NewGenerationService(ledger, textGen, imageGen, media, creationRepo, cfg.FreeUsageLimit, logger)
	chatSvc := service.NewChatService(chatRepo, bot, logger)
	creationSvc := service.NewCreationService(creationRepo, logger)

	aiHandler := handler.NewAIHandler(generationSvc, chatSvc, validate, logger)
	chatHandler := handler.NewChatHandler(chatSvc, validate, logger)
	creationHandler := handler.NewCreationHandler(creationSvc, logger)

	// 5. Initialize middleware
	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret, logger)

	// 6. Create ServeMux router
	apiV1Mux := http.NewServeMux()
	aiHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	chatHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	creationHandler.RegisterRoutes(apiV1Mux, authMiddleware)

	mux := http.NewServeMux()
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// 7. Apply CORS and request middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	chain := middleware.RequestIDMiddleware(middleware.LoggerMiddleware(logger, c.Handler(mux)))
	return chain, pool, nil
}
