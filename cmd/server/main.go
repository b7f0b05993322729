package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cardano-explorer.backend/internal/config"
	"cardano-explorer.backend/internal/infrastructure/cardano"
	"cardano-explorer.backend/internal/infrastructure/datasources/database"
	"cardano-explorer.backend/internal/infrastructure/pricing"
	"cardano-explorer.backend/internal/infrastructure/ratelimit"
	"cardano-explorer.backend/internal/infrastructure/repositories"
	"cardano-explorer.backend/internal/infrastructure/tokenregistry"
	"cardano-explorer.backend/internal/interfaces/http/handlers"
	"cardano-explorer.backend/internal/interfaces/http/middleware"
	"cardano-explorer.backend/internal/usecases"
	"cardano-explorer.backend/pkg/jwt"
	"cardano-explorer.backend/pkg/logger"
	"cardano-explorer.backend/pkg/metrics"
	"cardano-explorer.backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = database.NewConnection
	migrateDB  = database.Migrate
	runServer  = serveUntilSignal
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	initLog(cfg.Server.Env, cfg.Server.LogLevel)
	ctx := context.Background()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env), zap.String("level", cfg.Server.LogLevel))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer redis.Close()
	if redis.Enabled() {
		logger.Info(ctx, "Redis initialized")
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := migrateDB(db); err != nil {
		return err
	}
	logger.Info(ctx, "Database ready", zap.String("driver", cfg.Database.Driver))

	r, err := buildRouter(cfg, db)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info(ctx, "Cardano explorer backend starting", zap.String("port", cfg.Server.Port))

	if err := runServer(srv); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	logger.Info(ctx, "Server stopped")
	return nil
}

func buildRouter(cfg *config.Config, db *gorm.DB) (*gin.Engine, error) {
	zapLog := logger.GetLogger()
	httpClient := cardano.NewHTTPClient()

	tokens, err := tokenregistry.Load(cfg.Pricing.RegistryPath)
	if err != nil {
		return nil, err
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	addressRepo := repositories.NewSavedAddressRepository(db)

	// Upstreams
	providers := cardano.NewDefaultRegistry(cfg, httpClient, zapLog)
	metadata := cardano.NewMetadataClient(cfg.Koios, cfg.Metadata, httpClient, zapLog)
	prices := pricing.NewCoinGeckoClient(cfg.Pricing, httpClient, zapLog)

	// Usecases
	userUsecase := usecases.NewUserUsecase(userRepo)
	addressUsecase := usecases.NewAddressUsecase(addressRepo, userRepo)
	normalizer := usecases.NewAssetNormalizer(metadata, prices, tokens)
	aggregationUsecase := usecases.NewAggregationUsecase(providers, normalizer, addressUsecase)

	// Handlers
	healthHandler := handlers.NewHealthHandler()
	assetHandler := handlers.NewAssetHandler(aggregationUsecase)
	addressHandler := handlers.NewAddressHandler(addressUsecase)

	verifier := newVerifier(cfg.Auth, httpClient)
	metrics.MustRegisterMetrics()

	r := gin.New()
	if err := r.SetTrustedProxies(trustedProxies(cfg.Server.TrustProxy)); err != nil {
		return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
	}
	r.Use(gin.CustomRecovery(recoveryHandler))
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware("/health"))
	r.Use(middleware.SecurityHeadersMiddleware())
	applyCORSMiddleware(r, cfg.Server.CORSOrigins...)
	r.Use(middleware.BodyLimitMiddleware(cfg.Server.BodyLimitBytes))
	r.Use(middleware.RateLimitMiddleware(ratelimit.New(cfg.RateLimit.Max, cfg.RateLimit.Window)))

	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerRoutes(r, routeDeps{
		healthHandler:  healthHandler,
		assetHandler:   assetHandler,
		addressHandler: addressHandler,
		authMiddleware: middleware.Authenticate(verifier, userUsecase),
	})
	registerFallbacks(r)

	for _, route := range r.Routes() {
		logger.Debug(context.Background(), "Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}
	return r, nil
}

// newVerifier prefers a shared secret, then a JWKS endpoint, then unverified claims
func newVerifier(cfg config.AuthConfig, client jwt.Doer) *jwt.Verifier {
	switch {
	case cfg.JWTSecret != "":
		return jwt.NewHMACVerifier(cfg.JWTSecret)
	case cfg.JWKSURL != "":
		return jwt.NewJWKSVerifier(jwt.NewJWKSClient(cfg.JWKSURL, client, 0))
	default:
		logger.Warn(context.Background(), "No AUTH_JWT_SECRET or AUTH_JWKS_URL configured; bearer token signatures are not verified")
		return jwt.NewUnverifiedVerifier()
	}
}

func trustedProxies(trust bool) []string {
	if trust {
		return []string{"0.0.0.0/0", "::/0"}
	}
	return nil
}

func serveUntilSignal(srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	logger.Info(context.Background(), "Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
