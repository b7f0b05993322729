package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"cardano-explorer.backend/internal/domain/entities"
	"cardano-explorer.backend/internal/interfaces/http/handlers"
	"cardano-explorer.backend/internal/interfaces/http/middleware"
	"cardano-explorer.backend/pkg/logger"
)

type routeDeps struct {
	healthHandler  *handlers.HealthHandler
	assetHandler   *handlers.AssetHandler
	addressHandler *handlers.AddressHandler
	authMiddleware gin.HandlerFunc
}

func applyCORSMiddleware(r *gin.Engine, origins ...string) {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(middleware.CORSMiddleware(origins))
}

func registerHealthRoute(r *gin.Engine) {
	h := handlers.NewHealthHandler()
	r.GET("/health", h.Health)
}

func registerFallbacks(r *gin.Engine) {
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	})
}

func recoveryHandler(c *gin.Context, err any) {
	logger.Error(c.Request.Context(), "Unhandled panic", zap.Any("panic", err))
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func registerRoutes(r *gin.Engine, d routeDeps) {
	r.POST("/echo", d.healthHandler.Echo)

	// Asset lookups accept anonymous callers; a valid token enables auto-save
	assets := r.Group("")
	assets.Use(d.authMiddleware)
	{
		assets.GET("/address/:addr/assets", d.assetHandler.GetAssets(entities.ProviderKoios))
		for _, provider := range entities.Providers {
			assets.GET("/"+provider.String()+"/:addr/assets", d.assetHandler.GetAssets(provider))
		}
	}

	addresses := r.Group("/addresses")
	addresses.Use(d.authMiddleware, middleware.RequireAuth())
	{
		addresses.GET("", d.addressHandler.ListAddresses)
		addresses.POST("", middleware.IdempotencyMiddleware(), d.addressHandler.CreateAddress)
		addresses.DELETE("", d.addressHandler.DeleteAllAddresses)
		addresses.GET("/:provider", d.addressHandler.ListAddressesByProvider)
		addresses.DELETE("/:provider/:address", d.addressHandler.DeleteAddress)
		addresses.GET("/:provider/:address/check", d.addressHandler.CheckAddress)
	}
}
