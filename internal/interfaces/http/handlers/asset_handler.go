package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cardano-explorer.backend/internal/domain/entities"
	domainerrors "cardano-explorer.backend/internal/domain/errors"
	"cardano-explorer.backend/internal/infrastructure/cardano"
	"cardano-explorer.backend/internal/interfaces/http/middleware"
	"cardano-explorer.backend/internal/interfaces/http/response"
	"cardano-explorer.backend/internal/usecases"
)

type aggregationService interface {
	Aggregate(ctx context.Context, input usecases.AggregateInput) (*usecases.AggregateOutput, error)
}

// AssetHandler serves the per-provider address asset routes
type AssetHandler struct {
	aggregationUsecase aggregationService
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(aggregationUsecase *usecases.AggregationUsecase) *AssetHandler {
	return &AssetHandler{aggregationUsecase: aggregationUsecase}
}

// GetAssets returns the handler for one provider
// GET /address/:addr/assets and GET /{provider}/:addr/assets, ?raw=1 skips normalization
func (h *AssetHandler) GetAssets(provider entities.ProviderName) gin.HandlerFunc {
	return func(c *gin.Context) {
		addr := c.Param("addr")
		if entities.AddressTooShort(addr) {
			response.Error(c, domainerrors.BadRequest("Invalid request params").
				WithDetails(fieldError("addr", "String must contain at least 10 character(s)")))
			return
		}

		raw := c.Query("raw")
		input := usecases.AggregateInput{
			Provider: provider,
			Address:  addr,
			Raw:      raw == "1" || raw == "true",
		}
		if identity, ok := middleware.GetIdentity(c); ok {
			input.Identity = identity
		}

		out, err := h.aggregationUsecase.Aggregate(c.Request.Context(), input)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotImplemented) {
				notImplemented(c, err, addr, provider)
				return
			}
			response.Error(c, err)
			return
		}

		if out.Raw != nil {
			response.Success(c, http.StatusOK, out.Raw)
			return
		}
		response.Success(c, http.StatusOK, out.Response)
	}
}

func notImplemented(c *gin.Context, err error, addr string, provider entities.ProviderName) {
	var appErr *domainerrors.AppError
	if !errors.As(err, &appErr) {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusNotImplemented, gin.H{
		"error":      appErr.Message,
		"code":       appErr.Code,
		"suggestion": appErr.Suggestion,
		"fallback":   cardano.BitvavoFallback,
		"address":    addr,
		"provider":   provider,
		"status":     "not_implemented",
	})
}
