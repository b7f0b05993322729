package usecases

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"cardano-explorer.backend/internal/domain/entities"
	domainerrors "cardano-explorer.backend/internal/domain/errors"
	"cardano-explorer.backend/internal/infrastructure/cardano"
	"cardano-explorer.backend/pkg/logger"
	"cardano-explorer.backend/pkg/metrics"
)

// ProviderRegistry resolves an upstream adapter by name
type ProviderRegistry interface {
	Get(name entities.ProviderName) (cardano.Provider, error)
}

// AddressSaver records looked-up addresses for a user
type AddressSaver interface {
	AutoSave(ctx context.Context, userID, address string, provider entities.ProviderName) entities.SaveOutcome
}

// AggregateInput describes one asset lookup
type AggregateInput struct {
	Provider entities.ProviderName
	Address  string
	Raw      bool
	Identity *entities.Identity
}

// AggregateOutput holds either the passthrough payloads or the normalized response
type AggregateOutput struct {
	Raw      *entities.RawResponse
	Response *entities.AggregatedResponse
	Saved    *entities.SaveOutcome
}

// AggregationUsecase fetches, normalizes and records address lookups
type AggregationUsecase struct {
	providers  ProviderRegistry
	normalizer *AssetNormalizer
	saver      AddressSaver
	now        func() time.Time
}

// NewAggregationUsecase creates a new aggregation usecase
func NewAggregationUsecase(providers ProviderRegistry, normalizer *AssetNormalizer, saver AddressSaver) *AggregationUsecase {
	return &AggregationUsecase{
		providers:  providers,
		normalizer: normalizer,
		saver:      saver,
		now:        time.Now,
	}
}

// Aggregate fetches the three upstream legs for input.Address and builds the response.
// Only the Koios path is enriched with the ADA entry, metadata and prices.
func (uc *AggregationUsecase) Aggregate(ctx context.Context, input AggregateInput) (*AggregateOutput, error) {
	if entities.AddressTooShort(input.Address) {
		return nil, domainerrors.BadRequest("Invalid request params").WithDetail("address must be at least 10 characters")
	}

	provider, err := uc.providers.Get(input.Provider)
	if err != nil {
		return nil, domainerrors.BadRequest("Invalid provider").WithDetail(err.Error())
	}

	bundle, err := provider.Fetch(ctx, input.Address)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotImplemented) && input.Identity != nil && !input.Raw {
			// address recall still works for providers without data retrieval
			uc.autoSave(ctx, input)
		}
		return nil, uc.fail(ctx, input, err)
	}

	if input.Raw {
		metrics.Aggregations.WithLabelValues(input.Provider.String(), "raw").Inc()
		raw := bundle.Passthrough()
		return &AggregateOutput{Raw: &raw}, nil
	}

	normalized := uc.normalizer.Normalize(ctx, bundle, input.Provider == entities.ProviderKoios)
	resp := &entities.AggregatedResponse{
		Address:     input.Address,
		Provider:    input.Provider,
		FetchedAt:   uc.now().UTC(),
		Info:        normalized.Info,
		UtxosCount:  len(normalized.Utxos),
		AssetsCount: normalized.AssetsCount,
		Utxos:       normalized.Utxos,
		Assets:      normalized.Assets,
	}
	logger.Info(ctx, "Address data fetched",
		zap.String("provider", input.Provider.String()),
		zap.String("address", input.Address),
		zap.Int("assetsCount", resp.AssetsCount),
		zap.Int("utxosCount", resp.UtxosCount),
	)

	out := &AggregateOutput{Response: resp}
	if input.Identity != nil {
		outcome := uc.autoSave(ctx, input)
		saved := outcome.Persisted()
		resp.Saved = &saved
		out.Saved = &outcome
	}

	metrics.Aggregations.WithLabelValues(input.Provider.String(), "ok").Inc()
	return out, nil
}

func (uc *AggregationUsecase) autoSave(ctx context.Context, input AggregateInput) entities.SaveOutcome {
	if uc.saver == nil {
		return entities.SaveOutcome{Status: entities.SaveStatusFailed, Reason: errors.New("address saving disabled")}
	}
	return uc.saver.AutoSave(ctx, input.Identity.UserID, input.Address, input.Provider)
}

func (uc *AggregationUsecase) fail(ctx context.Context, input AggregateInput, err error) error {
	metrics.Aggregations.WithLabelValues(input.Provider.String(), "error").Inc()

	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) {
		logger.Warn(ctx, "Address lookup failed",
			zap.String("provider", input.Provider.String()),
			zap.String("address", input.Address),
			zap.Int("status", appErr.Status),
			zap.Error(err),
		)
		return appErr
	}

	logger.Error(ctx, "Failed to fetch assets",
		zap.String("provider", input.Provider.String()),
		zap.String("address", input.Address),
		zap.Error(err),
	)
	return domainerrors.NewAppError(http.StatusInternalServerError, domainerrors.CodeInternalError, "Failed to fetch assets", err)
}
