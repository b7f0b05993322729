package cardano

import (
	"context"

	"cardano-explorer.backend/internal/config"
	"cardano-explorer.backend/internal/domain/entities"
	domainerrors "cardano-explorer.backend/internal/domain/errors"
)

// CustomProvider talks to a self-hosted service exposing Koios-shaped endpoints
type CustomProvider struct {
	cfg  config.CustomConfig
	legs legFetcher
}

// NewCustomProvider creates a custom adapter
func NewCustomProvider(cfg config.CustomConfig, client Doer) *CustomProvider {
	return &CustomProvider{
		cfg: cfg,
		legs: legFetcher{
			provider: entities.ProviderCustom,
			client:   client,
			timeout:  withDefaultTimeout(cfg.Timeout),
		},
	}
}

func (p *CustomProvider) Name() entities.ProviderName {
	return entities.ProviderCustom
}

func (p *CustomProvider) Fetch(ctx context.Context, address string) (*entities.RawBundle, error) {
	if !p.cfg.Configured() {
		return nil, domainerrors.NotConfigured("Custom provider not configured")
	}

	body, err := koiosBody(address)
	if err != nil {
		return nil, err
	}

	results, err := p.legs.fetch(ctx, [3]httpRequest{
		post(p.cfg.InfoURL, body, ""),
		post(p.cfg.UtxosURL, body, ""),
		post(p.cfg.AssetsURL, body, ""),
	})
	if err != nil {
		return nil, err
	}
	if !allSucceeded(results) {
		return nil, domainerrors.Upstream("Upstream error from Custom provider", statusesOf(results))
	}
	return toBundle(entities.ProviderCustom, results)
}
