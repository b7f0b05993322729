package cardano

import (
	"context"

	"cardano-explorer.backend/internal/config"
	"cardano-explorer.backend/internal/domain/entities"
	domainerrors "cardano-explorer.backend/internal/domain/errors"
)

// KoiosProvider reads address data from the public Koios REST API
type KoiosProvider struct {
	baseURL string
	apiKey  string
	legs    legFetcher
}

// NewKoiosProvider creates a Koios adapter
func NewKoiosProvider(cfg config.KoiosConfig, client Doer) *KoiosProvider {
	return &KoiosProvider{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		legs: legFetcher{
			provider: entities.ProviderKoios,
			client:   client,
			timeout:  withDefaultTimeout(cfg.Timeout),
		},
	}
}

func (p *KoiosProvider) Name() entities.ProviderName {
	return entities.ProviderKoios
}

// Fetch POSTs {"_addresses":[address]} to address_info, address_utxos and address_assets
func (p *KoiosProvider) Fetch(ctx context.Context, address string) (*entities.RawBundle, error) {
	body, err := koiosBody(address)
	if err != nil {
		return nil, err
	}

	results, err := p.legs.fetch(ctx, [3]httpRequest{
		post(p.baseURL+"/address_info", body, p.apiKey),
		post(p.baseURL+"/address_utxos", body, p.apiKey),
		post(p.baseURL+"/address_assets", body, p.apiKey),
	})
	if err != nil {
		return nil, err
	}
	if !allSucceeded(results) {
		return nil, domainerrors.Upstream("Upstream error from Koios", statusesOf(results))
	}
	return toBundle(entities.ProviderKoios, results)
}
