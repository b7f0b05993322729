package cardano

import (
	"context"

	"cardano-explorer.backend/internal/domain/entities"
	domainerrors "cardano-explorer.backend/internal/domain/errors"
)

const (
	BitvavoSuggestion = "The Bitvavo provider is not yet implemented. Please use the Koios provider instead, which provides the same functionality."
	BitvavoFallback   = "You can use the Koios provider which works out of the box and provides comprehensive Cardano wallet data."
)

// BitvavoProvider is a placeholder; Bitvavo exposes no public address lookup
type BitvavoProvider struct{}

func NewBitvavoProvider() *BitvavoProvider {
	return &BitvavoProvider{}
}

func (p *BitvavoProvider) Name() entities.ProviderName {
	return entities.ProviderBitvavo
}

func (p *BitvavoProvider) Fetch(ctx context.Context, address string) (*entities.RawBundle, error) {
	return nil, domainerrors.NotImplemented("Bitvavo provider not implemented", BitvavoSuggestion)
}
