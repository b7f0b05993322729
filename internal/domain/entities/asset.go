package entities

import (
	"encoding/json"
	"time"
)

const (
	// AdaDecimals is the lovelace exponent: 1 ADA = 10^6 lovelace
	AdaDecimals = 6
	// AdaTicker labels the native entry
	AdaTicker = "ADA"
	// AdaPriceID is the price-feed id of the native currency
	AdaPriceID = "cardano"
)

// AssetRecord is one normalized holding. The native ADA entry has no policy_id
// and an empty asset_name.
type AssetRecord struct {
	PolicyID    *string  `json:"policy_id,omitempty"`
	AssetName   string   `json:"asset_name"`
	Fingerprint string   `json:"fingerprint,omitempty"`
	DisplayName string   `json:"display_name,omitempty"`
	Ticker      string   `json:"ticker,omitempty"`
	Decimals    *int     `json:"decimals,omitempty"`
	Logo        string   `json:"logo,omitempty"`
	Quantity    string   `json:"quantity"`
	AdaValue    *float64 `json:"ada_value,omitempty"`
	UsdValue    *float64 `json:"usd_value,omitempty"`
	EurValue    *float64 `json:"eur_value,omitempty"`
}

// IsNative reports whether a is the synthetic ADA entry
func (a *AssetRecord) IsNative() bool {
	return a.PolicyID == nil && a.AssetName == ""
}

// AggregatedResponse is the normalized view of an address
type AggregatedResponse struct {
	Address     string            `json:"address"`
	Provider    ProviderName      `json:"provider"`
	FetchedAt   time.Time         `json:"fetchedAt"`
	Info        json.RawMessage   `json:"info"`
	UtxosCount  int               `json:"utxosCount"`
	AssetsCount int               `json:"assetsCount"`
	Utxos       []json.RawMessage `json:"utxos"`
	Assets      []*AssetRecord    `json:"assets"`
	Saved       *bool             `json:"saved,omitempty"`
}

// AssetKey identifies a native token type
type AssetKey struct {
	PolicyID  string
	AssetName string
}

// AssetMetadata is what the metadata lookup knows about a token
type AssetMetadata struct {
	AssetNameASCII string
	AssetNameUTF8  string
	Ticker         string
	Name           string
	Decimals       int
	Logo           string
}

// SpotPrice is a fiat quote for one unit of a token
type SpotPrice struct {
	USD float64
	EUR float64
}

// PriceToken is a token whose spot price is looked up during valuation
type PriceToken struct {
	ID     string `yaml:"id"`
	Symbol string `yaml:"symbol"`
	Name   string `yaml:"name"`
}
