package usecases

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"cardano-explorer.backend/internal/domain/entities"
	"cardano-explorer.backend/pkg/logger"
	"cardano-explorer.backend/pkg/metrics"
)

// MetadataLookup resolves token metadata for many assets at once
type MetadataLookup interface {
	Lookup(ctx context.Context, keys []entities.AssetKey) (map[entities.AssetKey]entities.AssetMetadata, error)
}

// PriceLookup returns spot quotes keyed by price-feed id
type PriceLookup interface {
	GetPrices(ctx context.Context, ids []string) (map[string]entities.SpotPrice, error)
}

// TokenRegistry provides fallback decimals and the priced token list
type TokenRegistry interface {
	FallbackDecimals(displayName string) (int, bool)
	PriceIDs() []string
	Match(ticker, displayName string) (entities.PriceToken, bool)
}

// NormalizedAssets is the normalizer output
type NormalizedAssets struct {
	Info        json.RawMessage
	Utxos       []json.RawMessage
	Assets      []*entities.AssetRecord
	AssetsCount int
}

var hexPattern = regexp.MustCompile(`^[0-9a-fA-F]+$`)

type rawAsset struct {
	PolicyID    *string         `json:"policy_id"`
	AssetName   *string         `json:"asset_name"`
	Fingerprint string          `json:"fingerprint"`
	Quantity    json.RawMessage `json:"quantity"`
}

type rawUtxo struct {
	Value json.RawMessage `json:"value"`
}

type workingAsset struct {
	record   *entities.AssetRecord
	quantity decimal.Decimal
	numeric  bool
	decoded  string
	meta     *entities.AssetMetadata
}

// AssetNormalizer turns provider payloads into the aggregated asset list
type AssetNormalizer struct {
	metadata MetadataLookup
	prices   PriceLookup
	registry TokenRegistry
}

// NewAssetNormalizer creates a normalizer. metadata and prices may be nil, which disables that enrichment.
func NewAssetNormalizer(metadata MetadataLookup, prices PriceLookup, registry TokenRegistry) *AssetNormalizer {
	return &AssetNormalizer{metadata: metadata, prices: prices, registry: registry}
}

// Normalize unwraps the bundle and decodes asset names. With enrich set it also
// synthesizes the ADA entry, looks up metadata and values every asset.
// Enrichment failures are logged and never returned.
func (n *AssetNormalizer) Normalize(ctx context.Context, bundle *entities.RawBundle, enrich bool) *NormalizedAssets {
	info := bundle.Info.First()
	if info == nil {
		info = bundle.Info.Raw()
	}
	utxos := bundle.Utxos.Items()
	if utxos == nil {
		utxos = []json.RawMessage{}
	}
	collection := bundle.Assets.AssetList()

	assets := make([]*workingAsset, 0, len(collection)+1)
	if enrich {
		if native := nativeAsset(ctx, utxos); native != nil {
			assets = append(assets, native)
		}
	}
	for _, item := range collection {
		assets = append(assets, decodeAsset(ctx, item))
	}

	var rates valuationRates
	if enrich {
		rates = n.enrich(ctx, assets)
	}

	records := make([]*entities.AssetRecord, 0, len(assets))
	for _, a := range assets {
		if !a.record.IsNative() {
			n.scale(a)
		}
		if enrich {
			n.value(a, rates)
		}
		records = append(records, a.record)
	}

	return &NormalizedAssets{
		Info:        info,
		Utxos:       utxos,
		Assets:      records,
		AssetsCount: len(collection),
	}
}

func nativeAsset(ctx context.Context, utxos []json.RawMessage) *workingAsset {
	sum := decimal.Zero
	for _, item := range utxos {
		var u rawUtxo
		if err := json.Unmarshal(item, &u); err != nil {
			continue
		}
		v, ok := parseQuantity(u.Value)
		if !ok {
			logger.Debug(ctx, "Skipping UTXO with unparseable value", zap.ByteString("value", u.Value))
			continue
		}
		sum = sum.Add(v)
	}

	ada := sum.Shift(-entities.AdaDecimals)
	if !ada.IsPositive() {
		return nil
	}
	return &workingAsset{
		record: &entities.AssetRecord{
			AssetName:   "",
			DisplayName: entities.AdaTicker,
			Ticker:      entities.AdaTicker,
			Quantity:    ada.String(),
		},
		quantity: ada,
		numeric:  true,
	}
}

func decodeAsset(ctx context.Context, item json.RawMessage) *workingAsset {
	var raw rawAsset
	if err := json.Unmarshal(item, &raw); err != nil {
		logger.Debug(ctx, "Asset entry is not an object", zap.Error(err))
	}

	record := &entities.AssetRecord{
		PolicyID:    raw.PolicyID,
		Fingerprint: raw.Fingerprint,
		Quantity:    "0",
	}
	if raw.AssetName != nil {
		record.AssetName = *raw.AssetName
	}
	if record.PolicyID == nil && record.AssetName == "" {
		// keep the native sentinel unique
		empty := ""
		record.PolicyID = &empty
	}

	a := &workingAsset{record: record}
	if q, ok := parseQuantity(raw.Quantity); ok {
		a.quantity = q
		a.numeric = true
		record.Quantity = q.String()
	} else if s := unquote(raw.Quantity); s != "" {
		record.Quantity = s
	}

	a.decoded = DecodeAssetName(record.AssetName)
	record.DisplayName = a.decoded
	return a
}

// DecodeAssetName returns the printable UTF-8 text of a hex asset name, or name unchanged
func DecodeAssetName(name string) string {
	if !hexPattern.MatchString(name) {
		return name
	}
	b, err := hex.DecodeString(name)
	if err != nil || !utf8.Valid(b) {
		return name
	}
	text := string(b)
	if strings.TrimSpace(text) == "" {
		return name
	}
	for _, r := range text {
		if unicode.IsControl(r) {
			return name
		}
	}
	return text
}

type valuationRates struct {
	ada    entities.SpotPrice
	tokens map[string]entities.SpotPrice
}

func (n *AssetNormalizer) enrich(ctx context.Context, assets []*workingAsset) valuationRates {
	var (
		rates    valuationRates
		metadata map[entities.AssetKey]entities.AssetMetadata
		g        errgroup.Group
	)

	keys := make([]entities.AssetKey, 0, len(assets))
	for _, a := range assets {
		if a.record.IsNative() || a.record.PolicyID == nil || *a.record.PolicyID == "" {
			continue
		}
		keys = append(keys, entities.AssetKey{PolicyID: *a.record.PolicyID, AssetName: a.record.AssetName})
	}

	if n.metadata != nil && len(keys) > 0 {
		g.Go(func() error {
			found, err := n.metadata.Lookup(ctx, keys)
			if err != nil {
				metrics.EnrichmentFailures.WithLabelValues("metadata").Inc()
				logger.Warn(ctx, "Asset metadata lookup failed", zap.Int("assets", len(keys)), zap.Error(err))
			}
			metadata = found
			return nil
		})
	}
	if n.prices != nil {
		g.Go(func() error {
			quotes, err := n.prices.GetPrices(ctx, []string{entities.AdaPriceID})
			if err != nil {
				metrics.EnrichmentFailures.WithLabelValues("ada_price").Inc()
				logger.Warn(ctx, "ADA price lookup failed", zap.Error(err))
				return nil
			}
			rates.ada = quotes[entities.AdaPriceID]
			return nil
		})
		if ids := n.registry.PriceIDs(); len(ids) > 0 {
			g.Go(func() error {
				quotes, err := n.prices.GetPrices(ctx, ids)
				if err != nil {
					metrics.EnrichmentFailures.WithLabelValues("token_prices").Inc()
					logger.Warn(ctx, "Token price lookup failed", zap.Strings("ids", ids), zap.Error(err))
					return nil
				}
				rates.tokens = quotes
				return nil
			})
		}
	}
	_ = g.Wait()

	for _, a := range assets {
		if a.record.IsNative() || a.record.PolicyID == nil {
			continue
		}
		meta, ok := metadata[entities.AssetKey{PolicyID: *a.record.PolicyID, AssetName: a.record.AssetName}]
		if !ok {
			continue
		}
		a.meta = &meta
		a.record.DisplayName = firstNonEmpty(meta.AssetNameASCII, meta.AssetNameUTF8, meta.Ticker, a.decoded)
		a.record.Ticker = meta.Ticker
		a.record.Logo = meta.Logo
	}
	return rates
}

func (n *AssetNormalizer) scale(a *workingAsset) {
	decimals := 0
	if a.meta != nil && a.meta.Decimals > 0 {
		decimals = a.meta.Decimals
	} else if d, ok := n.registry.FallbackDecimals(a.record.DisplayName); ok && d > 0 {
		decimals = d
	}
	if decimals == 0 {
		return
	}
	a.record.Decimals = &decimals
	if !a.numeric {
		return
	}
	a.quantity = a.quantity.Shift(int32(-decimals))
	a.record.Quantity = a.quantity.String()
}

func (n *AssetNormalizer) value(a *workingAsset, rates valuationRates) {
	qty := decimal.Zero
	if a.numeric {
		qty = a.quantity
	}

	if a.record.IsNative() {
		a.record.AdaValue = floatPtr(qty)
		a.record.UsdValue = floatPtr(qty.Mul(decimal.NewFromFloat(rates.ada.USD)))
		a.record.EurValue = floatPtr(qty.Mul(decimal.NewFromFloat(rates.ada.EUR)))
		return
	}

	var quote entities.SpotPrice
	if tok, ok := n.registry.Match(a.record.Ticker, a.record.DisplayName); ok {
		quote = rates.tokens[tok.ID]
	}
	usd := qty.Mul(decimal.NewFromFloat(quote.USD))
	eur := qty.Mul(decimal.NewFromFloat(quote.EUR))
	ada := decimal.Zero
	if rates.ada.USD > 0 {
		ada = usd.Div(decimal.NewFromFloat(rates.ada.USD))
	}
	a.record.AdaValue = floatPtr(ada)
	a.record.UsdValue = floatPtr(usd)
	a.record.EurValue = floatPtr(eur)
}

func parseQuantity(raw json.RawMessage) (decimal.Decimal, bool) {
	s := unquote(raw)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func unquote(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "null" {
		return ""
	}
	return strings.Trim(s, `"`)
}

func floatPtr(d decimal.Decimal) *float64 {
	f, _ := d.Float64()
	return &f
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
