package cardano

import (
	"context"
	"fmt"
	"time"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"cardano-explorer.backend/internal/config"
	"cardano-explorer.backend/internal/domain/entities"
	"cardano-explorer.backend/pkg/metrics"
)

type assetInfoRequest struct {
	AssetList [][2]string `json:"_asset_list"`
}

type tokenRegistryMetadata struct {
	Name     null.String `json:"name"`
	Ticker   null.String `json:"ticker"`
	Decimals null.Int    `json:"decimals"`
	Logo     null.String `json:"logo"`
}

type assetInfo struct {
	PolicyID              string                 `json:"policy_id"`
	AssetName             null.String            `json:"asset_name"`
	AssetNameASCII        null.String            `json:"asset_name_ascii"`
	AssetNameUTF8         null.String            `json:"asset_name_utf8"`
	TokenRegistryMetadata *tokenRegistryMetadata `json:"token_registry_metadata"`
}

// MetadataClient resolves token metadata through Koios asset_info
type MetadataClient struct {
	baseURL     string
	apiKey      string
	client      Doer
	timeout     time.Duration
	batchSize   int
	concurrency int
	logger      *zap.Logger
}

// NewMetadataClient creates a batched metadata client
func NewMetadataClient(koios config.KoiosConfig, limits config.MetadataConfig, client Doer, logger *zap.Logger) *MetadataClient {
	batch, conc := limits.BatchSize, limits.Concurrency
	if batch <= 0 {
		batch = 50
	}
	if conc <= 0 {
		conc = 1
	}
	return &MetadataClient{
		baseURL:     koios.BaseURL,
		apiKey:      koios.APIKey,
		client:      client,
		timeout:     withDefaultTimeout(koios.Timeout),
		batchSize:   batch,
		concurrency: conc,
		logger:      logger.Named("MetadataClient"),
	}
}

// Lookup returns metadata for every key Koios knows about. Keys are deduplicated,
// split into batches and at most `concurrency` batches run at once. A failed batch
// is logged and skipped; the returned error is the first batch failure, if any.
func (c *MetadataClient) Lookup(ctx context.Context, keys []entities.AssetKey) (map[entities.AssetKey]entities.AssetMetadata, error) {
	unique := dedupe(keys)
	out := make(map[entities.AssetKey]entities.AssetMetadata, len(unique))
	if len(unique) == 0 {
		return out, nil
	}

	batches := chunk(unique, c.batchSize)
	results := make([][]assetInfo, len(batches))
	errs := make([]error, len(batches))

	g := new(errgroup.Group)
	g.SetLimit(c.concurrency)
	for i, batch := range batches {
		i, batch := i, batch
		g.Go(func() error {
			infos, err := c.fetchBatch(ctx, batch)
			if err != nil {
				c.logger.Warn("Asset metadata batch failed", zap.Int("batch", i), zap.Int("size", len(batch)), zap.Error(err))
				errs[i] = err
				return nil
			}
			results[i] = infos
			return nil
		})
	}
	_ = g.Wait()

	for _, infos := range results {
		for _, info := range infos {
			key := entities.AssetKey{PolicyID: info.PolicyID, AssetName: info.AssetName.String}
			out[key] = toMetadata(info)
		}
	}
	for _, err := range errs {
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

func (c *MetadataClient) fetchBatch(ctx context.Context, batch []entities.AssetKey) ([]assetInfo, error) {
	payload := assetInfoRequest{AssetList: make([][2]string, 0, len(batch))}
	for _, k := range batch {
		payload.AssetList = append(payload.AssetList, [2]string{k.PolicyID, k.AssetName})
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	res, err := do(ctx, c.client, c.timeout, post(c.baseURL+"/asset_info", body, c.apiKey))
	metrics.ObserveUpstream(string(entities.ProviderKoios), "asset_info", res.status, started)
	if err != nil {
		return nil, err
	}
	if !isSuccess(res.status) {
		return nil, fmt.Errorf("asset_info returned status %d", res.status)
	}

	var infos []assetInfo
	if err := json.Unmarshal(res.body, &infos); err != nil {
		return nil, fmt.Errorf("decode asset_info: %w", err)
	}
	return infos, nil
}

func toMetadata(info assetInfo) entities.AssetMetadata {
	md := entities.AssetMetadata{
		AssetNameASCII: info.AssetNameASCII.String,
		AssetNameUTF8:  info.AssetNameUTF8.String,
	}
	if reg := info.TokenRegistryMetadata; reg != nil {
		md.Name = reg.Name.String
		md.Ticker = reg.Ticker.String
		md.Logo = reg.Logo.String
		if reg.Decimals.Valid {
			md.Decimals = reg.Decimals.Int
		}
	}
	return md
}

func dedupe(keys []entities.AssetKey) []entities.AssetKey {
	seen := make(map[entities.AssetKey]struct{}, len(keys))
	out := make([]entities.AssetKey, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func chunk(keys []entities.AssetKey, size int) [][]entities.AssetKey {
	var out [][]entities.AssetKey
	for start := 0; start < len(keys); start += size {
		end := start + size
		if end > len(keys) {
			end = len(keys)
		}
		out = append(out, keys[start:end])
	}
	return out
}
