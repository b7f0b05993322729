package pricing

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"cardano-explorer.backend/internal/config"
	"cardano-explorer.backend/internal/domain/entities"
	"cardano-explorer.backend/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// AdaPriceID is the CoinGecko id of the native currency
const AdaPriceID = entities.AdaPriceID

// Doer executes a single fasthttp request
type Doer interface {
	DoTimeout(req *fasthttp.Request, resp *fasthttp.Response, timeout time.Duration) error
}

// CoinGeckoClient fetches USD/EUR spot prices from the simple/price endpoint
type CoinGeckoClient struct {
	client     Doer
	baseURL    string
	apiKey     string
	timeout    time.Duration
	maxRetries uint64
	interval   time.Duration
	logger     *zap.Logger
}

// NewCoinGeckoClient creates a spot price client
func NewCoinGeckoClient(cfg config.PricingConfig, client Doer, logger *zap.Logger) *CoinGeckoClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CoinGeckoClient{
		client:     client,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		timeout:    timeout,
		maxRetries: 2,
		interval:   250 * time.Millisecond,
		logger:     logger.Named("CoinGeckoClient"),
	}
}

// GetPrices returns the quotes CoinGecko knows for ids. Rate limiting and 5xx answers are retried.
func (c *CoinGeckoClient) GetPrices(ctx context.Context, ids []string) (map[string]entities.SpotPrice, error) {
	if len(ids) == 0 {
		return map[string]entities.SpotPrice{}, nil
	}

	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	q := url.Values{}
	q.Set("ids", strings.Join(sorted, ","))
	q.Set("vs_currencies", "usd,eur")
	requestURL := c.baseURL + "/simple/price?" + q.Encode()

	var body []byte
	operation := func() error {
		req := fasthttp.AcquireRequest()
		defer fasthttp.ReleaseRequest(req)
		req.SetRequestURI(requestURL)
		req.Header.SetMethod(fasthttp.MethodGet)
		req.Header.Set(fasthttp.HeaderAccept, "application/json")
		if c.apiKey != "" {
			req.Header.Set("x-cg-demo-api-key", c.apiKey)
		}

		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseResponse(resp)

		started := time.Now()
		err := c.client.DoTimeout(req, resp, c.timeout)
		status := 0
		if err == nil {
			status = resp.StatusCode()
		}
		metrics.ObserveUpstream("coingecko", "simple_price", status, started)
		if err != nil {
			return fmt.Errorf("failed to execute request: %w", err)
		}

		switch {
		case status == fasthttp.StatusTooManyRequests || status >= 500:
			c.logger.Debug("Price lookup throttled, retrying", zap.Int("status", status))
			return fmt.Errorf("price lookup returned status %d", status)
		case status != fasthttp.StatusOK:
			return backoff.Permanent(fmt.Errorf("price lookup returned status %d", status))
		}
		body = append([]byte(nil), resp.Body()...)
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.interval
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = 10 * time.Second
	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx)); err != nil {
		return nil, fmt.Errorf("price lookup failed after retries: %w", err)
	}

	var raw map[string]struct {
		USD float64 `json:"usd"`
		EUR float64 `json:"eur"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode price response: %w", err)
	}

	out := make(map[string]entities.SpotPrice, len(raw))
	for id, p := range raw {
		out[id] = entities.SpotPrice{USD: p.USD, EUR: p.EUR}
	}
	return out, nil
}
