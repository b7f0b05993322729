package cardano

import (
	"context"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
	"golang.org/x/sync/errgroup"

	"cardano-explorer.backend/internal/domain/entities"
	domainerrors "cardano-explorer.backend/internal/domain/errors"
	"cardano-explorer.backend/pkg/metrics"
)

// Provider fetches the info, utxos and assets legs for an address
type Provider interface {
	Name() entities.ProviderName
	Fetch(ctx context.Context, address string) (*entities.RawBundle, error)
}

var legNames = [3]string{"info", "utxos", "assets"}

// legFetcher issues the three calls of one provider concurrently
type legFetcher struct {
	provider entities.ProviderName
	client   Doer
	timeout  time.Duration
}

// fetch waits for every leg; a transport failure on any leg fails the whole fetch
func (f legFetcher) fetch(ctx context.Context, reqs [3]httpRequest) ([3]httpResult, error) {
	var results [3]httpResult
	var g errgroup.Group
	for i := range reqs {
		i := i
		g.Go(func() error {
			started := time.Now()
			res, err := do(ctx, f.client, f.timeout, reqs[i])
			metrics.ObserveUpstream(string(f.provider), legNames[i], res.status, started)
			if err != nil {
				return fmt.Errorf("%s %s leg: %w", f.provider, legNames[i], err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func statusesOf(results [3]httpResult) domainerrors.LegStatuses {
	return domainerrors.LegStatuses{
		Info:   results[0].status,
		Utxos:  results[1].status,
		Assets: results[2].status,
	}
}

func allSucceeded(results [3]httpResult) bool {
	for _, r := range results {
		if !isSuccess(r.status) {
			return false
		}
	}
	return true
}

// toBundle parses the three bodies; a non-JSON body fails the fetch
func toBundle(provider entities.ProviderName, results [3]httpResult) (*entities.RawBundle, error) {
	var payloads [3]entities.Payload
	for i, r := range results {
		p, err := entities.ParsePayload(r.body)
		if err != nil {
			return nil, fmt.Errorf("%s %s leg: %w", provider, legNames[i], err)
		}
		payloads[i] = p
	}
	return &entities.RawBundle{Info: payloads[0], Utxos: payloads[1], Assets: payloads[2]}, nil
}

func koiosBody(address string) ([]byte, error) {
	return json.Marshal(map[string][]string{"_addresses": {address}})
}

func post(url string, body []byte, token string) httpRequest {
	return httpRequest{method: fasthttp.MethodPost, url: url, body: body, bearerToken: token}
}

func get(url string, token string) httpRequest {
	return httpRequest{method: fasthttp.MethodGet, url: url, bearerToken: token}
}
