package cardano

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"cardano-explorer.backend/internal/config"
	"cardano-explorer.backend/internal/domain/entities"
	domainerrors "cardano-explorer.backend/internal/domain/errors"
)

const cardanoscanAuthSuggestion = "Check CARDANOSCAN_API_KEY or switch to the Koios provider, which needs no API key."

// CardanoscanProvider reads address data through configurable GET endpoints
type CardanoscanProvider struct {
	cfg  config.CardanoscanConfig
	legs legFetcher
}

// NewCardanoscanProvider creates a Cardanoscan adapter
func NewCardanoscanProvider(cfg config.CardanoscanConfig, client Doer) *CardanoscanProvider {
	return &CardanoscanProvider{
		cfg: cfg,
		legs: legFetcher{
			provider: entities.ProviderCardanoscan,
			client:   client,
			timeout:  withDefaultTimeout(cfg.Timeout),
		},
	}
}

func (p *CardanoscanProvider) Name() entities.ProviderName {
	return entities.ProviderCardanoscan
}

func (p *CardanoscanProvider) Fetch(ctx context.Context, address string) (*entities.RawBundle, error) {
	urls, ok := p.resolveURLs(address)
	if !ok {
		return nil, domainerrors.NotConfigured("Cardanoscan provider not configured")
	}

	results, err := p.legs.fetch(ctx, [3]httpRequest{
		get(urls[0], p.cfg.APIKey),
		get(urls[1], p.cfg.APIKey),
		get(urls[2], p.cfg.APIKey),
	})
	if err != nil {
		return nil, err
	}

	for _, r := range results {
		if r.status == http.StatusUnauthorized {
			return nil, domainerrors.UpstreamAuth("Cardanoscan rejected the request credentials", cardanoscanAuthSuggestion).
				WithDetail("The Cardanoscan API returned 401 Unauthorized")
		}
	}
	if !allSucceeded(results) {
		return nil, domainerrors.Upstream("Upstream error from Cardanoscan provider", statusesOf(results))
	}
	return toBundle(entities.ProviderCardanoscan, results)
}

// resolveURLs prefers the per-leg template and falls back to the base URL
func (p *CardanoscanProvider) resolveURLs(address string) ([3]string, bool) {
	escaped := url.PathEscape(address)
	templates := [3]string{p.cfg.InfoURLTemplate, p.cfg.UtxosURLTemplate, p.cfg.AssetsURLTemplate}

	var out [3]string
	for i, tmpl := range templates {
		switch {
		case tmpl != "":
			out[i] = expandTemplate(tmpl, escaped)
		case p.cfg.BaseURL != "":
			out[i] = p.cfg.BaseURL + "/address/" + escaped + "/" + legNames[i]
		default:
			return out, false
		}
	}
	return out, true
}

func expandTemplate(tmpl, address string) string {
	return strings.NewReplacer("{address}", address, "{addr}", address).Replace(tmpl)
}
