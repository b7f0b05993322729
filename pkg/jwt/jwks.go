package jwt

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-jose/go-jose/v3"
	jsoniter "github.com/json-iterator/go"
	gocache "github.com/patrickmn/go-cache"
	"github.com/valyala/fasthttp"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	jwksCacheKey   = "jwks"
	jwksFetchedKey = "jwks:fetched"

	// defaultMinRefetch bounds how often an unknown kid can trigger a download
	defaultMinRefetch = 30 * time.Second
)

// Doer is the subset of *fasthttp.Client used to download key sets
type Doer interface {
	DoTimeout(req *fasthttp.Request, resp *fasthttp.Response, timeout time.Duration) error
}

// JWKSClient downloads and caches a JSON Web Key Set
type JWKSClient struct {
	url        string
	client     Doer
	timeout    time.Duration
	minRefetch time.Duration
	cache      *gocache.Cache
	mu         sync.Mutex
}

// NewJWKSClient creates a key source for url. Keys are refetched after ttl, or on an
// unknown kid at most once per refetch interval.
func NewJWKSClient(url string, client Doer, ttl time.Duration) *JWKSClient {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &JWKSClient{
		url:        url,
		client:     client,
		timeout:    10 * time.Second,
		minRefetch: defaultMinRefetch,
		cache:      gocache.New(ttl, 2*ttl),
	}
}

// Key returns the public key for kid. An empty kid matches a single-key set.
func (c *JWKSClient) Key(kid string) (interface{}, error) {
	if set, ok := c.cached(); ok {
		if key, ok := lookup(set, kid); ok {
			return key, nil
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if set, ok := c.cached(); ok {
		if key, ok := lookup(set, kid); ok {
			return key, nil
		}
		if _, recent := c.cache.Get(jwksFetchedKey); recent {
			return nil, ErrMissingKey
		}
	}

	set, err := c.fetch()
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(jwksCacheKey, set)
	c.cache.Set(jwksFetchedKey, time.Now(), c.minRefetch)

	if key, ok := lookup(set, kid); ok {
		return key, nil
	}
	return nil, ErrMissingKey
}

func (c *JWKSClient) cached() (*jose.JSONWebKeySet, bool) {
	v, ok := c.cache.Get(jwksCacheKey)
	if !ok {
		return nil, false
	}
	return v.(*jose.JSONWebKeySet), true
}

func (c *JWKSClient) fetch() (*jose.JSONWebKeySet, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(c.url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
		return nil, fmt.Errorf("failed to fetch key set: %w", err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("key set endpoint returned status %d", resp.StatusCode())
	}

	var set jose.JSONWebKeySet
	if err := json.Unmarshal(resp.Body(), &set); err != nil {
		return nil, fmt.Errorf("decode key set: %w", err)
	}
	return &set, nil
}

func lookup(set *jose.JSONWebKeySet, kid string) (interface{}, bool) {
	if kid == "" {
		if len(set.Keys) == 1 {
			return set.Keys[0].Key, true
		}
		return nil, false
	}
	keys := set.Key(kid)
	if len(keys) == 0 {
		return nil, false
	}
	return keys[0].Key, true
}
