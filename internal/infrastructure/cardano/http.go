package cardano

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const defaultTimeout = 30 * time.Second

// Doer executes a single fasthttp request; *fasthttp.Client satisfies it
type Doer interface {
	DoDeadline(req *fasthttp.Request, resp *fasthttp.Response, deadline time.Time) error
	DoTimeout(req *fasthttp.Request, resp *fasthttp.Response, timeout time.Duration) error
}

// NewHTTPClient returns the shared upstream client
func NewHTTPClient() *fasthttp.Client {
	return &fasthttp.Client{
		Name:                "cardano-explorer",
		MaxConnsPerHost:     64,
		ReadTimeout:         60 * time.Second,
		WriteTimeout:        30 * time.Second,
		MaxIdleConnDuration: 90 * time.Second,
	}
}

type httpRequest struct {
	method      string
	url         string
	body        []byte
	bearerToken string
}

type httpResult struct {
	status int
	body   []byte
}

// do runs req honoring the context deadline when present, otherwise timeout
func do(ctx context.Context, client Doer, timeout time.Duration, r httpRequest) (httpResult, error) {
	if err := ctx.Err(); err != nil {
		return httpResult{}, err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(r.url)
	req.Header.SetMethod(r.method)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	if r.bearerToken != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+r.bearerToken)
	}
	if r.body != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(r.body)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	var err error
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		err = client.DoDeadline(req, resp, deadline)
	} else {
		err = client.DoTimeout(req, resp, timeout)
	}
	if err != nil {
		return httpResult{}, fmt.Errorf("%s %s: %w", r.method, r.url, err)
	}

	body := append([]byte(nil), resp.Body()...)
	return httpResult{status: resp.StatusCode(), body: body}, nil
}

func withDefaultTimeout(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return defaultTimeout
	}
	return timeout
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
