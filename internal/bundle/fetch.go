// Package bundle builds the versioned HTML/script document streamed into
// the surface and fetches the bootstrap loader script it embeds.
package bundle

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// ErrBootstrapFetch marks a non-success status while fetching the loader
// script. Fatal for session construction.
var ErrBootstrapFetch = errors.New("bundle: bootstrap fetch failed")

// Fetcher obtains the bootstrap loader script: synchronously from local
// storage for file: URIs, over the network otherwise.
type Fetcher struct {
	client  *resty.Client
	limiter *rate.Limiter
}

// NewFetcher creates a fetcher with retrying transport.
func NewFetcher() *Fetcher {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.Logger = nil

	client := resty.New().
		SetTimeout(30*time.Second).
		SetHeader("User-Agent", "inkcell-surface/1.0")
	client.SetTransport(retryClient.HTTPClient.Transport)

	return &Fetcher{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(10), 10),
	}
}

// Fetch loads the script at uri. Any non-2xx network response is
// ErrBootstrapFetch; there is no partial result.
func (f *Fetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	if strings.HasPrefix(uri, "file:") {
		return f.readLocal(uri)
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err := f.client.R().SetContext(ctx).Get(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBootstrapFetch, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: status %d for %s", ErrBootstrapFetch, resp.StatusCode(), uri)
	}
	return resp.Body(), nil
}

func (f *Fetcher) readLocal(uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBootstrapFetch, err)
	}
	data, err := os.ReadFile(u.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBootstrapFetch, err)
	}
	return data, nil
}
