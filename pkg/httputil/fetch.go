package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/resograph/resograph/pkg/cache"
	apperrors "github.com/resograph/resograph/pkg/errors"
	"github.com/resograph/resograph/pkg/observability"
)

// maxPayloadSize caps fetched payloads at 32 MiB.
const maxPayloadSize = 32 << 20

// Fetch performs a GET request for url and returns the response body.
// Transient failures (network errors, 5xx responses, 429 rate limits) are
// retried with exponential backoff; other HTTP errors fail immediately.
func Fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}

	var body []byte
	err := RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrCodeNetwork, err, "build request for %s", url)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return &RetryableError{Err: err}
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
			return &RetryableError{Err: fmt.Errorf("GET %s: %s", url, resp.Status)}
		case resp.StatusCode == http.StatusNotFound:
			return apperrors.New(apperrors.ErrCodeNotFound, "GET %s: %s", url, resp.Status)
		case resp.StatusCode != http.StatusOK:
			return apperrors.New(apperrors.ErrCodeNetwork, "GET %s: %s", url, resp.Status)
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxPayloadSize))
		if err != nil {
			return &RetryableError{Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// FetchCached is [Fetch] backed by a payload cache. Cached bodies are
// returned without touching the network; fresh bodies are stored with the
// given TTL. Cache failures degrade to a plain fetch. The returned bool
// reports whether the body was served from the cache.
func FetchCached(ctx context.Context, client *http.Client, c cache.Cache, url string, ttl time.Duration) ([]byte, bool, error) {
	key := cache.PayloadKey(url)

	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		observability.Cache().OnCacheHit(ctx, "payload")
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "payload")

	body, err := Fetch(ctx, client, url)
	if err != nil {
		return nil, false, err
	}

	if err := c.Set(ctx, key, body, ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, "payload", len(body))
	}
	return body, false, nil
}
