// Package httputil fetches wire documents from HTTP sources.
//
// # Overview
//
// This package provides the plumbing between payload sources and the
// normalizer:
//
//   - [Fetch]: GET a payload with automatic retry on transient failures
//   - [FetchCached]: [Fetch] backed by a [cache.Cache]
//   - [Retry]: generic retry with exponential backoff
//
// # Retry
//
// [Retry] re-attempts operations that fail with a [RetryableError]:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// It uses exponential backoff, doubling the delay after each attempt.
//
// # Caching
//
// [FetchCached] keys entries by a hash of the source URL and reports hits
// and misses through the observability cache hooks. Pass a zero TTL for
// entries that never expire.
package httputil
