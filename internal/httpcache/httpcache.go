/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package httpcache

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gregjones/httpcache"
	"github.com/mikeb26/pdxsched/internal"
	"github.com/mikeb26/pdxsched/s3cache"
	"github.com/rs/zerolog"
)

// Options controls how NewCachedHttpClient builds its client.
type Options struct {
	// Bucket is the S3 bucket backing the cache. Empty disables caching.
	Bucket string
	// MaxAge overrides whatever caching policy the origin advertises.
	MaxAge time.Duration
	// Timeout bounds a whole request including reading the body.
	Timeout time.Duration
}

// NewCachedHttpClient returns an http.Client that caches via S3-backed httpcache
// and tags every request with our User-Agent. If no bucket is configured or
// cache initialization fails, it falls back to an uncached client.
func NewCachedHttpClient(ctx context.Context, opts Options,
	log zerolog.Logger) *http.Client {

	uaTransport := &HeaderOverrideTransport{
		wrappedRT: http.DefaultTransport,
		Request: func(req *http.Request) {
			req.Header.Set("User-Agent", internal.UserAgent)
		},
	}
	uncached := &http.Client{Transport: uaTransport, Timeout: opts.Timeout}

	if opts.Bucket == "" {
		return uncached
	}

	cache := s3cache.New(ctx, opts.Bucket, true, log)
	if err := cache.Init(); err != nil {
		log.Warn().Err(err).Str("bucket", opts.Bucket).
			Msg("httpcache: failed to init S3 cache; falling back to uncached http")
		return uncached
	}

	hc := httpcache.NewTransport(cache)
	// we have to inject our own header overrides here in order to override
	// server responses that might indicate caching shouldn't be done
	uaTransport.Response = MaxAgeOverride(opts.MaxAge)
	hc.Transport = uaTransport

	return &http.Client{Transport: hc, Timeout: opts.Timeout}
}

// MaxAgeOverride returns a response hook that replaces origin cache headers
// with a fixed max-age.
func MaxAgeOverride(maxAge time.Duration) func(resp *http.Response) error {
	return func(resp *http.Response) error {
		// Strip any cache-busting headers from origin
		resp.Header.Del("Pragma")
		resp.Header.Del("Expires")
		resp.Header.Del("Cache-Control")
		resp.Header.Set("Cache-Control",
			fmt.Sprintf("public, max-age=%d", int(maxAge/time.Second)))
		return nil
	}
}

type HeaderOverrideTransport struct {
	Request  func(req *http.Request)
	Response func(resp *http.Response) error

	// Underlying RoundTripper (e.g. default transport or another decorator)
	wrappedRT http.RoundTripper
}

// NewHeaderOverrideTransport wraps rt; a nil rt means http.DefaultTransport.
func NewHeaderOverrideTransport(rt http.RoundTripper) *HeaderOverrideTransport {
	if rt == nil {
		rt = http.DefaultTransport
	}
	return &HeaderOverrideTransport{wrappedRT: rt}
}

// RoundTrip applies Request and Response hooks around the underlying transport.
func (t *HeaderOverrideTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so we don’t stomp on the caller’s original
	req2 := req.Clone(req.Context())
	if t.Request != nil {
		t.Request(req2)
	}

	resp, err := t.wrappedRT.RoundTrip(req2)
	if err != nil {
		return nil, err
	}

	if t.Response != nil {
		if err := t.Response(resp); err != nil {
			resp.Body.Close()
			return nil, err
		}
	}
	return resp, nil
}
