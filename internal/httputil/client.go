// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/arxiv-fetch/pkg/types"
)

// StatusError reports a non-success HTTP status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

// NewClient returns a client for cfg. A zero Timeout leaves the transport
// default in place. When useProxy is set, requests go through cfg.Proxy
// instead of the environment's proxy settings.
func NewClient(cfg types.HTTPConfig, useProxy bool) (*http.Client, error) {
	client := &http.Client{Timeout: cfg.Timeout}
	if !useProxy {
		return client, nil
	}

	proxy := strings.TrimSpace(cfg.Proxy)
	if proxy == "" {
		return nil, fmt.Errorf("no proxy configured")
	}
	proxyURL, err := url.Parse(proxy)
	if err != nil {
		return nil, fmt.Errorf("parsing proxy URL: %w", err)
	}
	if proxyURL.Scheme == "" || proxyURL.Host == "" {
		return nil, fmt.Errorf("proxy URL %q needs a scheme and host", proxy)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = http.ProxyURL(proxyURL)
	client.Transport = transport
	return client, nil
}

// NewRequest builds a GET request with the User-Agent and Accept headers set.
// Empty values leave the header unset.
func NewRequest(ctx context.Context, rawURL, userAgent, accept string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	return req, nil
}

// Get issues one GET and returns the response when the status is 2xx.
// Other statuses close the body and return a *StatusError.
func Get(ctx context.Context, client *http.Client, rawURL, userAgent, accept string) (*http.Response, error) {
	req, err := NewRequest(ctx, rawURL, userAgent, accept)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}
	return resp, nil
}
