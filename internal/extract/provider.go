// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/arxiv-fetch/internal/httputil"
	"github.com/pdiddy/arxiv-fetch/internal/logging"
	"github.com/pdiddy/arxiv-fetch/pkg/types"
)

// ErrUnsupported is returned by a provider that cannot handle a target.
// Chain skips such providers without counting them as failures.
var ErrUnsupported = errors.New("target not supported by provider")

// maxPageBytes caps how much of a page or PDF is read.
const maxPageBytes = 64 << 20

const pageAccept = "text/html,application/xhtml+xml,application/xml;q=0.9,application/pdf;q=0.8,*/*;q=0.5"

// ContentProvider returns the text content of a page so it can be scanned
// for arXiv citations. How the content is obtained is up to the variant.
type ContentProvider interface {
	Content(ctx context.Context, target string) (string, error)
}

// HTTPProvider fetches http and https pages. Routed through a proxy client
// it acts as the delegated fetch for pages the direct fetch cannot reach.
type HTTPProvider struct {
	Client    *http.Client
	UserAgent string
}

// Content fetches target and decodes HTML or PDF bodies to scannable text.
func (p *HTTPProvider) Content(ctx context.Context, target string) (string, error) {
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", ErrUnsupported
	}

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := httputil.Get(ctx, client, target, p.UserAgent, pageAccept)
	if err != nil {
		return "", fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("reading page: %w", err)
	}
	return DocumentText(resp.Header.Get("Content-Type"), body)
}

// FileProvider reads file:// targets, the documents already open locally.
type FileProvider struct{}

// Content reads the file named by target.
func (FileProvider) Content(_ context.Context, target string) (string, error) {
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "file" {
		return "", ErrUnsupported
	}

	path := filepath.FromSlash(u.Path)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return DocumentText(mime.TypeByExtension(filepath.Ext(path)), data)
}

// StaticProvider returns content the caller already has, such as the text
// of the page being viewed, whatever the target.
type StaticProvider struct {
	Text string
}

// Content returns the stored text.
func (p StaticProvider) Content(context.Context, string) (string, error) {
	return p.Text, nil
}

// Chain tries each provider in order and returns the first success.
type Chain struct {
	Providers []ContentProvider
	Logger    *slog.Logger
}

// NewChain returns a Chain over providers.
func NewChain(logger *slog.Logger, providers ...ContentProvider) *Chain {
	return &Chain{Providers: providers, Logger: logger}
}

// Content returns the first successful provider's content. When every
// provider that handled target failed, the errors are joined.
func (c *Chain) Content(ctx context.Context, target string) (string, error) {
	log := logging.OrDiscard(c.Logger)
	var errs []error
	for i, p := range c.Providers {
		text, err := p.Content(ctx, target)
		if err == nil {
			return text, nil
		}
		if errors.Is(err, ErrUnsupported) {
			continue
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		log.Info("page fetch failed, trying next strategy", "url", target, "strategy", i, "error", err)
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, target)
	}
	return "", errors.Join(errs...)
}

// NewDefaultProvider builds the provider chain used by the CLI: local files,
// then a direct fetch, then (when a proxy is configured) a proxied fetch.
func NewDefaultProvider(cfg types.HTTPConfig, logger *slog.Logger) (ContentProvider, error) {
	direct, err := httputil.NewClient(cfg, false)
	if err != nil {
		return nil, err
	}
	providers := []ContentProvider{
		FileProvider{},
		&HTTPProvider{Client: direct, UserAgent: cfg.UserAgent},
	}

	if strings.TrimSpace(cfg.Proxy) != "" {
		proxied, err := httputil.NewClient(cfg, true)
		if err != nil {
			return nil, err
		}
		providers = append(providers, &HTTPProvider{Client: proxied, UserAgent: cfg.UserAgent})
	}
	return NewChain(logger, providers...), nil
}
