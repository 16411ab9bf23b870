// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve looks up paper metadata for arXiv identifiers through the
// arXiv Atom API.
package resolve

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/arxiv-fetch/internal/httputil"
	"github.com/pdiddy/arxiv-fetch/internal/logging"
	"github.com/pdiddy/arxiv-fetch/pkg/types"
)

// arxivAPIBase is the arXiv query endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// errorIDMarker appears in the <id> of the entry the API returns for a
// malformed identifier.
const errorIDMarker = "/api/errors"

// Resolver queries the arXiv API for one identifier at a time. Each lookup
// is a single GET with no retry.
type Resolver struct {
	Client    *http.Client
	UserAgent string
	Logger    *slog.Logger

	// APIBase overrides the arXiv query endpoint.
	APIBase string
}

// ResolveTitle returns the paper title for id. The second result is false
// when the title could not be resolved; the reason is logged.
func (r *Resolver) ResolveTitle(ctx context.Context, id string) (string, bool) {
	paper, ok := r.Resolve(ctx, id)
	if !ok {
		return "", false
	}
	return paper.Title, true
}

// Resolve returns the metadata of id. The second result is false when the
// lookup failed in any way: transport error, non-200 status, malformed XML,
// no single entry, an API error entry, or an empty title.
func (r *Resolver) Resolve(ctx context.Context, id string) (*types.Paper, bool) {
	log := logging.OrDiscard(r.Logger)
	apiURL := r.QueryURL(id)

	paper, err := r.fetch(ctx, id, apiURL)
	if err != nil {
		log.Warn("title lookup failed", "arxiv_id", id, "url", apiURL, "error", err)
		return nil, false
	}
	log.Debug("title resolved", "arxiv_id", id, "title", paper.Title)
	return paper, true
}

// QueryURL returns the API URL that looks up id alone.
func (r *Resolver) QueryURL(id string) string {
	base := r.APIBase
	if base == "" {
		base = arxivAPIBase
	}
	return base + "?" + url.Values{"id_list": {id}}.Encode()
}

func (r *Resolver) fetch(ctx context.Context, id, apiURL string) (*types.Paper, error) {
	req, err := httputil.NewRequest(ctx, apiURL, r.UserAgent, "application/atom+xml")
	if err != nil {
		return nil, err
	}

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	dec := xml.NewDecoder(resp.Body)
	if err := dec.Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}
	if err := expectEnd(dec); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	if len(feed.Entries) != 1 {
		return nil, fmt.Errorf("expected 1 entry for arXiv ID %s, got %d", id, len(feed.Entries))
	}
	entry := feed.Entries[0]
	if strings.Contains(entry.ID, errorIDMarker) {
		return nil, fmt.Errorf("arXiv API rejected ID %s: %s", id, strings.TrimSpace(entry.Summary))
	}

	title := strings.TrimSpace(entry.Title)
	if title == "" {
		return nil, fmt.Errorf("no title for arXiv ID %s", id)
	}

	paper := &types.Paper{
		ID:       id,
		Title:    title,
		Abstract: strings.TrimSpace(entry.Summary),
	}
	for _, a := range entry.Authors {
		paper.Authors = append(paper.Authors, strings.TrimSpace(a.Name))
	}
	if t, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
		paper.Published = t
	}
	return paper, nil
}

// expectEnd reads the rest of the document after the root element. Only
// whitespace, comments, and processing instructions may follow it.
func expectEnd(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.Comment, xml.ProcInst:
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return fmt.Errorf("unexpected text after </feed>")
			}
		default:
			return fmt.Errorf("unexpected content after </feed>")
		}
	}
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}
