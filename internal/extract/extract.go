// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract finds arXiv identifiers in user input: bare IDs, ID lists,
// arXiv URLs, and arbitrary web pages or PDFs that cite arXiv papers.
package extract

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/pdiddy/arxiv-fetch/internal/logging"
)

// arxivDomain marks input that points at arxiv.org itself.
const arxivDomain = "arxiv.org"

var (
	// bareIDPattern matches a whole token that is an arXiv ID: "2301.07041", "2301.07041v2".
	bareIDPattern = regexp.MustCompile(`^\d+\.\d+(?:v\d+)?$`)

	// embeddedIDPattern finds an arXiv ID anywhere in a string.
	embeddedIDPattern = regexp.MustCompile(`\d+\.\d+(?:v\d+)?`)

	// pageIDPattern finds arXiv citations in page content:
	// "arxiv.org/abs/2301.07041", "arXiv.org/pdf/2301.07041v2", "arXiv: 2301.07041".
	pageIDPattern = regexp.MustCompile(`(?i)(?:arxiv\.org/(?:abs|pdf)/|arxiv:\s*)(\d+\.\d+(?:v\d+)?)`)

	// listSeparator splits comma and whitespace separated ID lists.
	listSeparator = regexp.MustCompile(`[,\s]+`)
)

// IsIdentifier reports whether s, as a whole, is an arXiv identifier.
func IsIdentifier(s string) bool {
	return bareIDPattern.MatchString(s)
}

// FirstIdentifier returns the first identifier substring of an input that
// mentions arxiv.org. Only the first match is returned even when the input
// carries several IDs; callers that want every ID must scan page content.
func FirstIdentifier(input string) (string, bool) {
	if !strings.Contains(input, arxivDomain) {
		return "", false
	}
	id := embeddedIDPattern.FindString(input)
	return id, id != ""
}

// ScanContent returns the distinct arXiv IDs cited in page content, in order
// of first appearance.
func ScanContent(content string) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, m := range pageIDPattern.FindAllStringSubmatch(content, -1) {
		id := m[1]
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// ParseList splits input on commas and whitespace and keeps the tokens that
// are arXiv identifiers. Other tokens are dropped.
func ParseList(input string) []string {
	var ids []string
	for _, tok := range listSeparator.Split(strings.TrimSpace(input), -1) {
		if IsIdentifier(tok) {
			ids = append(ids, tok)
		}
	}
	return ids
}

// IsPageURL reports whether input is an http, https, or file URL.
func IsPageURL(input string) bool {
	u, err := url.Parse(strings.TrimSpace(input))
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.Host != ""
	case "file":
		return u.Path != ""
	default:
		return false
	}
}

// Extractor turns raw input into arXiv identifiers.
type Extractor struct {
	// Provider supplies page content for URL input. Nil disables page scanning.
	Provider ContentProvider

	// Logger receives diagnostics. Nil discards them.
	Logger *slog.Logger
}

// Extract returns the identifiers found in input. It never fails: empty
// input, unmatched input, and unreachable pages all yield an empty slice.
//
// Rules, first match wins:
//  1. input is a bare identifier: that identifier;
//  2. input mentions arxiv.org: the first identifier substring;
//  3. input is a URL: the distinct identifiers cited by the page;
//  4. otherwise: the identifier tokens of a comma/space separated list.
func (e *Extractor) Extract(ctx context.Context, input string) []string {
	log := logging.OrDiscard(e.Logger)
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}

	if IsIdentifier(input) {
		return []string{input}
	}

	if id, ok := FirstIdentifier(input); ok {
		return []string{id}
	}

	if IsPageURL(input) {
		if e.Provider == nil {
			log.Warn("no page content provider configured", "url", input)
			return nil
		}
		content, err := e.Provider.Content(ctx, input)
		if err != nil {
			log.Warn("page content unavailable", "url", input, "error", err)
			return nil
		}
		ids := ScanContent(content)
		log.Debug("scanned page", "url", input, "bytes", len(content), "ids", len(ids))
		return ids
	}

	return ParseList(input)
}
