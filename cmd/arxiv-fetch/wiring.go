// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/pdiddy/arxiv-fetch/internal/extract"
	"github.com/pdiddy/arxiv-fetch/internal/httputil"
	"github.com/pdiddy/arxiv-fetch/internal/resolve"
	"github.com/pdiddy/arxiv-fetch/pkg/types"
)

// stdinContent is the --content value that reads the page from stdin.
const stdinContent = "-"

// contentInput stands in for the page URL when --content is given without
// arguments. It is a page URL that names no arXiv ID, so the saved content
// is always scanned.
const contentInput = "file:///dev/stdin"

// newExtractor returns an extractor that fetches pages through the default
// provider chain, or one that scans contentPath when it is set.
func newExtractor(cfg types.HTTPConfig, contentPath string, stdin io.Reader) (*extract.Extractor, error) {
	if contentPath != "" {
		text, err := readContent(contentPath, stdin)
		if err != nil {
			return nil, err
		}
		return &extract.Extractor{Provider: extract.StaticProvider{Text: text}, Logger: logger}, nil
	}

	provider, err := extract.NewDefaultProvider(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("building page provider: %w", err)
	}
	return &extract.Extractor{Provider: provider, Logger: logger}, nil
}

// readContent loads a saved page (HTML, PDF, or text) from path, or from
// stdin when path is "-".
func readContent(path string, stdin io.Reader) (string, error) {
	var data []byte
	var err error
	if path == stdinContent {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading content %s: %w", path, err)
	}
	return extract.DocumentText("", data)
}

func newResolver(cfg types.HTTPConfig) (*resolve.Resolver, error) {
	client, err := httputil.NewClient(cfg, false)
	if err != nil {
		return nil, fmt.Errorf("building HTTP client: %w", err)
	}
	return &resolve.Resolver{Client: client, UserAgent: cfg.UserAgent, Logger: logger}, nil
}

// promptFilename returns a prompt that shows the proposed filename on out
// and reads the answer from in. End of input keeps the proposal.
func promptFilename(in io.Reader, out io.Writer) func(string) (string, error) {
	reader := bufio.NewReader(in)
	return func(proposed string) (string, error) {
		fmt.Fprintf(out, "Save as [%s]: ", proposed)
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
