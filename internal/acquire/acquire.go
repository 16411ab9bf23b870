// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package acquire turns resolved arXiv papers into saved PDFs: it builds
// sanitized filenames, dispatches save requests, and runs the whole
// extract, resolve, dispatch pipeline for one input.
package acquire

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/pdiddy/arxiv-fetch/internal/extract"
	"github.com/pdiddy/arxiv-fetch/internal/journal"
	"github.com/pdiddy/arxiv-fetch/internal/logging"
	"github.com/pdiddy/arxiv-fetch/pkg/types"
)

// MetadataResolver looks up the metadata of one identifier. The second
// result is false when the title is unknown.
type MetadataResolver interface {
	Resolve(ctx context.Context, id string) (*types.Paper, bool)
}

// Recorder stores dispatch outcomes.
type Recorder interface {
	Record(ctx context.Context, e journal.Entry) error
}

// BatchResult holds the outcome of one run.
type BatchResult struct {
	RunID       string
	Identifiers []string
	Saved       int
	Skipped     int
	Failed      int
	Papers      []*types.Paper
}

// Total returns the number of identifiers processed.
func (r BatchResult) Total() int {
	return r.Saved + r.Skipped + r.Failed
}

// HasFailures reports whether any save failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Empty reports whether no identifier was found in the input.
func (r BatchResult) Empty() bool {
	return len(r.Identifiers) == 0
}

// Pipeline runs extraction, title resolution, and dispatch for one input.
// A nil Resolver resolves nothing, so every identifier is skipped; a nil
// Dispatcher fails every titled paper with ErrNoSaver.
type Pipeline struct {
	Extractor  *extract.Extractor
	Resolver   MetadataResolver
	Dispatcher *Dispatcher

	// Journal records every outcome when set.
	Journal Recorder

	Logger *slog.Logger

	// Out receives per-identifier progress lines and the batch summary.
	Out io.Writer
}

// Identifiers returns the identifiers named by input. Input that mentions
// arxiv.org yields its first identifier before any page is fetched; all
// other input goes through the extractor.
func (p *Pipeline) Identifiers(ctx context.Context, input string) []string {
	if id, ok := extract.FirstIdentifier(input); ok {
		return []string{id}
	}
	if p.Extractor == nil {
		return extract.ParseList(input)
	}
	return p.Extractor.Extract(ctx, input)
}

// Run processes every identifier in input sequentially. Failures affect
// only the identifier they happen on. Run stops early only when ctx is
// cancelled.
func (p *Pipeline) Run(ctx context.Context, input string, cfg types.DownloadConfig) BatchResult {
	cfg = cfg.WithDefaults()
	result := BatchResult{RunID: uuid.NewString()}
	log := logging.OrDiscard(p.Logger).With("run_id", result.RunID)
	out := p.Out
	if out == nil {
		out = io.Discard
	}

	ids := p.Identifiers(ctx, input)
	result.Identifiers = ids
	if len(ids) == 0 {
		log.Warn("no valid arXiv IDs found", "input", input)
		return result
	}
	log.Info("starting run", "ids", len(ids), "target_folder", cfg.TargetFolder, "pattern", cfg.FilenamePattern)

	var limiter *rate.Limiter
	if cfg.RequestDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.RequestDelay), 1)
	}

	for i, id := range ids {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				log.Warn("run interrupted", "error", err)
				break
			}
		}
		if err := ctx.Err(); err != nil {
			log.Warn("run interrupted", "error", err)
			break
		}

		fmt.Fprintf(out, "[%d/%d] %s\n", i+1, len(ids), id)

		var paper *types.Paper
		ok := false
		if p.Resolver != nil {
			paper, ok = p.Resolver.Resolve(ctx, id)
		}
		if !ok || paper == nil {
			paper = &types.Paper{ID: id}
		}
		res := p.Dispatcher.Dispatch(ctx, paper, cfg)

		switch res.Status {
		case StatusSaved:
			result.Saved++
			fmt.Fprintf(out, "saved:   %s\n", res.Save.Path)
			if cfg.WriteMetadata {
				if err := writeMetadata(paper, MetadataPath(res.Save.Path)); err != nil {
					log.Warn("writing metadata failed", "arxiv_id", id, "error", err)
				}
			}
		case StatusSkipped:
			result.Skipped++
			fmt.Fprintf(out, "skipped: %s (title not found)\n", id)
		case StatusFailed:
			result.Failed++
			fmt.Fprintf(out, "failed:  %s (%v)\n", id, res.Err)
		}
		result.Papers = append(result.Papers, paper)
		p.record(ctx, log, result.RunID, paper, res)
	}

	fmt.Fprintf(out, "\nBatch summary: %d saved, %d skipped, %d failed (total: %d)\n",
		result.Saved, result.Skipped, result.Failed, result.Total())
	return result
}

func (p *Pipeline) record(ctx context.Context, log *slog.Logger, runID string, paper *types.Paper, res DispatchResult) {
	if p.Journal == nil {
		return
	}
	e := journal.Entry{
		RunID:    runID,
		ArxivID:  paper.ID,
		Title:    paper.Title,
		Filename: res.Filename,
		Path:     res.Save.Path,
		Status:   string(res.Status),
	}
	if res.Err != nil {
		e.Error = res.Err.Error()
	}
	if err := p.Journal.Record(ctx, e); err != nil {
		log.Warn("journal write failed", "arxiv_id", paper.ID, "error", err)
	}
}
