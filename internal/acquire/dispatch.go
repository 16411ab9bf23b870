// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/pdiddy/arxiv-fetch/internal/logging"
	"github.com/pdiddy/arxiv-fetch/pkg/types"
)

// ErrNoSaver is reported for papers dispatched without a Saver.
var ErrNoSaver = errors.New("no saver configured")

// SaveRequest asks the file-save boundary to store one URL.
type SaveRequest struct {
	// URL is the resource to save.
	URL string

	// Filename is the destination, relative to the saver's working
	// directory unless absolute.
	Filename string

	// PromptUser asks the user to confirm or change the filename.
	PromptUser bool
}

// SaveResult is the outcome of a successful save.
type SaveResult struct {
	// ID is an opaque identifier for the save.
	ID string

	// Path is where the file ended up.
	Path string
}

// Saver is the file-save boundary. Save blocks until the save finished or
// failed; it is called once per request and never retried.
type Saver interface {
	Save(ctx context.Context, req SaveRequest) (SaveResult, error)
}

// Notifier surfaces a failure to the end user.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// WriterNotifier prints notifications as single lines on W.
type WriterNotifier struct {
	W io.Writer
}

// Notify writes message followed by a newline.
func (n WriterNotifier) Notify(_ context.Context, message string) error {
	_, err := fmt.Fprintln(n.W, message)
	return err
}

// Status classifies a dispatch outcome.
type Status string

const (
	StatusSaved   Status = "saved"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// DispatchResult reports what Dispatch did for one paper.
type DispatchResult struct {
	Status   Status
	Filename string
	Save     SaveResult
	Err      error
}

// Dispatcher turns resolved papers into save requests.
type Dispatcher struct {
	Saver    Saver
	Notifier Notifier
	Logger   *slog.Logger
}

// Dispatch requests the PDF of paper be saved under the filename built from
// cfg.FilenamePattern inside cfg.TargetFolder. A paper without a title is
// skipped without contacting the saver. A failed save is reported through
// the Notifier once and not retried.
func (d *Dispatcher) Dispatch(ctx context.Context, paper *types.Paper, cfg types.DownloadConfig) DispatchResult {
	if d == nil {
		d = &Dispatcher{}
	}
	log := logging.OrDiscard(d.Logger)
	if !paper.HasTitle() {
		id := ""
		if paper != nil {
			id = paper.ID
		}
		log.Info("no title resolved, not saving", "arxiv_id", id)
		return DispatchResult{Status: StatusSkipped}
	}

	name := BuildFilename(cfg.FilenamePattern, paper.ID, paper.Title)
	req := SaveRequest{
		URL:        PDFURL(paper.ID),
		Filename:   filepath.Join(cfg.TargetFolder, name),
		PromptUser: cfg.PromptUser,
	}
	paper.PDFURL = req.URL
	paper.Filename = name

	var saved SaveResult
	err := ErrNoSaver
	if d.Saver != nil {
		saved, err = d.Saver.Save(ctx, req)
	}
	if err != nil {
		log.Error("save failed", "arxiv_id", paper.ID, "url", req.URL, "filename", req.Filename, "error", err)
		if d.Notifier != nil {
			if nerr := d.Notifier.Notify(ctx, fmt.Sprintf("Download failed: %s: %v", name, err)); nerr != nil {
				log.Warn("notification failed", "error", nerr)
			}
		}
		return DispatchResult{Status: StatusFailed, Filename: req.Filename, Err: err}
	}

	paper.Path = saved.Path
	log.Info("save requested", "arxiv_id", paper.ID, "save_id", saved.ID, "path", saved.Path)
	return DispatchResult{Status: StatusSaved, Filename: req.Filename, Save: saved}
}
