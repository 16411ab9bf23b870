// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/pdiddy/arxiv-fetch/internal/httputil"
)

// LocalSaver is a Saver that downloads to the local filesystem.
type LocalSaver struct {
	Client    *http.Client
	UserAgent string

	// Progress receives a progress bar while downloading. Nil disables it.
	Progress io.Writer

	// Prompt is asked for the destination when a request sets PromptUser.
	// It receives the proposed filename; an empty answer keeps it.
	Prompt func(proposed string) (string, error)
}

// Save downloads req.URL to req.Filename. The body is written to a temp file
// in the destination directory and renamed into place on success, so a
// failed download never leaves a partial PDF behind.
func (s *LocalSaver) Save(ctx context.Context, req SaveRequest) (SaveResult, error) {
	dest := req.Filename
	if req.PromptUser && s.Prompt != nil {
		answer, err := s.Prompt(dest)
		if err != nil {
			return SaveResult{}, fmt.Errorf("prompting for filename: %w", err)
		}
		if answer = strings.TrimSpace(answer); answer != "" {
			dest = answer
		}
	}
	if dest == "" {
		return SaveResult{}, fmt.Errorf("empty destination filename")
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return SaveResult{}, fmt.Errorf("creating directory %s: %w", dir, err)
	}

	if err := s.download(ctx, req.URL, dest); err != nil {
		return SaveResult{}, err
	}

	path, err := filepath.Abs(dest)
	if err != nil {
		path = dest
	}
	return SaveResult{ID: uuid.NewString(), Path: path}, nil
}

func (s *LocalSaver) download(ctx context.Context, url, destPath string) error {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := httputil.Get(ctx, client, url, s.UserAgent, "application/pdf")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".arxiv-fetch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	var dst io.Writer = tmpFile
	var bar *progressbar.ProgressBar
	if s.Progress != nil {
		bar = progressbar.NewOptions64(resp.ContentLength,
			progressbar.OptionSetWriter(s.Progress),
			progressbar.OptionSetDescription(filepath.Base(destPath)),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish(),
		)
		dst = io.MultiWriter(tmpFile, bar)
	}

	_, copyErr := io.Copy(dst, resp.Body)
	if bar != nil {
		bar.Finish()
	}
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
