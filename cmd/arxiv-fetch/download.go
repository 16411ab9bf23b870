// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-fetch/internal/acquire"
	"github.com/pdiddy/arxiv-fetch/internal/journal"
	"github.com/pdiddy/arxiv-fetch/pkg/types"
)

var downloadCmd = &cobra.Command{
	Use:   "download <input...>",
	Short: "Save the PDFs of every arXiv paper named by the input",
	Long: `Download finds arXiv identifiers in the input, looks up each title through
the arXiv API, and saves each PDF as "<id> - <title>.pdf" (see --pattern).
Papers whose title cannot be found are skipped. A failed save is reported
and the remaining papers are still processed.

The input is all arguments joined by a space. It may be a bare ID, a list
of IDs separated by commas or spaces, an arxiv.org URL, or the URL of any
page or PDF that cites arXiv papers. With --content, a saved copy of the
page is scanned instead of fetching it.`,
	Example: `  arxiv-fetch download 2301.07041
  arxiv-fetch download 2301.07041,2402.11111 --folder papers
  arxiv-fetch download https://example.org/reading-list.html --metadata
  curl -s https://example.org/list | arxiv-fetch download --content -`,
	RunE: runDownload,
}

func init() {
	f := downloadCmd.Flags()
	f.String("folder", "", "folder PDFs are saved in (default ~/Downloads)")
	f.String("pattern", types.DefaultFilenamePattern, "filename pattern; {arxiv_id} and {title} are replaced, .pdf is appended")
	f.Bool("prompt", false, "ask for the filename before each save")
	f.Duration("delay", 0, "minimum spacing between consecutive papers")
	f.Bool("metadata", false, "write a YAML record next to each saved PDF")
	f.String("content", "", "scan this saved page (file path, or - for stdin) instead of fetching")

	mustBind("target_folder", f.Lookup("folder"))
	mustBind("filename_pattern", f.Lookup("pattern"))
	mustBind("prompt_user", f.Lookup("prompt"))
	mustBind("request_delay", f.Lookup("delay"))
	mustBind("write_metadata", f.Lookup("metadata"))

	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg, err := loadDownloadConfig()
	if err != nil {
		return err
	}

	contentPath, _ := cmd.Flags().GetString("content")
	input := strings.Join(args, " ")
	if strings.TrimSpace(input) == "" && contentPath != "" {
		input = contentInput
	}

	p, closeFn, err := newDownloadPipeline(cmd, cfg, contentPath)
	if err != nil {
		return err
	}
	defer closeFn()

	result := p.Run(cmd.Context(), input, cfg)
	if result.Empty() {
		return fmt.Errorf("no valid arXiv IDs found in input")
	}
	if result.HasFailures() {
		return fmt.Errorf("%d paper(s) failed to download", result.Failed)
	}
	return nil
}

// newDownloadPipeline wires the pipeline for the CLI. The returned function
// releases the journal.
func newDownloadPipeline(cmd *cobra.Command, cfg types.DownloadConfig, contentPath string) (*acquire.Pipeline, func(), error) {
	extractor, err := newExtractor(cfg.HTTPConfig, contentPath, cmd.InOrStdin())
	if err != nil {
		return nil, nil, err
	}
	resolver, err := newResolver(cfg.HTTPConfig)
	if err != nil {
		return nil, nil, err
	}

	saver := &acquire.LocalSaver{
		Client:    resolver.Client,
		UserAgent: cfg.UserAgent,
		Prompt:    promptFilename(cmd.InOrStdin(), cmd.ErrOrStderr()),
	}
	if isTerminal(os.Stderr) {
		saver.Progress = os.Stderr
	}

	p := &acquire.Pipeline{
		Extractor: extractor,
		Resolver:  resolver,
		Dispatcher: &acquire.Dispatcher{
			Saver:    saver,
			Notifier: acquire.WriterNotifier{W: cmd.ErrOrStderr()},
			Logger:   logger,
		},
		Logger: logger,
		Out:    cmd.OutOrStdout(),
	}

	closeFn := func() {}
	if cfg.JournalPath != "" {
		store, err := journal.Open(cfg.JournalPath)
		if err != nil {
			return nil, nil, err
		}
		p.Journal = store
		closeFn = func() {
			if err := store.Close(); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "closing journal:", err)
			}
		}
	}
	return p, closeFn, nil
}

