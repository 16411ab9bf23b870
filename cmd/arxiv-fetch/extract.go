// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-fetch/internal/acquire"
)

const titleNotFound = "(title not found)"

var extractCmd = &cobra.Command{
	Use:   "extract <input...>",
	Short: "List the arXiv papers found in the input without downloading",
	Long: `Extract finds arXiv identifiers in the input exactly as download does and
prints them with their titles. Nothing is saved. Use --no-titles to skip
the arXiv API lookups.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("content", "", "scan this saved page (file path, or - for stdin) instead of fetching")
	extractCmd.Flags().Bool("no-titles", false, "list identifiers only")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadDownloadConfig()
	if err != nil {
		return err
	}

	contentPath, _ := cmd.Flags().GetString("content")
	noTitles, _ := cmd.Flags().GetBool("no-titles")
	input := strings.Join(args, " ")
	if strings.TrimSpace(input) == "" && contentPath != "" {
		input = contentInput
	}

	extractor, err := newExtractor(cfg.HTTPConfig, contentPath, cmd.InOrStdin())
	if err != nil {
		return err
	}
	p := &acquire.Pipeline{Extractor: extractor, Logger: logger}

	ids := p.Identifiers(cmd.Context(), input)
	if len(ids) == 0 {
		logger.Warn("no valid arXiv IDs found", "input", input)
		return fmt.Errorf("no valid arXiv IDs found in input")
	}

	titles := make([]string, len(ids))
	if !noTitles {
		resolver, err := newResolver(cfg.HTTPConfig)
		if err != nil {
			return err
		}
		for i, id := range ids {
			if err := cmd.Context().Err(); err != nil {
				return err
			}
			titles[i] = titleNotFound
			if title, ok := resolver.ResolveTitle(cmd.Context(), id); ok {
				titles[i] = title
			}
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), selectionTable(ids, titles, noTitles))
	return nil
}

// selectionTable renders the identifiers found, one numbered row each.
func selectionTable(ids, titles []string, idsOnly bool) string {
	columns := []column{{Header: "#", Right: true}, {Header: "arXiv ID"}}
	if !idsOnly {
		columns = append(columns, column{Header: "Title", MaxWidth: 80})
	}
	rows := make([][]string, len(ids))
	for i, id := range ids {
		row := []string{strconv.Itoa(i + 1), id}
		if !idsOnly && i < len(titles) {
			row = append(row, titles[i])
		}
		rows[i] = row
	}
	return renderTable(columns, rows)
}
