// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-fetch/internal/journal"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent download outcomes from the journal",
	Long: `History lists the most recent entries of the download journal, newest
first. The journal is written by download when --journal (or journal_path
in the config file) is set.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of entries")
	historyCmd.Flags().String("id", "", "only show entries for this arXiv ID")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := viper.GetString("journal_path")
	if path == "" {
		return fmt.Errorf("no journal configured: set --journal or journal_path")
	}
	limit, _ := cmd.Flags().GetInt("limit")
	id, _ := cmd.Flags().GetString("id")

	store, err := journal.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(cmd.Context(), limit, id)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No entries.")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), historyTable(entries))
	return nil
}

func historyTable(entries []journal.Entry) string {
	columns := []column{
		{Header: "When"},
		{Header: "Run"},
		{Header: "arXiv ID"},
		{Header: "Status"},
		{Header: "Detail", MaxWidth: 70},
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		detail := e.Path
		switch {
		case e.Error != "":
			detail = e.Error
		case detail == "" && e.Title == "":
			detail = titleNotFound
		case detail == "":
			detail = e.Filename
		}
		runID := e.RunID
		if len(runID) > 8 {
			runID = runID[:8]
		}
		rows = append(rows, []string{
			e.At.Local().Format("2006-01-02 15:04:05"),
			runID,
			e.ArxivID,
			e.Status,
			detail,
		})
	}
	return renderTable(columns, rows)
}
