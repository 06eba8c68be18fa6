// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/site-resolver/internal/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect past runs recorded in the SQLite journal",
	Long: `Journal reads the run database written by "resolve --journal". Use runs to
list every recorded run and show to export one run with its per-row results.`,
}

// --- runs subcommand ---

var journalRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  runJournalRuns,
}

func runJournalRuns(cmd *cobra.Command, args []string) error {
	j, err := openJournal(cmd)
	if err != nil {
		return err
	}
	defer j.Close()

	runs, err := j.Runs(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-11s  %-19s  %7s  %9s  %s\n",
		"Run", "Status", "Started", "Matched", "Unmatched", "Input")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for _, r := range runs {
		fmt.Fprintf(os.Stdout, "%-36s  %-11s  %-19s  %7d  %9d  %s\n",
			r.ID, r.Status, r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Matched, r.Unmatched, r.Input)
	}
	return nil
}

// --- show subcommand ---

var journalShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Export one run with its per-row resolutions",
	Long: `Show prints a run and every row it resolved. The default format is a
Markdown report; --json and --yaml give machine-readable exports.`,
	Args: cobra.ExactArgs(1),
	RunE: runJournalShow,
}

func runJournalShow(cmd *cobra.Command, args []string) error {
	j, err := openJournal(cmd)
	if err != nil {
		return err
	}
	defer j.Close()

	report, err := j.Report(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	yamlOutput, _ := cmd.Flags().GetBool("yaml")
	switch {
	case jsonOutput:
		return report.WriteJSON(os.Stdout)
	case yamlOutput:
		return report.WriteYAML(os.Stdout)
	default:
		return report.WriteMarkdown(os.Stdout)
	}
}

func openJournal(cmd *cobra.Command) (*journal.Journal, error) {
	if err := bindFlags(cmd, map[string]string{"journal": "journal.path"}); err != nil {
		return nil, err
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Journal.Path == "" {
		return nil, fmt.Errorf("no journal configured: pass --journal or set journal.path")
	}
	if _, err := os.Stat(cfg.Journal.Path); err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	return journal.Open(cfg.Journal.Path)
}

func init() {
	journalCmd.PersistentFlags().String("journal", "", "SQLite journal file (default: journal.path from config)")

	journalRunsCmd.Flags().Bool("json", false, "output as JSON")

	journalShowCmd.Flags().Bool("json", false, "export as JSON")
	journalShowCmd.Flags().Bool("yaml", false, "export as YAML")
	journalShowCmd.Flags().Bool("markdown", false, "render a Markdown report (default)")
	journalShowCmd.MarkFlagsMutuallyExclusive("json", "yaml", "markdown")

	journalCmd.AddCommand(journalRunsCmd, journalShowCmd)
	rootCmd.AddCommand(journalCmd)
}
