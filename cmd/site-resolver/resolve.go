package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/site-resolver/internal/discover"
	"github.com/pdiddy/site-resolver/internal/enrich"
	"github.com/pdiddy/site-resolver/internal/journal"
	"github.com/pdiddy/site-resolver/internal/metrics"
	"github.com/pdiddy/site-resolver/internal/resolve"
	"github.com/pdiddy/site-resolver/internal/sheet"
	"github.com/pdiddy/site-resolver/internal/verify"
	"github.com/pdiddy/site-resolver/pkg/types"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Add an Official Website column to every row of the input sheet",
	Long: `Resolve loads the input spreadsheet (.xlsx or .csv), checks that it has the
Regional Office, NBFC Name, Address, and Email ID columns, and resolves each
row in order: a web search for "<name> official website", then a visit to each
result until one answers with a title containing "official" or "company".

The output is saved every --save-every rows and once more at the end. Press
Ctrl-C to stop; rows resolved since the last save are not written.`,
	Args: cobra.NoArgs,
	RunE: runResolve,
}

var resolveFlagKeys = map[string]string{
	"input":          "run.input",
	"output":         "run.output",
	"sheet":          "run.sheet",
	"save-every":     "run.save_every",
	"delay":          "run.delay",
	"verify-timeout": "verify.timeout",
	"query-template": "search.query_template",
	"journal":        "journal.path",
	"metrics-file":   "metrics.textfile",
}

func init() {
	f := resolveCmd.Flags()
	f.String("input", "", "input spreadsheet (default nbfcData.xlsx)")
	f.String("output", "", "output spreadsheet (default output.xlsx)")
	f.String("sheet", "", "worksheet name for .xlsx files (default: first sheet)")
	f.Int("save-every", 0, "rows between periodic saves (default 10)")
	f.Duration("delay", 0, "pause between rows (default 1s)")
	f.Duration("verify-timeout", 0, "timeout for each candidate page (default 5s)")
	f.String("query-template", "", `search query; {name} is replaced (default "{name} official website")`)
	f.String("journal", "", "record the run in this SQLite journal")
	f.String("metrics-file", "", "write Prometheus metrics to this file when the run ends")

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, resolveFlagKeys); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, runErr := resolveSheet(ctx, cfg, os.Stdout)
	if errors.Is(runErr, context.Canceled) {
		fmt.Println("\nProcess interrupted by user.")
		return nil
	}
	if runErr != nil {
		return runErr
	}

	fmt.Printf("Results have been saved to %s\n", cfg.Run.OutputPath)
	fmt.Printf("\nRun summary: %d matched, %d unmatched (total: %d)\n",
		summary.Matched, summary.Unmatched, summary.Total())
	if summary.HasSaveFailures() {
		fmt.Printf("Warning: %d periodic save(s) failed\n", summary.SaveFailures)
	}
	return nil
}

// resolveSheet loads and validates the input, then enriches it in place.
// The input is checked before the resolver is built, so a sheet with
// missing columns fails without any request being made.
func resolveSheet(ctx context.Context, cfg types.Config, out io.Writer) (enrich.Summary, error) {
	table, err := sheet.Load(cfg.Run.InputPath, cfg.Run.Sheet)
	if err != nil {
		return enrich.Summary{}, err
	}
	if err := sheet.Validate(table); err != nil {
		return enrich.Summary{}, err
	}
	logger.Info("input loaded",
		zap.String("path", cfg.Run.InputPath), zap.Int("rows", len(table.Rows)))

	recorder := metrics.New()
	e := &enrich.Enricher{
		Resolver: newResolver(cfg, out),
		Saver:    sheet.Writer{Path: cfg.Run.OutputPath, Sheet: cfg.Run.Sheet},
		Metrics:  recorder,
		Config:   cfg.Run,
		Out:      out,
		Logger:   logger,
	}

	if cfg.Journal.Path != "" {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			return enrich.Summary{}, err
		}
		defer j.Close()

		run, err := j.BeginRun(ctx, cfg.Run.InputPath, cfg.Run.OutputPath)
		if err != nil {
			return enrich.Summary{}, err
		}
		e.Journal = run
		fmt.Fprintf(os.Stderr, "Journal run: %s\n", run.ID)
	}

	summary, err := e.Run(ctx, table)

	if cfg.Metrics.Textfile != "" {
		if werr := recorder.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
			logger.Warn("metrics not written", zap.Error(werr))
		}
	}
	return summary, err
}

// newResolver wires the search page backend to the title verifier.
func newResolver(cfg types.Config, out io.Writer) *resolve.Resolver {
	d := discover.NewSearchPage(cfg.Search)
	v := verify.New(cfg.Verify, logger)
	return resolve.New(d, v, cfg.Search.QueryTemplate, out, logger)
}
