// Package enrich runs the batch: it resolves every row of a table in order,
// saves the output periodically, and saves once more at the end.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/site-resolver/internal/logging"
	"github.com/pdiddy/site-resolver/internal/metrics"
	"github.com/pdiddy/site-resolver/internal/sheet"
	"github.com/pdiddy/site-resolver/pkg/types"
)

const (
	// DefaultSaveEvery is the number of rows between periodic saves.
	DefaultSaveEvery = 10

	// DefaultDelay is the pause between consecutive rows.
	DefaultDelay = time.Second
)

// Summary counts what a run did.
type Summary = types.RunSummary

// Resolver turns an institution name into a resolution.
type Resolver interface {
	Resolve(ctx context.Context, name string) types.Resolution
}

// Saver persists the whole table.
type Saver interface {
	Save(t *types.Table) error
}

// Journal receives per-row outcomes and the final run status.
type Journal interface {
	Record(ctx context.Context, index int, row types.Row, res types.Resolution) error
	Finish(ctx context.Context, status types.RunStatus, s types.RunSummary) error
}

// Enricher holds the collaborators of a run. Journal, Metrics, Out, and
// Logger are optional.
type Enricher struct {
	Resolver Resolver
	Saver    Saver
	Journal  Journal
	Metrics  *metrics.Recorder
	Config   types.RunConfig
	Out      io.Writer
	Logger   *zap.Logger
}

// Run resolves every row of t in order, writing the Official Website field
// of each. The output is saved after every SaveEvery rows and once after
// the last row; a failed periodic save is reported and the run continues.
//
// When ctx is canceled the row in flight is discarded, no further save is
// made, and ctx.Err() is returned. A failed final save returns a
// *sheet.WriteError.
func (e *Enricher) Run(ctx context.Context, t *types.Table) (Summary, error) {
	out := e.Out
	if out == nil {
		out = io.Discard
	}
	logger := logging.OrNop(e.Logger)

	saveEvery := e.Config.SaveEvery
	if saveEvery <= 0 {
		saveEvery = DefaultSaveEvery
	}
	delay := e.Config.Delay
	if delay < 0 {
		delay = 0
	}

	for i := range t.Rows {
		t.Rows[i].Reset()
	}

	var s Summary
	for i := range t.Rows {
		if err := ctx.Err(); err != nil {
			return e.interrupted(ctx, s, logger, err)
		}

		row := &t.Rows[i]
		fmt.Fprintf(out, "Processing %s...\n", row.Name)

		res := e.Resolver.Resolve(ctx, row.Name)
		if err := ctx.Err(); err != nil {
			return e.interrupted(ctx, s, logger, err)
		}

		row.Apply(res)
		s.Processed++
		if res.Matched() {
			s.Matched++
		} else {
			s.Unmatched++
		}
		e.Metrics.ObserveResolution(res)

		if e.Journal != nil {
			if err := e.Journal.Record(ctx, i, *row, res); err != nil {
				logger.Warn("journal record failed", zap.Int("row", i), zap.Error(err))
			}
		}

		if (i+1)%saveEvery == 0 {
			e.save(t, &s, out, logger)
		}

		if i < len(t.Rows)-1 && delay > 0 {
			if err := sleep(ctx, delay); err != nil {
				return e.interrupted(ctx, s, logger, err)
			}
		}
	}

	if err := e.save(t, &s, out, logger); err != nil {
		e.finish(ctx, types.RunFailed, s, logger)
		var we *sheet.WriteError
		if !errors.As(err, &we) {
			err = &sheet.WriteError{Path: e.Config.OutputPath, Err: err}
		}
		return s, err
	}

	e.finish(ctx, types.RunCompleted, s, logger)
	logger.Info("run complete",
		zap.Int("matched", s.Matched),
		zap.Int("unmatched", s.Unmatched),
		zap.Int("save_failures", s.SaveFailures))
	return s, nil
}

// save writes the table and reports the outcome on out.
func (e *Enricher) save(t *types.Table, s *Summary, out io.Writer, logger *zap.Logger) error {
	err := e.Saver.Save(t)
	e.Metrics.ObserveSave(err)
	if err != nil {
		s.SaveFailures++
		fmt.Fprintf(out, "Error saving progress: %v\n", err)
		logger.Warn("save failed", zap.String("path", e.Config.OutputPath), zap.Error(err))
		return err
	}
	s.Saves++
	fmt.Fprintf(out, "Progress saved to %s\n", e.Config.OutputPath)
	return nil
}

func (e *Enricher) interrupted(ctx context.Context, s Summary, logger *zap.Logger, err error) (Summary, error) {
	logger.Info("run interrupted", zap.Int("processed", s.Processed))
	e.finish(ctx, types.RunInterrupted, s, logger)
	return s, err
}

// finish closes the journal entry. It must outlive a canceled run context.
func (e *Enricher) finish(ctx context.Context, status types.RunStatus, s Summary, logger *zap.Logger) {
	if e.Journal == nil {
		return
	}
	if err := e.Journal.Finish(context.WithoutCancel(ctx), status, s); err != nil {
		logger.Warn("journal finish failed", zap.Error(err))
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
