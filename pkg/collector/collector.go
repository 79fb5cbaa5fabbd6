// Package collector implements the resumable batch engine. It walks an
// item list in fixed-size chunks, produces one record per item through a
// pluggable parser, appends each completed chunk to a sink, and persists
// the cursor only after the append succeeds. A run killed at any point
// resumes from the last persisted cursor and repeats at most one chunk.
package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/montanaflynn/stats"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"

	"github.com/steamharvest/steamharvest/pkg/logging"
	"github.com/steamharvest/steamharvest/pkg/ratelimit"
	"github.com/steamharvest/steamharvest/pkg/record"
)

// DefaultBatchSize is the number of items per batch when Options does not
// set one.
const DefaultBatchSize = 100

// Parser produces the record for one catalog item.
type Parser interface {
	Parse(ctx context.Context, appid int, name string) (record.Record, error)
}

// ParserFunc adapts a plain function to the Parser interface.
type ParserFunc func(ctx context.Context, appid int, name string) (record.Record, error)

// Parse calls f.
func (f ParserFunc) Parse(ctx context.Context, appid int, name string) (record.Record, error) {
	return f(ctx, appid, name)
}

// PlaceholderParser is implemented by parsers that can produce a minimal
// stand-in record for an item whose fetch failed. Required when
// Options.ContinueOnError is set.
type PlaceholderParser interface {
	Placeholder(appid int, name string) record.Record
}

// Sink receives completed batches.
type Sink interface {
	Init(cursor int) error
	Append(batch []record.Record) error
}

// Checkpoint persists the resume cursor.
type Checkpoint interface {
	Load() (int, error)
	Save(value int) error
}

// Options configures one Run.
type Options struct {
	// Source labels logs and metrics
	Source string

	// Start is the item index to resume from, normally the loaded checkpoint
	Start int

	// End bounds processing exclusively; zero or out of range means the
	// full list
	End int

	// BatchSize is the number of items fetched per durable write
	BatchSize int

	// Pause is the delay inserted after each item fetch
	Pause time.Duration

	// ContinueOnError writes a placeholder record for a failed item
	// instead of aborting the run
	ContinueOnError bool

	// Progress renders a terminal progress bar
	Progress bool
}

// Summary reports what one Run accomplished.
type Summary struct {
	Source       string
	Start        int
	End          int
	Batches      int
	Records      int
	Placeholders int
	Duration     time.Duration
}

// Collector drives batches from a parser into a sink with checkpointing.
type Collector struct {
	parser Parser
	sink   Sink
	store  Checkpoint
	logger zerolog.Logger
}

// New creates a collector. All three dependencies are required.
func New(parser Parser, sink Sink, store Checkpoint) *Collector {
	if parser == nil {
		panic("collector: nil parser")
	}
	if sink == nil {
		panic("collector: nil sink")
	}
	if store == nil {
		panic("collector: nil checkpoint store")
	}

	return &Collector{
		parser: parser,
		sink:   sink,
		store:  store,
		logger: logging.NewLogger("collector"),
	}
}

// Run processes items[opts.Start:opts.End] in batches. Each batch is
// fetched item by item, appended to the sink, and only then recorded in
// the checkpoint store, so a crash is always recovered by re-fetching at
// most one batch. Batches already appended whose checkpoint write was
// lost reappear as duplicate rows on the next run; dedup is the
// downstream consumer's job.
//
// The first error aborts the run unless Options.ContinueOnError is set,
// in which case failed items get a placeholder record and the run keeps
// going. Cancellation of ctx always aborts.
func (c *Collector) Run(ctx context.Context, items []record.Item, opts Options) (*Summary, error) {
	source := opts.Source
	if source == "" {
		source = "collector"
	}
	logger := c.logger.With().Str("source", source).Logger()

	start := opts.Start
	if start < 0 {
		return nil, fmt.Errorf("start cursor %d is negative", start)
	}

	end := opts.End
	if end <= 0 || end > len(items) {
		end = len(items)
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	placeholders, _ := c.parser.(PlaceholderParser)
	if opts.ContinueOnError && placeholders == nil {
		return nil, fmt.Errorf("continue-on-error requires a parser with placeholder records")
	}

	// The sink decides whether a header is due based on the cursor.
	if err := c.sink.Init(start); err != nil {
		return nil, fmt.Errorf("init sink: %w", err)
	}

	summary := &Summary{Source: source, Start: start, End: end}
	if start >= end {
		logger.Info().Int("cursor", start).Int("total", len(items)).
			Msg("Nothing to collect")
		return summary, nil
	}

	chunks := buildChunks(start, end, batchSize)
	logger.Info().
		Int("items", end-start).
		Int("batches", len(chunks)).
		Int("batch_size", batchSize).
		Dur("pause", opts.Pause).
		Msg("Run started")

	var bar *progressbar.ProgressBar
	if opts.Progress {
		bar = progressbar.Default(int64(end-start), source)
	}

	runStart := time.Now()
	durations := make([]float64, 0, len(chunks))

	for idx, chunk := range chunks {
		batchStart := time.Now()
		batch := make([]record.Record, 0, chunk.end-chunk.start)

		for i := chunk.start; i < chunk.end; i++ {
			item := items[i]

			rec, err := c.parser.Parse(ctx, item.ID, item.Name)
			if err != nil {
				if ctx.Err() != nil || !opts.ContinueOnError {
					return summary, fmt.Errorf("item %d (%s): %w", item.ID, item.Name, err)
				}

				logger.Warn().Err(err).Int("appid", item.ID).Str("name", item.Name).
					Msg("Item failed, writing placeholder")
				placeholdersTotal.WithLabelValues(source).Inc()
				summary.Placeholders++
				rec = placeholders.Placeholder(item.ID, item.Name)
			} else {
				logger.Debug().Int("appid", item.ID).Msg("Item fetched")
			}

			batch = append(batch, rec)
			if bar != nil {
				_ = bar.Add(1)
			}

			if opts.Pause > 0 {
				if err := ratelimit.Sleep(ctx, opts.Pause); err != nil {
					return summary, fmt.Errorf("pause interrupted: %w", err)
				}
			}
		}

		if err := c.sink.Append(batch); err != nil {
			return summary, fmt.Errorf("append batch %d-%d: %w", chunk.start, chunk.end, err)
		}
		if err := c.store.Save(chunk.end); err != nil {
			return summary, fmt.Errorf("save checkpoint %d: %w", chunk.end, err)
		}

		elapsed := time.Since(batchStart)
		summary.Batches++
		summary.Records += len(batch)

		batchesWrittenTotal.WithLabelValues(source).Inc()
		batchDurationSeconds.WithLabelValues(source).Observe(elapsed.Seconds())
		recordsWrittenTotal.WithLabelValues(source).Add(float64(len(batch)))
		checkpointValue.WithLabelValues(source).Set(float64(chunk.end))

		durations = append(durations, elapsed.Seconds())
		chunksLeft := len(chunks) - idx - 1
		etaSeconds := 0.0
		if mean, err := stats.Mean(durations); err == nil {
			etaSeconds = mean * float64(chunksLeft)
		}

		logger.Info().
			Str("batch", fmt.Sprintf("%d-%d", chunk.start, chunk.end)).
			Int("cursor", chunk.end).
			Int("records", len(batch)).
			Dur("duration", elapsed).
			Dur("eta", time.Duration(etaSeconds*float64(time.Second))).
			Msg("Batch written")
	}

	if bar != nil {
		_ = bar.Finish()
	}

	summary.Duration = time.Since(runStart)
	logger.Info().
		Str("records", humanize.Comma(int64(summary.Records))).
		Int("batches", summary.Batches).
		Int("placeholders", summary.Placeholders).
		Dur("duration", summary.Duration).
		Msg("Run complete")

	return summary, nil
}
