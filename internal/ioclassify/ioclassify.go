// Package ioclassify reads classification files and collects direct read
// counts per taxon.
//
// Lines are read in batches and parsed by a pool of workers. Every worker
// fills its own partial aggregator, a single merger folds them together.
// Addition is commutative, so the result does not depend on scheduling.
package ioclassify

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gnkreport/internal/iofs"
	"github.com/gnames/gnkreport/pkg/config"
	"github.com/gnames/gnkreport/pkg/counts"
	"golang.org/x/sync/errgroup"
)

// maxLineSize limits the length of one classification line. Lines keep
// k-mer mappings and might be long for long reads.
const maxLineSize = 64 << 20

// Result of reading one classification file.
type Result struct {
	// Aggregator keeps direct weights of all accepted records.
	Aggregator *counts.Aggregator

	// Skipped is the number of malformed lines that were ignored.
	// It is always zero unless skipping malformed lines is enabled.
	Skipped int64
}

// Classifier reads classification files.
type Classifier struct {
	mode          counts.Mode
	jobs          int
	batchSize     int
	skipMalformed bool
	noProgress    bool
}

// New creates a Classifier from configuration.
func New(cfg *config.Config) *Classifier {
	return &Classifier{
		mode:          counts.NewMode(cfg.Report.UseReadLength),
		jobs:          max(cfg.JobsNumber, 1),
		batchSize:     max(cfg.Report.BatchSize, 1),
		skipMalformed: cfg.Report.SkipMalformed,
		noProgress:    cfg.Report.NoProgress,
	}
}

// Mode returns the weighting mode of the classifier.
func (c *Classifier) Mode() counts.Mode {
	return c.mode
}

// batch is a chunk of consecutive lines.
type batch struct {
	// start is the number of the first line, counting from 1.
	start int
	lines []string
}

// partial is the result of parsing one batch.
type partial struct {
	agg     *counts.Aggregator
	skipped int64
}

// Aggregate reads a classification file and returns direct weights of
// its records. A malformed line aborts the file unless skipping is
// enabled. Cancellation of ctx stops reading between batches.
func (c *Classifier) Aggregate(
	ctx context.Context,
	path string,
) (*Result, error) {
	var bar *pb.ProgressBar
	var wrap iofs.WrapFunc
	if !c.noProgress {
		wrap = func(r io.Reader, size int64) io.Reader {
			bar = startBar(size, filepath.Base(path))
			return bar.NewProxyReader(r)
		}
	}

	// the bar is already running when Open fails on a bad header
	f, err := iofs.Open(path, wrap)
	if bar != nil {
		defer bar.Finish()
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	chIn := make(chan batch)
	chOut := make(chan partial)

	g, gCtx := errgroup.WithContext(ctx)
	var wg sync.WaitGroup

	g.Go(func() error {
		defer close(chIn)
		return c.readBatches(gCtx, path, f, chIn)
	})

	for range c.jobs {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			return c.worker(gCtx, chIn, chOut)
		})
	}

	// Close chOut when all workers are done
	go func() {
		wg.Wait()
		close(chOut)
	}()

	res := &Result{Aggregator: counts.NewAggregator()}
	g.Go(func() error {
		for p := range chOut {
			res.Aggregator.Merge(p.agg)
			res.Skipped += p.skipped
		}
		return nil
	})

	if err = g.Wait(); err != nil {
		return nil, err
	}

	slog.Debug("Classification file is read",
		"path", path,
		"records", res.Aggregator.Records(),
		"skipped", res.Skipped,
	)
	return res, nil
}

func (c *Classifier) readBatches(
	ctx context.Context,
	path string,
	r io.Reader,
	chIn chan<- batch,
) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lineNum int
	b := batch{start: 1, lines: make([]string, 0, c.batchSize)}
	send := func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case chIn <- b:
		}
		b = batch{start: lineNum + 1, lines: make([]string, 0, c.batchSize)}
		return nil
	}

	for sc.Scan() {
		lineNum++
		b.lines = append(b.lines, sc.Text())
		if len(b.lines) < c.batchSize {
			continue
		}
		if err := send(); err != nil {
			return err
		}
		if lineNum%1_000_000 == 0 {
			slog.Debug("Classification lines read",
				"path", path,
				"lines", humanize.Comma(int64(lineNum)),
			)
		}
	}
	if err := sc.Err(); err != nil {
		return iofs.ReadFileError(path, err)
	}

	if len(b.lines) > 0 {
		return send()
	}
	return nil
}

func (c *Classifier) worker(
	ctx context.Context,
	chIn <-chan batch,
	chOut chan<- partial,
) error {
	for b := range chIn {
		p := partial{agg: counts.NewAggregator()}
		for i, line := range b.lines {
			r, err := counts.Parse(line, c.mode)
			if err == nil {
				p.agg.AddRecord(r)
				continue
			}
			if !c.skipMalformed {
				return counts.LineError(b.start+i, line, err)
			}
			p.skipped++
			slog.Debug("Skipping malformed line",
				"line_num", b.start+i, "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case chOut <- p:
		}
	}
	return nil
}
