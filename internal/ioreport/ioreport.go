// Package ioreport creates kreport files. It implements gnkreport.Reporter.
package ioreport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnkreport/internal/ioclassify"
	"github.com/gnames/gnkreport/internal/iofs"
	"github.com/gnames/gnkreport/internal/iostore"
	"github.com/gnames/gnkreport/internal/iotaxonomy"
	"github.com/gnames/gnkreport/pkg/config"
	"github.com/gnames/gnkreport/pkg/gnkreport"
	"github.com/gnames/gnkreport/pkg/report"
	"github.com/gnames/gnkreport/pkg/taxonomy"
)

type reporter struct {
	cfg *config.Config
	cl  *ioclassify.Classifier

	// store is opened from configuration when it is nil.
	store gnkreport.Store
}

// job pairs a classification file with its report.
type job struct {
	input  string
	output string
}

// New creates a Reporter from configuration.
func New(cfg *config.Config) gnkreport.Reporter {
	return &reporter{cfg: cfg, cl: ioclassify.New(cfg)}
}

// Run builds the taxonomy tree and creates a report for every input.
func (r *reporter) Run(ctx context.Context) error {
	start := time.Now()

	if err := CheckArgs(r.cfg.Report); err != nil {
		return err
	}

	jobs, err := r.jobs()
	if err != nil {
		return err
	}

	tree, err := iotaxonomy.Load(r.cfg.Report.TaxonomyPath)
	if err != nil {
		return err
	}
	gn.Info("Taxonomy <em>%s</em> has %s taxa",
		r.cfg.Report.TaxonomyPath, humanize.Comma(int64(tree.Len())))

	store := r.store
	if store == nil && r.cfg.Report.DBPath != "" {
		if store, err = iostore.New(ctx, r.cfg.Report.DBPath); err != nil {
			return err
		}
		defer store.Close()
	}

	var failed []string
	for i, j := range jobs {
		if err = ctx.Err(); err != nil {
			return CancelledError(i, len(jobs), err)
		}

		err = r.process(ctx, tree, store, j)
		if errors.Is(err, context.Canceled) ||
			errors.Is(err, context.DeadlineExceeded) {
			return CancelledError(i, len(jobs), err)
		}
		if err != nil {
			slog.Error("Cannot create report", "input", j.input, "error", err)
			gn.PrintErrorMessage(err)
			failed = append(failed, j.input)
		}
	}

	slog.Info("Reports are done",
		"files", len(jobs),
		"failed", len(failed),
		"duration", gnfmt.TimeString(time.Since(start).Seconds()),
	)
	if len(failed) > 0 {
		return InputsFailedError(failed, len(jobs))
	}

	if len(jobs) > 1 {
		gn.Info("Created <em>%d</em> reports in %s",
			len(jobs), gnfmt.TimeString(time.Since(start).Seconds()))
	}
	return nil
}

// CheckArgs makes sure that taxonomy is given, and that either a single
// input goes with a single output, or an input directory goes with an
// output directory.
func CheckArgs(cfg config.ReportConfig) error {
	switch {
	case cfg.TaxonomyPath == "":
		return ArgsError("taxonomy file is required")
	case cfg.InputFile != "" && cfg.InputDir != "":
		return ArgsError("input file and input directory are mutually exclusive")
	case cfg.InputFile == "" && cfg.InputDir == "":
		return ArgsError("input file or input directory is required")
	case cfg.InputFile != "" && cfg.OutputFile == "":
		return ArgsError("input file requires an output file")
	case cfg.InputDir != "" && cfg.OutputDir == "":
		return ArgsError("input directory requires an output directory")
	case cfg.InputFile != "" && cfg.OutputDir != "":
		return ArgsError("use output file with a single input file")
	case cfg.InputDir != "" && cfg.OutputFile != "":
		return ArgsError("use output directory with an input directory")
	}
	return nil
}

func (r *reporter) jobs() ([]job, error) {
	rc := r.cfg.Report
	if rc.InputFile != "" {
		if err := iofs.EnsureOutputDir(filepath.Dir(rc.OutputFile)); err != nil {
			return nil, err
		}
		return []job{{input: rc.InputFile, output: rc.OutputFile}}, nil
	}

	inputs, err := iofs.ListInputs(rc.InputDir)
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, NoInputsError(rc.InputDir)
	}

	if err = iofs.EnsureOutputDir(rc.OutputDir); err != nil {
		return nil, err
	}

	outputs, renamed := iofs.OutputPaths(inputs, rc.OutputDir)
	for _, v := range renamed {
		slog.Warn("Report name collision, using full file name", "input", v)
		gn.Warn("Report of <em>%s</em> uses its full file name", v)
	}

	res := make([]job, len(inputs))
	for i := range inputs {
		res[i] = job{input: inputs[i], output: outputs[i]}
	}
	slog.Info("Classification files found",
		"dir", rc.InputDir, "files", len(res))
	return res, nil
}

func (r *reporter) process(
	ctx context.Context,
	tree *taxonomy.Tree,
	store gnkreport.Store,
	j job,
) error {
	start := time.Now()
	slog.Info("Processing classification file", "input", j.input)

	res, err := r.cl.Aggregate(ctx, j.input)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return FileError(j.input, err)
	}
	if res.Skipped > 0 {
		slog.Warn("Malformed lines skipped",
			"input", j.input, "skipped", res.Skipped)
		gn.Warn("Skipped <em>%s</em> malformed lines in <em>%s</em>",
			humanize.Comma(res.Skipped), j.input)
	}

	c, err := res.Aggregator.Counts(tree)
	if err != nil {
		return FileError(j.input, err)
	}

	rows := report.Traverse(tree, c)
	// the report file appears only after the store accepted its rows
	err = iofs.WriteAtomic(j.output, func(w io.Writer) error {
		if err := report.Write(w, rows); err != nil {
			return iofs.WriteFileError(j.output, err)
		}
		if store == nil {
			return nil
		}
		meta := gnkreport.ReportMeta{
			Input:   j.input,
			Output:  j.output,
			Records: c.Records,
			Mode:    r.cl.Mode().String(),
		}
		return store.Save(ctx, meta, rows)
	})
	if err != nil {
		return err
	}

	dur := gnfmt.TimeString(time.Since(start).Seconds())
	slog.Info("Report is created",
		"input", j.input,
		"output", j.output,
		"records", c.Records,
		"rows", len(rows),
		"duration", dur,
	)
	gn.Info("<em>%s</em>: %s records, %s rows -> <em>%s</em> (%s)",
		filepath.Base(j.input),
		humanize.Comma(c.Records),
		humanize.Comma(int64(len(rows))),
		j.output, dur,
	)
	return nil
}
