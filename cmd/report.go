/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gnames/gn"
	"github.com/gnames/gnkreport/internal/ioreport"
	"github.com/gnames/gnkreport/pkg/config"
	"github.com/spf13/cobra"
)

// reportFlags keeps values of the report command flags.
type reportFlags struct {
	taxonomy      string
	input         string
	inputDir      string
	output        string
	outputDir     string
	dbPath        string
	useReadLength bool
	skipMalformed bool
	noProgress    bool
	jobs          int
}

// getReportCmd returns the report command.
func getReportCmd() *cobra.Command {
	var f reportFlags

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Create kreport files from classification output",
		Long: `Create Kraken-style reports from per-read classification output.

This command:
  1. Reads the taxonomy table (taxid, parent, rank, depth, name
     separated by '\t|\t') and builds the taxonomy tree
  2. Reads every classification file (tab-separated, the 3rd column
     is a taxon ID, the 4th is a read length)
  3. Counts reads per taxon and adds them to all ancestors
  4. Writes a report for every classification file

Report columns:
  percent, clade reads, taxon reads, rank code, taxon ID, indented name

Files ending with '.gz' (gzip) or '.zst' (zstandard) are decompressed
on the fly. In directory mode every regular file of the input directory,
or a symlink to one, gets a report '<name>_kreport.txt' in the output
directory.

Examples:
  # Single file
  gnkreport report -t ktaxonomy.tsv -i sample.kraken -o sample.kreport

  # All files of a directory, weighted by read lengths
  gnkreport report -t ktaxonomy.tsv --input-dir kraken --output-dir reports \
    --use-read-len

  # Keep reports in SQLite database as well
  gnkreport report -t ktaxonomy.tsv -i sample.kraken -o sample.kreport \
    --db reports.sqlite`,
		Aliases: []string{"kreport"},
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runReport(cmd, f)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	fl := reportCmd.Flags()
	fl.StringVarP(&f.taxonomy, "taxonomy", "t", "",
		"taxonomy table file")
	fl.StringVarP(&f.input, "input", "i", "",
		"classification file")
	fl.StringVar(&f.inputDir, "input-dir", "",
		"directory with classification files")
	fl.StringVarP(&f.output, "output", "o", "",
		"report file for a single input")
	fl.StringVar(&f.outputDir, "output-dir", "",
		"directory for reports of input-dir files")
	fl.BoolVar(&f.useReadLength, "use-read-len", false,
		"use read lengths instead of read counts")
	fl.BoolVar(&f.skipMalformed, "skip-malformed", false,
		"skip classification lines that cannot be parsed")
	fl.StringVar(&f.dbPath, "db", "",
		"SQLite file to store reports in addition to report files")
	fl.IntVarP(&f.jobs, "jobs", "j", 0,
		"number of parsing workers (default: number of CPU threads)")
	fl.BoolVar(&f.noProgress, "no-progress", false,
		"do not show progress bars")

	reportCmd.MarkFlagRequired("taxonomy")
	reportCmd.MarkFlagsMutuallyExclusive("input", "input-dir")
	reportCmd.MarkFlagsOneRequired("input", "input-dir")
	reportCmd.MarkFlagsMutuallyExclusive("output", "output-dir")
	reportCmd.MarkFlagsOneRequired("output", "output-dir")

	return reportCmd
}

func runReport(cmd *cobra.Command, f reportFlags) error {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	if cfg == nil {
		cfg = config.New()
	}
	cfg.Update(reportOptions(cmd, f))

	return ioreport.New(cfg).Run(ctx)
}

// reportOptions converts flags to configuration options. Persistent
// settings are changed only by flags that were set explicitly.
func reportOptions(cmd *cobra.Command, f reportFlags) []config.Option {
	var res []config.Option

	if f.taxonomy != "" {
		res = append(res, config.OptReportTaxonomyPath(f.taxonomy))
	}
	if f.input != "" {
		res = append(res, config.OptReportInputFile(f.input))
	}
	if f.inputDir != "" {
		res = append(res, config.OptReportInputDir(f.inputDir))
	}
	if f.output != "" {
		res = append(res, config.OptReportOutputFile(f.output))
	}
	if f.outputDir != "" {
		res = append(res, config.OptReportOutputDir(f.outputDir))
	}
	if f.dbPath != "" {
		res = append(res, config.OptReportDBPath(f.dbPath))
	}

	fl := cmd.Flags()
	if fl.Changed("use-read-len") {
		res = append(res, config.OptReportUseReadLength(f.useReadLength))
	}
	if fl.Changed("skip-malformed") {
		res = append(res, config.OptReportSkipMalformed(f.skipMalformed))
	}
	if fl.Changed("no-progress") {
		res = append(res, config.OptReportNoProgress(f.noProgress))
	}
	if fl.Changed("jobs") {
		res = append(res, config.OptJobsNumber(f.jobs))
	}
	return res
}
