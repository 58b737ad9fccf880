// Package gnkreport declares the main contracts of the application.
package gnkreport

import (
	"context"

	"github.com/gnames/gnkreport/pkg/report"
)

// Reporter creates kreport files for one or many classification files
// according to the configuration it was created with.
type Reporter interface {
	// Run builds the taxonomy tree once and creates a report for every
	// input. Inputs are processed one after another. A failed input does
	// not stop the rest, but makes Run return an error at the end.
	Run(ctx context.Context) error
}

// Store keeps generated reports in addition to report files.
type Store interface {
	// Save stores rows of one report. The same input saved again
	// replaces the previous report.
	Save(ctx context.Context, meta ReportMeta, rows []report.Row) error

	// Close releases resources of the store.
	Close() error
}

// ReportMeta describes a generated report.
type ReportMeta struct {
	// Input is the path of the classification file.
	Input string
	// Output is the path of the report file.
	Output string
	// Records is the number of classification records in the input.
	Records int64
	// Mode is the weighting mode, 'read-count' or 'read-length'.
	Mode string
}
