// Package iostore keeps generated reports in a SQLite database.
// It implements gnkreport.Store.
package iostore

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/gnames/gnkreport/pkg/gnkreport"
	"github.com/gnames/gnkreport/pkg/report"
	"github.com/gnames/gnuuid"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	id TEXT PRIMARY KEY,
	input TEXT NOT NULL,
	output TEXT NOT NULL,
	mode TEXT NOT NULL,
	records INTEGER NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS report_rows (
	report_id TEXT NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	percent REAL NOT NULL,
	cumulative INTEGER NOT NULL,
	direct INTEGER NOT NULL,
	rank TEXT NOT NULL,
	taxon_id TEXT NOT NULL,
	depth INTEGER NOT NULL,
	name TEXT NOT NULL,
	PRIMARY KEY (report_id, position)
);

CREATE INDEX IF NOT EXISTS report_rows_taxon_idx ON report_rows (taxon_id);
`

type sqliteStore struct {
	db   *sql.DB
	path string
}

// New opens or creates a SQLite database at path and makes sure it has
// the reports schema.
func New(ctx context.Context, path string) (gnkreport.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, OpenError(path, err)
	}

	// single writer, reports are saved one after another
	db.SetMaxOpenConns(1)

	if _, err = db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, OpenError(path, err)
	}

	if _, err = db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, OpenError(path, err)
	}

	slog.Info("Report database is ready", "path", path)
	return &sqliteStore{db: db, path: path}, nil
}

// ReportID returns the ID of a report for the given input. The same
// input always gets the same ID.
func ReportID(input string) string {
	var id uuid.UUID = gnuuid.New(input)
	return id.String()
}

// Save stores the report and its rows in one transaction. A previous
// report of the same input is replaced.
func (s *sqliteStore) Save(
	ctx context.Context,
	meta gnkreport.ReportMeta,
	rows []report.Row,
) error {
	id := ReportID(meta.Input)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return WriteError(s.path, meta.Input, err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx,
		"DELETE FROM report_rows WHERE report_id = ?", id); err != nil {
		return WriteError(s.path, meta.Input, err)
	}
	if _, err = tx.ExecContext(ctx,
		"DELETE FROM reports WHERE id = ?", id); err != nil {
		return WriteError(s.path, meta.Input, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO reports (id, input, output, mode, records, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, meta.Input, meta.Output, meta.Mode, meta.Records,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return WriteError(s.path, meta.Input, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO report_rows
			(report_id, position, percent, cumulative, direct,
			 rank, taxon_id, depth, name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return WriteError(s.path, meta.Input, err)
	}
	defer stmt.Close()

	for i, r := range rows {
		_, err = stmt.ExecContext(ctx,
			id, i, r.Percent, r.Cumulative, r.Direct,
			r.Rank, r.TaxonID, r.Depth, r.Name,
		)
		if err != nil {
			return WriteError(s.path, meta.Input, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return WriteError(s.path, meta.Input, err)
	}

	slog.Debug("Report saved to database",
		"input", meta.Input, "id", id, "rows", len(rows))
	return nil
}

// Close closes the database.
func (s *sqliteStore) Close() error {
	return s.db.Close()
}
