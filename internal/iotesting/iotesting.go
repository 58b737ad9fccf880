// Package iotesting provides shared test utilities: sample taxonomy and
// classification data, test configuration and temporary files.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gnkreport/pkg/config"
)

// MinimalTaxonomy has a root with a single species.
const MinimalTaxonomy = "1\t|\t1\t|\tR\t|\t0\t|\troot\n" +
	"2\t|\t1\t|\tS\t|\t1\t|\tEscherichia coli\n"

// MinimalClassification has one read of taxon 2 and one unclassified
// read, 150 bases each.
const MinimalClassification = "C\tread1\t2\t150\t2:116\n" +
	"U\tread2\t0\t150\t0:116\n"

// MinimalReport is the report of MinimalClassification over
// MinimalTaxonomy.
const MinimalReport = " 50.00\t1\t1\tU\t0\tunclassified\n" +
	" 50.00\t1\t0\tR\t1\troot\n" +
	" 50.00\t1\t1\tS\t2\t  Escherichia coli\n"

// KrakenLine creates a classification line.
func KrakenLine(status, taxonID, length string) string {
	return fmt.Sprintf("%s\tread\t%s\t%s\t%s:1", status, taxonID, length, taxonID)
}

// Config returns a configuration suitable for tests: progress bars are
// off and two parsing workers are used. Options are applied on top.
func Config(opts ...config.Option) *config.Config {
	cfg := config.New()
	opts = append([]config.Option{
		config.OptJobsNumber(2),
		config.OptReportNoProgress(true),
	}, opts...)
	cfg.Update(opts)
	return cfg
}

// WriteFile creates a file with content, making parent directories as
// needed. It returns the path.
func WriteFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// ReadFile returns the content of a file.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	res, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(res)
}

// SetupTempHome points HOME to a temporary directory, so config and log
// files of a test never touch the real ones. Returns the directory.
func SetupTempHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}
