package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptReportTaxonomyPath sets the path to the taxonomy table.
// Runtime-only field - not in ToOptions().
func OptReportTaxonomyPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Taxonomy Path", s) {
			c.Report.TaxonomyPath = s
		}
	}
}

// OptReportInputFile sets a single classification file to process.
// Runtime-only field - not in ToOptions().
func OptReportInputFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Input File", s) {
			c.Report.InputFile = s
		}
	}
}

// OptReportInputDir sets a directory of classification files.
// Runtime-only field - not in ToOptions().
func OptReportInputDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Input Directory", s) {
			c.Report.InputDir = s
		}
	}
}

// OptReportOutputFile sets the report path for a single input file.
// Runtime-only field - not in ToOptions().
func OptReportOutputFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Output File", s) {
			c.Report.OutputFile = s
		}
	}
}

// OptReportOutputDir sets the directory for reports of many inputs.
// Runtime-only field - not in ToOptions().
func OptReportOutputDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Output Directory", s) {
			c.Report.OutputDir = s
		}
	}
}

// OptReportDBPath sets an SQLite file that collects generated reports.
// Runtime-only field - not in ToOptions().
func OptReportDBPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Path", s) {
			c.Report.DBPath = s
		}
	}
}

// OptReportUseReadLength switches from read counts to read lengths.
func OptReportUseReadLength(b bool) Option {
	return func(c *Config) {
		c.Report.UseReadLength = b
	}
}

// OptReportSkipMalformed sets whether unparsable classification lines
// are skipped with a warning.
func OptReportSkipMalformed(b bool) Option {
	return func(c *Config) {
		c.Report.SkipMalformed = b
	}
}

// OptReportBatchSize sets the number of lines sent to a parsing worker.
func OptReportBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Report.BatchSize = i
		}
	}
}

// OptReportNoProgress disables progress bars.
func OptReportNoProgress(b bool) Option {
	return func(c *Config) {
		c.Report.NoProgress = b
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of workers parsing classification lines.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
