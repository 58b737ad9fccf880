// Package config provides configuration management for GNkreport.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Report: use_read_length, skip_malformed, batch_size, no_progress
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Report.TaxonomyPath, InputFile, InputDir, OutputFile, OutputDir, DBPath
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use GNKREPORT_ prefix with underscores for nesting:
//
//	GNKREPORT_REPORT_USE_READ_LENGTH=true
//	GNKREPORT_REPORT_BATCH_SIZE=20000
//	GNKREPORT_LOG_LEVEL=info
//	GNKREPORT_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Config represents the complete GNkreport configuration.
type Config struct {
	// Report contains settings of the report command.
	Report ReportConfig `mapstructure:"report" yaml:"report"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of workers that parse lines of one
	// classification file. Files themselves are always processed one
	// after another.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// ReportConfig contains settings for generating kreport files.
type ReportConfig struct {
	// TaxonomyPath is the taxonomy table ('\t|\t' delimited, five fields).
	TaxonomyPath string `mapstructure:"-" yaml:"-"`

	// InputFile is a single classification file. It is used together with
	// OutputFile and excludes InputDir.
	InputFile string `mapstructure:"-" yaml:"-"`

	// InputDir is a directory where every regular file is a classification
	// file. It is used together with OutputDir and excludes InputFile.
	InputDir string `mapstructure:"-" yaml:"-"`

	// OutputFile is the report path for a single InputFile.
	OutputFile string `mapstructure:"-" yaml:"-"`

	// OutputDir receives one '<name>_kreport.txt' file per input.
	// It is created if it does not exist.
	OutputDir string `mapstructure:"-" yaml:"-"`

	// DBPath is an optional SQLite file that receives all generated
	// reports in addition to the text files.
	DBPath string `mapstructure:"-" yaml:"-"`

	// UseReadLength switches weights from read counts to the sum of read
	// lengths taken from the fourth column ('len' or 'len1|len2').
	UseReadLength bool `mapstructure:"use_read_length" yaml:"use_read_length"`

	// SkipMalformed makes the reader skip classification lines that cannot
	// be parsed instead of failing the whole file.
	SkipMalformed bool `mapstructure:"skip_malformed" yaml:"skip_malformed"`

	// BatchSize is the number of classification lines handed to a parsing
	// worker at once.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`

	// NoProgress disables progress bars on STDERR.
	NoProgress bool `mapstructure:"no_progress" yaml:"no_progress"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Report: ReportConfig{
			BatchSize: 10_000,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(),
	}

	return res
}
