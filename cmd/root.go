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
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnkreport/internal/iofs"
	"github.com/gnames/gnkreport/internal/iologger"
	app "github.com/gnames/gnkreport/pkg"
	"github.com/gnames/gnkreport/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// getRootCmd returns the base command when called without any subcommands.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "gnkreport",
		Short:   "GNkreport creates Kraken-style reports from classification output",
		Long: `GNkreport converts per-read classification output of Kraken-like
classifiers into hierarchical taxonomic abundance reports (kreports).

A report shows every taxon with classified reads, its clade count,
its own count and its share of all reads, indented by taxonomic depth.

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (GNKREPORT_*)
  3. Config file (~/.config/gnkreport/config.yaml)
  4. Built-in defaults

Environment Variables:
  GNKREPORT_REPORT_USE_READ_LENGTH   Use read lengths as weights
  GNKREPORT_REPORT_SKIP_MALFORMED    Skip lines that cannot be parsed
  GNKREPORT_REPORT_BATCH_SIZE        Lines per parsing batch
  GNKREPORT_REPORT_NO_PROGRESS       Do not show progress bars
  GNKREPORT_LOG_LEVEL                Log level (debug/info/warn/error)
  GNKREPORT_LOG_FORMAT               Log format (json/text)
  GNKREPORT_LOG_DESTINATION          Log destination (file/stderr/stdout)
  GNKREPORT_JOBS_NUMBER              Number of parsing workers`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "gnkreport version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for gnkreport")

	rootCmd.AddCommand(getReportCmd())

	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Reconfigure logging with user's settings
	if err = iologger.Init(config.LogDir(cfg.HomeDir), cfg.Log); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded", "config_file", config.ConfigFilePath(homeDir))

	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	versionFlag(cmd)
	return cmd.Help()
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	err := getRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables are allowed.
	// These match the fields included in config.ToOptions() - i.e., persistent
	// configuration that can be stored in config.yaml.
	v.SetEnvPrefix("GNKREPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Report configuration
	v.BindEnv("report.use_read_length", "GNKREPORT_REPORT_USE_READ_LENGTH")
	v.BindEnv("report.skip_malformed", "GNKREPORT_REPORT_SKIP_MALFORMED")
	v.BindEnv("report.batch_size", "GNKREPORT_REPORT_BATCH_SIZE")
	v.BindEnv("report.no_progress", "GNKREPORT_REPORT_NO_PROGRESS")

	// Log configuration
	v.BindEnv("log.level", "GNKREPORT_LOG_LEVEL")
	v.BindEnv("log.format", "GNKREPORT_LOG_FORMAT")
	v.BindEnv("log.destination", "GNKREPORT_LOG_DESTINATION")

	// General configuration
	v.BindEnv("jobs_number", "GNKREPORT_JOBS_NUMBER")

	v.AutomaticEnv()
}
