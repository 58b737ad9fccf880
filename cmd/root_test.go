package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gnames/gnkreport/internal/iologger"
	"github.com/gnames/gnkreport/internal/iotesting"
	"github.com/gnames/gnkreport/pkg/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetRootCmd_Exists verifies getRootCmd returns
// a valid command.
func TestGetRootCmd_Exists(t *testing.T) {
	cmd := getRootCmd()
	require.NotNil(t, cmd, "Root command should exist")
	assert.Equal(t, "gnkreport", cmd.Use,
		"Command name should be gnkreport")
}

// TestGetRootCmd_VersionFormat verifies version
// output format.
func TestGetRootCmd_VersionFormat(t *testing.T) {
	cmd := getRootCmd()
	cmd.Version = "version: v1.2.3\nbuild:   abc123"

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--version"})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "v1.2.3")
	assert.Contains(t, output, "abc123")
	assert.NotContains(t, output, "gnkreport version",
		"Should use custom version template")
}

// TestGetRootCmd_ShortVersionFlag verifies -V flag works.
func TestGetRootCmd_ShortVersionFlag(t *testing.T) {
	cmd := getRootCmd()
	cmd.Version = "version: v1.2.3\nbuild:   abc123"

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"-V"})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "v1.2.3")
}

// TestGetRootCmd_HelpText verifies help text content.
func TestGetRootCmd_HelpText(t *testing.T) {
	cmd := getRootCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	require.NoError(t, err)

	helpText := buf.String()
	assert.Contains(t, helpText, "gnkreport")
	assert.Contains(t, helpText, "kreport")
	assert.Contains(t, helpText, "GNKREPORT_JOBS_NUMBER")
	assert.Contains(t, helpText, "report",
		"Help should list the report command")
}

func TestGetRootCmd_Settings(t *testing.T) {
	cmd := getRootCmd()

	assert.NotNil(t, cmd.PersistentPreRunE,
		"PersistentPreRunE should be set for bootstrap")
	assert.NotNil(t, cmd.RunE)
	assert.True(t, cmd.SilenceErrors)
	assert.True(t, cmd.SilenceUsage)

	sub, _, err := cmd.Find([]string{"kreport"})
	require.NoError(t, err)
	assert.Equal(t, "report", sub.Name(), "kreport is an alias of report")
}

// TestGetRootCmd_IndependentInstances verifies each
// call returns independent instance.
func TestGetRootCmd_IndependentInstances(t *testing.T) {
	cmd1 := getRootCmd()
	cmd2 := getRootCmd()
	assert.NotSame(t, cmd1, cmd2)

	cmd1.Version = "version1"
	cmd2.Version = "version2"
	assert.Equal(t, "version1", cmd1.Version)
	assert.Equal(t, "version2", cmd2.Version)
}

// TestGetRootCmd_InvalidCommand verifies error on
// invalid command.
func TestGetRootCmd_InvalidCommand(t *testing.T) {
	cmd := getRootCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"nonexistent-command"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t,
		strings.Contains(buf.String(), "unknown") ||
			strings.Contains(err.Error(), "unknown"),
		"Error should indicate unknown command")
}

func TestInitConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("GNKREPORT_REPORT_BATCH_SIZE", "500")
	t.Setenv("GNKREPORT_LOG_LEVEL", "debug")

	_, err := initConfig(home)
	require.Error(t, err, "config file does not exist yet")

	writeDefaultConfig(t, home)
	res, err := initConfig(home)
	require.NoError(t, err)

	assert.Equal(t, 500, res.Report.BatchSize)
	assert.Equal(t, "debug", res.Log.Level)
	assert.Equal(t, "json", res.Log.Format)
	assert.False(t, res.Report.UseReadLength)
	assert.Zero(t, res.JobsNumber)

	c := config.New()
	c.Update(res.ToOptions())
	assert.Equal(t, 500, c.Report.BatchSize)
	assert.Positive(t, c.JobsNumber, "default jobs number is kept")
}

func TestInitEnvVars(t *testing.T) {
	t.Setenv("GNKREPORT_REPORT_USE_READ_LENGTH", "true")
	t.Setenv("GNKREPORT_JOBS_NUMBER", "3")

	v := viper.New()
	initEnvVars(v)
	assert.True(t, v.GetBool("report.use_read_length"))
	assert.Equal(t, 3, v.GetInt("jobs_number"))
}

func TestRootCmd_Report(t *testing.T) {
	home := iotesting.SetupTempHome(t)
	t.Setenv("GNKREPORT_REPORT_NO_PROGRESS", "true")
	t.Setenv("GNKREPORT_JOBS_NUMBER", "2")
	t.Cleanup(func() { cfg = nil })

	dir := t.TempDir()
	tax := iotesting.WriteFile(t, filepath.Join(dir, "ktaxonomy.tsv"),
		iotesting.MinimalTaxonomy)
	inDir := filepath.Join(dir, "kraken")
	iotesting.WriteFile(t, filepath.Join(inDir, "s1.kraken"),
		iotesting.MinimalClassification)
	outDir := filepath.Join(dir, "reports")

	cmd := getRootCmd()
	cmd.SetArgs([]string{
		"kreport", "-t", tax, "--input-dir", inDir, "--output-dir", outDir,
	})
	require.NoError(t, cmd.Execute())

	res := iotesting.ReadFile(t, filepath.Join(outDir, "s1_kreport.txt"))
	assert.Equal(t, iotesting.MinimalReport, res)

	assert.FileExists(t, config.ConfigFilePath(home))
	assert.FileExists(t, filepath.Join(config.LogDir(home), iologger.LogFile))
	assert.Equal(t, home, cfg.HomeDir)
	assert.Equal(t, 2, cfg.JobsNumber)
	assert.True(t, cfg.Report.NoProgress)
}
