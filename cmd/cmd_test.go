package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tmInput = "Gebietsmittel Lufttemperatur\n" +
	"Jahr;Brandenburg/Berlin;Thueringen/Sachsen-Anhalt;Niedersachsen/Hamburg/Bremen;Einheit;\n" +
	"1991;9.1;8.2;9.3;Grad C;\n" +
	"1992;10.0;9.0;9.9;Grad C;\n"

const tmOutput = "Jahr,Berlin,Hamburg,Bremen\r\n" +
	"1991,9.1,9.3,9.3\r\n" +
	"1992,10.0,9.9,9.9\r\n"

// execute runs the root command against an in-memory filesystem.
func execute(t *testing.T, memFs afero.Fs, args ...string) (string, string, error) {
	t.Helper()

	previous := appFs
	appFs = memFs
	t.Cleanup(func() { appFs = previous })

	for _, c := range []*cobra.Command{rootCmd, convertCmd, statsCmd} {
		resetFlags(c.Flags())
		resetFlags(c.PersistentFlags())
	}

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func resetFlags(flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

func TestRoot_ConvertsConfiguredStems(t *testing.T) {
	memFs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memFs, filepath.Join("data", "regional_averages_tm_year.txt"), []byte(tmInput), 0o644))
	require.NoError(t, afero.WriteFile(memFs, "climatecsv.yaml", []byte("input_dir: data\nstems: [regional_averages_tm_year]\n"), 0o644))

	_, stderr, err := execute(t, memFs, "--config", "climatecsv.yaml")
	require.NoError(t, err)

	content, err := afero.ReadFile(memFs, filepath.Join("data", "regional_averages_tm_year.csv"))
	require.NoError(t, err)
	assert.Equal(t, tmOutput, string(content))
	assert.Contains(t, stderr, "converted 1 of 1 file(s)")
}

func TestConvert_ArgsAndFlags(t *testing.T) {
	memFs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memFs, filepath.Join("in", "tm.txt"), []byte(tmInput), 0o644))

	_, _, err := execute(t, memFs, "convert", "--input-dir", "in", "--output-dir", "out", "--xlsx", "tm")
	require.NoError(t, err)

	content, err := afero.ReadFile(memFs, filepath.Join("out", "tm.csv"))
	require.NoError(t, err)
	assert.Equal(t, tmOutput, string(content))

	exists, err := afero.Exists(memFs, filepath.Join("out", "tm.xlsx"))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestConvert_MissingFileFails(t *testing.T) {
	memFs := afero.NewMemMapFs()

	_, _, err := execute(t, memFs, "convert", "--input-dir", "in", "regional_averages_rr_year")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "regional_averages_rr_year")
}

func TestConvert_DryRun(t *testing.T) {
	memFs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memFs, filepath.Join("in", "tm.txt"), []byte(tmInput), 0o644))

	_, _, err := execute(t, memFs, "convert", "--input-dir", "in", "--dry-run", "tm")
	require.NoError(t, err)

	exists, err := afero.Exists(memFs, filepath.Join("in", "tm.csv"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestConvert_InvalidConcurrency(t *testing.T) {
	_, _, err := execute(t, afero.NewMemMapFs(), "convert", "--concurrency", "0", "tm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--concurrency")
}

func TestStats(t *testing.T) {
	memFs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memFs, filepath.Join("in", "tm.txt"), []byte(tmInput), 0o644))

	stdout, _, err := execute(t, memFs, "stats", "--input-dir", "in", "tm")
	require.NoError(t, err)

	assert.Contains(t, stdout, "tm (1991-1992)")
	assert.Contains(t, stdout, "Region")
	assert.Regexp(t, `Berlin\s+2\s+9\.10\s+10\.00\s+9\.55\s+0\.45`, stdout)
	assert.Regexp(t, `Bremen\s+2\s+9\.30\s+9\.90\s+9\.60\s+0\.30`, stdout)

	exists, err := afero.Exists(memFs, filepath.Join("in", "tm.csv"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, afero.NewMemMapFs(), "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Version:    "+Version)
}
