package converter

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ginjaninja78/regional-climate-csv/internal/config"
	"github.com/ginjaninja78/regional-climate-csv/internal/remapper"
	"github.com/ginjaninja78/regional-climate-csv/pkg/utils"
)

const scenarioInput = "TITLE LINE\n" +
	"Jahr;Brandenburg/Berlin;Thueringen/Sachsen-Anhalt;Niedersachsen/Hamburg/Bremen;extra;blank\n" +
	"1991;1.1;2.2;3.3;X;\n"

const scenarioOutput = "Jahr,Berlin,Hamburg,Bremen\r\n" +
	"1991,1.1,3.3,3.3\r\n"

type fixture struct {
	fs     afero.Fs
	cfg    *config.Config
	logs   *observer.ObservedLogs
	logger *zap.SugaredLogger
}

func newFixture(t *testing.T, inputs map[string]string) *fixture {
	t.Helper()

	memFs := afero.NewMemMapFs()
	for stem, content := range inputs {
		require.NoError(t, afero.WriteFile(memFs, filepath.Join("data", stem+".txt"), []byte(content), 0o644))
	}

	cfg := config.Default()
	cfg.InputDir = "data"

	core, logs := observer.New(zapcore.DebugLevel)

	return &fixture{
		fs:     memFs,
		cfg:    cfg,
		logs:   logs,
		logger: zap.New(core).Sugar(),
	}
}

func (f *fixture) converter(opts ...Option) *Converter {
	files := utils.NewFileManager(f.fs, f.cfg.InputDir, f.cfg.OutputDirectory())
	return New(f.cfg, files, f.logger, opts...)
}

func (f *fixture) read(t *testing.T, path string) string {
	t.Helper()
	content, err := afero.ReadFile(f.fs, path)
	require.NoError(t, err)
	return string(content)
}

func TestConvert_Scenario(t *testing.T) {
	f := newFixture(t, map[string]string{"scenario": scenarioInput})

	result := f.converter().Convert("scenario")
	require.NoError(t, result.Error)

	outPath := filepath.Join("data", "scenario.csv")
	assert.Equal(t, []string{outPath}, result.OutputFiles)
	assert.Equal(t, scenarioOutput, f.read(t, outPath))
	assert.Equal(t, 1, result.Stats.RowsConverted)
	assert.Equal(t, 4, result.Stats.InputColumns)
	assert.Equal(t, 4, result.Stats.OutputColumns)
	assert.Equal(t, 1, f.logs.FilterLevelExact(zapcore.InfoLevel).Len())
}

func TestConvert_Idempotent(t *testing.T) {
	f := newFixture(t, map[string]string{"scenario": scenarioInput})
	conv := f.converter()

	require.NoError(t, conv.Convert("scenario").Error)
	first := f.read(t, filepath.Join("data", "scenario.csv"))

	require.NoError(t, conv.Convert("scenario").Error)
	second := f.read(t, filepath.Join("data", "scenario.csv"))

	assert.Equal(t, first, second)
}

func TestConvert_SeparateOutputDirAndXLSX(t *testing.T) {
	f := newFixture(t, map[string]string{"scenario": scenarioInput})
	f.cfg.OutputDir = "out"
	f.cfg.ExportXLSX = true

	result := f.converter().Convert("scenario")
	require.NoError(t, result.Error)

	assert.Equal(t, []string{
		filepath.Join("out", "scenario.csv"),
		filepath.Join("out", "scenario.xlsx"),
	}, result.OutputFiles)
	assert.Equal(t, scenarioOutput, f.read(t, filepath.Join("out", "scenario.csv")))
	assert.True(t, utils.FileExists(f.fs, filepath.Join("out", "scenario.xlsx")))
}

func TestConvert_DryRunWritesNothing(t *testing.T) {
	f := newFixture(t, map[string]string{"scenario": scenarioInput})

	result := f.converter(WithDryRun(true)).Convert("scenario")
	require.NoError(t, result.Error)

	assert.Empty(t, result.OutputFiles)
	assert.Equal(t, 1, result.Stats.RowsConverted)
	assert.False(t, utils.FileExists(f.fs, filepath.Join("data", "scenario.csv")))
}

func TestConvert_MissingInput(t *testing.T) {
	f := newFixture(t, nil)

	result := f.converter().Convert("regional_averages_rr_year")

	require.Error(t, result.Error)
	assert.False(t, result.Success())
	assert.True(t, errors.Is(result.Error, fs.ErrNotExist))
	assert.Contains(t, result.Error.Error(), "regional_averages_rr_year")
}

func TestConvert_BadCellLeavesNoOutput(t *testing.T) {
	f := newFixture(t, map[string]string{
		"broken": "TITLE\nJahr;Bayern;u;\n1991;1.0;u;\n1992;oops;u;\n",
	})

	result := f.converter().Convert("broken")

	var cellErr *remapper.CellError
	require.ErrorAs(t, result.Error, &cellErr)
	assert.Equal(t, 4, cellErr.Line)
	assert.Equal(t, "Bayern", cellErr.Column)
	assert.False(t, utils.FileExists(f.fs, filepath.Join("data", "broken.csv")))

	entries, err := afero.ReadDir(f.fs, "data")
	require.NoError(t, err)
	assert.Len(t, entries, 1, "only the input file remains")
}

func TestConvert_BadCellKeepsPreviousOutput(t *testing.T) {
	f := newFixture(t, map[string]string{
		"broken": "TITLE\nJahr;Bayern;u;\n1992;oops;u;\n",
	})
	previous := filepath.Join("data", "broken.csv")
	require.NoError(t, afero.WriteFile(f.fs, previous, []byte("old"), 0o644))

	result := f.converter().Convert("broken")
	require.Error(t, result.Error)

	assert.Equal(t, "old", f.read(t, previous))
}

func TestRunner_Sequential(t *testing.T) {
	f := newFixture(t, map[string]string{
		"a": scenarioInput,
		"b": scenarioInput,
	})

	results, err := NewRunner(f.converter(), 1, false).Run(context.Background(), []string{"a", "b"})
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Stem)
	assert.Equal(t, "b", results[1].Stem)
	assert.Equal(t, scenarioOutput, f.read(t, filepath.Join("data", "b.csv")))
}

func TestRunner_StopsOnFirstError(t *testing.T) {
	f := newFixture(t, map[string]string{
		"c": scenarioInput,
	})

	results, err := NewRunner(f.converter(), 1, false).Run(context.Background(), []string{"missing", "c"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	require.Len(t, results, 1)
	assert.Equal(t, "missing", results[0].Stem)
	assert.False(t, utils.FileExists(f.fs, filepath.Join("data", "c.csv")))
	assert.Equal(t, 1, f.logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestRunner_ContinueOnError(t *testing.T) {
	f := newFixture(t, map[string]string{
		"a":   scenarioInput,
		"bad": "TITLE\nJahr;Bayern;u;\nxx;1.0;u;\n",
		"c":   scenarioInput,
	})

	results, err := NewRunner(f.converter(), 2, true).Run(context.Background(), []string{"a", "missing", "bad", "c"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 4 file(s) failed")
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	require.Len(t, results, 4)
	assert.True(t, results[0].Success())
	assert.False(t, results[1].Success())
	assert.False(t, results[2].Success())
	assert.True(t, results[3].Success())
	assert.Equal(t, scenarioOutput, f.read(t, filepath.Join("data", "c.csv")))
}

func TestRunner_Parallel(t *testing.T) {
	inputs := map[string]string{}
	stems := []string{"s1", "s2", "s3", "s4", "s5"}
	for _, stem := range stems {
		inputs[stem] = scenarioInput
	}
	f := newFixture(t, inputs)

	results, err := NewRunner(f.converter(), 3, false).Run(context.Background(), stems)
	require.NoError(t, err)

	require.Len(t, results, len(stems))
	for i, stem := range stems {
		assert.Equal(t, stem, results[i].Stem)
		assert.Equal(t, scenarioOutput, f.read(t, filepath.Join("data", stem+".csv")))
	}
}

func TestRunner_CancelledContext(t *testing.T) {
	f := newFixture(t, map[string]string{"a": scenarioInput})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := NewRunner(f.converter(), 1, false).Run(ctx, []string{"a"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}
