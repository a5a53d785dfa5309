package utils

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileManager_Paths(t *testing.T) {
	fm := NewFileManager(afero.NewMemMapFs(), "data", "out")

	assert.Equal(t, filepath.Join("data", "regional_averages_tm_year.txt"), fm.InputPath("regional_averages_tm_year"))
	assert.Equal(t, filepath.Join("out", "regional_averages_tm_year.csv"), fm.OutputPath("regional_averages_tm_year", CSVExt))
	assert.Equal(t, filepath.Join("out", "regional_averages_tm_year.xlsx"), fm.OutputPath("regional_averages_tm_year", XLSXExt))
}

func TestFileManager_OpenMissing(t *testing.T) {
	fm := NewFileManager(afero.NewMemMapFs(), "data", "data")

	_, err := fm.Open("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestWriteFileAtomic(t *testing.T) {
	memFs := afero.NewMemMapFs()
	require.NoError(t, memFs.MkdirAll("out", 0o755))
	path := filepath.Join("out", "a.csv")

	require.NoError(t, WriteFileAtomic(memFs, path, []byte("first")))
	require.NoError(t, WriteFileAtomic(memFs, path, []byte("second")))

	content, err := afero.ReadFile(memFs, path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(content))

	// Only the destination remains, no temp files.
	entries, err := afero.ReadDir(memFs, "out")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.csv", entries[0].Name())
}

func TestWriteFileAtomic_ReadOnlyFs(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(base, "a.csv", []byte("keep"), 0o644))
	readOnly := afero.NewReadOnlyFs(base)

	err := WriteFileAtomic(readOnly, "a.csv", []byte("replace"))
	require.Error(t, err)

	content, err := afero.ReadFile(base, "a.csv")
	require.NoError(t, err)
	assert.Equal(t, "keep", string(content))
}

func TestFileExists(t *testing.T) {
	memFs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memFs, "x.txt", nil, 0o644))

	assert.True(t, FileExists(memFs, "x.txt"))
	assert.False(t, FileExists(memFs, "y.txt"))
}
