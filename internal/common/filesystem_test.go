//nolint:revive // common is an appropriate name for shared utilities package
package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFileSystem_FileExists(t *testing.T) {
	fs := NewDefaultFileSystem()

	exists, err := fs.FileExists("/non/existent/path")
	assert.NoError(t, err, "FileExists failed for non-existent path")
	assert.False(t, exists, "Non-existent file reported as existing")

	tempDir := t.TempDir()
	exists, err = fs.FileExists(tempDir)
	assert.NoError(t, err, "FileExists failed for existing path")
	assert.True(t, exists, "Existing directory reported as non-existent")
}

func TestDefaultFileSystem_IsDir(t *testing.T) {
	fs := NewDefaultFileSystem()
	tempDir := t.TempDir()
	file := filepath.Join(tempDir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	isDir, err := fs.IsDir(tempDir)
	require.NoError(t, err)
	assert.True(t, isDir)

	isDir, err = fs.IsDir(file)
	require.NoError(t, err)
	assert.False(t, isDir)

	_, err = fs.IsDir(filepath.Join(tempDir, "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefaultFileSystem_ReadFile(t *testing.T) {
	fs := NewDefaultFileSystem()

	_, err := fs.ReadFile("")
	assert.ErrorIs(t, err, ErrEmptyPath)

	file := filepath.Join(t.TempDir(), "suite.xml")
	require.NoError(t, os.WriteFile(file, []byte("<test-suite/>"), 0o600))
	content, err := fs.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "<test-suite/>", string(content))
}

func TestMockFileSystem(t *testing.T) {
	fs := NewMockFileSystem()
	fs.AddFile("/suites/a.xml", []byte("content"))
	fs.AddDir("/work/dir")

	isDir, err := fs.IsDir("/suites")
	require.NoError(t, err)
	assert.True(t, isDir)

	isDir, err = fs.IsDir("/work/dir")
	require.NoError(t, err)
	assert.True(t, isDir)

	_, err = fs.IsDir("/missing")
	assert.ErrorIs(t, err, os.ErrNotExist)

	content, err := fs.ReadFile("/suites/a.xml")
	require.NoError(t, err)
	assert.Equal(t, "content", string(content))

	_, err = fs.ReadFile("/suites/b.xml")
	assert.ErrorIs(t, err, os.ErrNotExist)

	wd, err := fs.Getwd()
	require.NoError(t, err)
	assert.Equal(t, "/", wd)
}
