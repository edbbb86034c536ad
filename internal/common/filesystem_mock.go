package common

import (
	"fmt"
	"io/fs"
	"path/filepath"
)

// MockFileSystem implements FileSystem for testing
type MockFileSystem struct {
	files map[string][]byte
	dirs  map[string]bool
	wd    string
}

// NewMockFileSystem creates an empty MockFileSystem whose working directory is "/".
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		files: make(map[string][]byte),
		dirs:  map[string]bool{"/": true},
		wd:    "/",
	}
}

// AddFile registers a file and its parent directories.
func (m *MockFileSystem) AddFile(path string, content []byte) {
	m.files[filepath.Clean(path)] = content
	m.AddDir(filepath.Dir(path))
}

// AddDir registers a directory and its parents.
func (m *MockFileSystem) AddDir(path string) {
	for p := filepath.Clean(path); ; p = filepath.Dir(p) {
		m.dirs[p] = true
		if p == filepath.Dir(p) {
			return
		}
	}
}

// SetWd sets the directory returned by Getwd.
func (m *MockFileSystem) SetWd(path string) {
	m.wd = path
}

// ReadFile returns the registered content of path
func (m *MockFileSystem) ReadFile(path string) ([]byte, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	content, ok := m.files[filepath.Clean(path)]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, fs.ErrNotExist)
	}
	return content, nil
}

// FileExists checks if a file or directory was registered
func (m *MockFileSystem) FileExists(path string) (bool, error) {
	p := filepath.Clean(path)
	_, isFile := m.files[p]
	return isFile || m.dirs[p], nil
}

// IsDir checks if path was registered as a directory
func (m *MockFileSystem) IsDir(path string) (bool, error) {
	p := filepath.Clean(path)
	if m.dirs[p] {
		return true, nil
	}
	if _, ok := m.files[p]; ok {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", path, fs.ErrNotExist)
}

// Getwd returns the configured working directory
func (m *MockFileSystem) Getwd() (string, error) {
	return m.wd, nil
}
