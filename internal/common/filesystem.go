// Package common provides shared interfaces and utilities used across the runner packages.
//
//nolint:revive // var-naming: package name "common" is intentional for shared internal utilities
package common

import (
	"errors"
	"os"
)

// Error definitions for static error handling
var (
	ErrEmptyPath = errors.New("path cannot be empty")
)

// FileSystem defines the file system operations the runner needs.
// This interface allows for easy mocking in tests.
type FileSystem interface {
	// ReadFile returns the content of the named file
	ReadFile(path string) ([]byte, error)

	// FileExists checks if a file or directory exists (symlinks are followed)
	FileExists(path string) (bool, error)

	// IsDir checks if the path is a directory (symlinks are followed)
	IsDir(path string) (bool, error)

	// Getwd returns the working directory of the invoking process
	Getwd() (string, error)
}

// DefaultFileSystem implements FileSystem using standard os package functions
type DefaultFileSystem struct{}

// NewDefaultFileSystem creates a new DefaultFileSystem
func NewDefaultFileSystem() *DefaultFileSystem {
	return &DefaultFileSystem{}
}

// ReadFile returns the content of the named file
func (fs *DefaultFileSystem) ReadFile(path string) ([]byte, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	return os.ReadFile(path) // #nosec G304 - suite paths are supplied by the invoking user
}

// FileExists checks if a file or directory exists
func (fs *DefaultFileSystem) FileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// IsDir checks if the path is a directory
func (fs *DefaultFileSystem) IsDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

// Getwd returns the working directory of the invoking process
func (fs *DefaultFileSystem) Getwd() (string, error) {
	return os.Getwd()
}
