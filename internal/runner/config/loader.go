// Package config loads test suite documents and runner settings. Suite
// documents are XML and are validated strictly: every problem in a file is
// collected and reported together, and a suite with any problem is never run.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/antchfx/xmlquery"
	"github.com/isseis/go-safe-cmd-tester/internal/common"
	"github.com/isseis/go-safe-cmd-tester/internal/runner/runnertypes"
)

// Loader handles loading and validating suite documents
type Loader struct {
	fs common.FileSystem
}

// NewLoader creates a new suite loader
func NewLoader() *Loader {
	return NewLoaderWithFS(common.NewDefaultFileSystem())
}

// NewLoaderWithFS creates a new suite loader with a custom FileSystem
func NewLoaderWithFS(fs common.FileSystem) *Loader {
	return &Loader{
		fs: fs,
	}
}

// LoadSuite reads and validates one suite file. Any failure is returned as
// a *runnertypes.SuiteLoadError.
func (l *Loader) LoadSuite(path string) (*runnertypes.Suite, error) {
	content, err := l.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %s", runnertypes.ErrSuiteNotFound, path)
		}
		return nil, &runnertypes.SuiteLoadError{Path: path, Problems: []error{err}}
	}

	suite, err := ParseSuite(path, content)
	if err != nil {
		return nil, err
	}
	slog.Debug("Suite loaded", "path", path, "description", suite.Description, "cases", len(suite.Cases))
	return suite, nil
}

// LoadSuites loads every path in order. Suites that fail to load are
// reported in the second return value and omitted from the first.
func (l *Loader) LoadSuites(paths []string) ([]*runnertypes.Suite, []*runnertypes.SuiteLoadError) {
	var suites []*runnertypes.Suite
	var loadErrs []*runnertypes.SuiteLoadError

	for _, path := range paths {
		suite, err := l.LoadSuite(path)
		if err != nil {
			var loadErr *runnertypes.SuiteLoadError
			if !errors.As(err, &loadErr) {
				loadErr = &runnertypes.SuiteLoadError{Path: path, Problems: []error{err}}
			}
			slog.Warn("Suite failed to load", "path", path, "problems", len(loadErr.Problems))
			loadErrs = append(loadErrs, loadErr)
			continue
		}
		suites = append(suites, suite)
	}
	return suites, loadErrs
}

// ParseSuite parses and validates a suite document. path is recorded on the
// suite and used as its description when the document declares none.
func ParseSuite(path string, content []byte) (*runnertypes.Suite, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, &runnertypes.SuiteLoadError{
			Path:     path,
			Problems: []error{fmt.Errorf("%w: %v", runnertypes.ErrMalformedDocument, err)},
		}
	}

	roots := childElements(doc)
	if len(roots) != 1 {
		return nil, &runnertypes.SuiteLoadError{
			Path:     path,
			Problems: []error{fmt.Errorf("%w: expected exactly one root element, found %d", runnertypes.ErrMalformedDocument, len(roots))},
		}
	}
	if roots[0].Data != elemSuite {
		return nil, &runnertypes.SuiteLoadError{
			Path:     path,
			Problems: []error{fmt.Errorf("%w: expected <%s>, found <%s>", runnertypes.ErrInvalidRoot, elemSuite, roots[0].Data)},
		}
	}

	d := &suiteDecoder{}
	suite := d.decodeSuite(roots[0])
	if len(d.problems) > 0 {
		return nil, &runnertypes.SuiteLoadError{Path: path, Problems: d.problems}
	}

	suite.Path = path
	if suite.Description == "" {
		suite.Description = path
	}
	return suite, nil
}
