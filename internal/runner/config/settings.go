package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"

	"github.com/isseis/go-safe-cmd-tester/internal/common"
	"github.com/isseis/go-safe-cmd-tester/internal/runner/runnertypes"
	"github.com/pelletier/go-toml/v2"
)

// DefaultSettingsFile is looked up in the working directory when no
// settings file is given explicitly.
const DefaultSettingsFile = "clitest.toml"

// Built-in defaults used when neither a flag nor the settings file sets a value
const (
	DefaultReporter = "spec"
	DefaultTimeout  = 0
)

// ErrSettingsNotFound is returned when an explicitly given settings file does not exist
var ErrSettingsNotFound = errors.New("settings file not found")

// Settings holds runner defaults read from a TOML file. Pointer fields are
// nil when the file does not set them, so command-line flags can override
// only what the user actually passed.
type Settings struct {
	Reporter       string                 `toml:"reporter"`
	DefaultTimeout *runnertypes.Duration  `toml:"default_timeout"`
	LogLevel       *runnertypes.LogLevel  `toml:"log_level"`
	Color          *runnertypes.ColorMode `toml:"color"`
	EnvFile        string                 `toml:"env_file"`
	LogDir         string                 `toml:"log_dir"`
}

// LoadSettings reads the settings file at path. An empty path looks for
// DefaultSettingsFile and yields empty Settings when it does not exist.
func LoadSettings(fs common.FileSystem, path string) (*Settings, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultSettingsFile
		exists, err := fs.FileExists(path)
		if err != nil {
			return nil, fmt.Errorf("failed to check settings file %s: %w", path, err)
		}
		if !exists {
			return &Settings{}, nil
		}
	}

	content, err := fs.ReadFile(path)
	if err != nil {
		if exists, _ := fs.FileExists(path); !exists {
			return nil, fmt.Errorf("%w: %s", ErrSettingsNotFound, path)
		}
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	settings, err := ParseSettings(content)
	if err != nil {
		return nil, fmt.Errorf("settings file %s: %w", path, err)
	}
	slog.Debug("Settings loaded", "path", path)
	return settings, nil
}

// ParseSettings decodes settings from TOML. Unknown keys are rejected.
func ParseSettings(content []byte) (*Settings, error) {
	var settings Settings
	dec := toml.NewDecoder(bytes.NewReader(content))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&settings); err != nil {
		var strictErr *toml.StrictMissingError
		if errors.As(err, &strictErr) {
			return nil, fmt.Errorf("%w: %s", runnertypes.ErrConfiguration, strictErr.String())
		}
		return nil, fmt.Errorf("%w: %w", runnertypes.ErrConfiguration, err)
	}
	return &settings, nil
}
