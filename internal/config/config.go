// Package config loads brufmt settings from brufmt.toml or a .prettifybrurc
// file found in the working directory or one of its parents.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"brufmt/internal/pipeline"
	"brufmt/internal/prettier"
)

// FileName is the native config file name written by "brufmt init".
const FileName = "brufmt.toml"

// Candidates lists the recognized config file names in priority order.
var Candidates = []string{
	FileName,
	".prettifybrurc",
	".prettifybrurc.json",
	".prettifybrurc.yaml",
	".prettifybrurc.yml",
}

// ErrInvalidConfig reports a config document of the wrong shape.
var ErrInvalidConfig = errors.New("invalid configuration")

// DefaultTimeout bounds one call of the external prettier command.
const DefaultTimeout = 30 * time.Second

// Formatter selects the backend that formats block bodies.
type Formatter struct {
	Backend prettier.Backend
	Command []string
	Bundle  []string // resolved against the config file directory
	Timeout time.Duration
}

// Config is the effective configuration of a run.
type Config struct {
	Path              string // empty when no file was found
	Prettier          prettier.Options
	AgnosticFilePaths bool
	ShortenGetters    bool
	Formatter         Formatter
	Cache             bool
	Jobs              int
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Prettier: prettier.DefaultOptions(),
		Formatter: Formatter{
			Backend: prettier.BackendAuto,
			Command: append([]string(nil), prettier.DefaultCommand...),
			Timeout: DefaultTimeout,
		},
		Cache: true,
		Jobs:  runtime.GOMAXPROCS(0),
	}
}

// Pipeline returns the pipeline configuration.
func (c Config) Pipeline() pipeline.Config {
	return pipeline.Config{
		AgnosticFilePaths: c.AgnosticFilePaths,
		ShortenGetters:    c.ShortenGetters,
		FormatterOptions:  c.Prettier.Clone(),
	}
}

// FormatterSettings returns the settings for prettier.Build.
func (c Config) FormatterSettings() prettier.Settings {
	return prettier.Settings{
		Backend: c.Formatter.Backend,
		Command: c.Formatter.Command,
		Bundle:  c.Formatter.Bundle,
		Timeout: c.Formatter.Timeout,
	}
}

// Find walks up from startDir to locate the nearest config file.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range Candidates {
			candidate := filepath.Join(dir, name)
			info, err := os.Stat(candidate)
			if err == nil && !info.IsDir() {
				return candidate, true, nil
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}
