package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"brufmt/internal/prettier"
)

// ErrExists is returned by WriteDefault when the target already exists.
var ErrExists = errors.New("config file already exists")

// WriteDefault writes a brufmt.toml holding the default settings into dir.
func WriteDefault(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("%s: %w", path, ErrExists)
	}

	data := map[string]any{
		"agnosticFilePaths": false,
		"shortenGetters":    false,
		"cache":             true,
		"prettier":          map[string]any(prettier.DefaultOptions()),
		"formatter": map[string]any{
			"backend": string(prettier.BackendAuto),
			"command": prettier.DefaultCommand,
			"timeout": DefaultTimeout.String(),
		},
	}

	var buf bytes.Buffer
	buf.WriteString("# brufmt settings, see `brufmt fmt --help`.\n")
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(data); err != nil {
		return "", fmt.Errorf("%s: failed to encode TOML: %w", path, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
