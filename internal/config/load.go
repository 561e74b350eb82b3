package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"brufmt/internal/diag"
	"brufmt/internal/prettier"
)

// Discover loads the nearest config file above startDir, or returns Default
// when there is none.
func Discover(startDir string, r diag.Reporter) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path, r)
}

// Load reads the config file at path. Unknown keys are reported to r as
// warnings; values of the wrong type fail with ErrInvalidConfig.
func Load(path string, r diag.Reporter) (Config, error) {
	if r == nil {
		r = diag.NopReporter{}
	}
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	raw, err := decode(path, data)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	cfg.Path = path
	if err := apply(&cfg, raw, path, r); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(path string, data []byte) (map[string]any, error) {
	var raw map[string]any
	switch {
	case filepath.Base(path) == FileName || filepath.Ext(path) == ".toml":
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
	case strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml"):
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
		}
		if doc == nil {
			return map[string]any{}, nil
		}
		m, ok := doc.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: %w: the document is not an object", path, ErrInvalidConfig)
		}
		raw = m
	default:
		if len(bytes.TrimSpace(data)) == 0 {
			return map[string]any{}, nil
		}
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%s: failed to parse JSON: %w", path, err)
		}
		m, ok := doc.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: %w: the JSON is not an object", path, ErrInvalidConfig)
		}
		raw = m
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

func apply(cfg *Config, raw map[string]any, path string, r diag.Reporter) error {
	loc := diag.Location{Path: path}
	invalid := func(key, want string, v any) error {
		return fmt.Errorf("%s: %w: %s must be %s, got %T", path, ErrInvalidConfig, key, want, v)
	}

	for _, key := range sortedKeys(raw) {
		v := raw[key]
		switch key {
		case "prettier":
			m, ok := v.(map[string]any)
			if !ok {
				return invalid(key, "an object", v)
			}
			cfg.Prettier = cfg.Prettier.Merge(normalizeOptions(m))
		case "agnosticFilePaths":
			b, ok := v.(bool)
			if !ok {
				return invalid(key, "a boolean", v)
			}
			cfg.AgnosticFilePaths = b
		case "shortenGetters":
			b, ok := v.(bool)
			if !ok {
				return invalid(key, "a boolean", v)
			}
			cfg.ShortenGetters = b
		case "cache":
			b, ok := v.(bool)
			if !ok {
				return invalid(key, "a boolean", v)
			}
			cfg.Cache = b
		case "jobs":
			n, ok := toInt(v)
			if !ok || n < 0 {
				return invalid(key, "a non-negative integer", v)
			}
			if n > 0 {
				cfg.Jobs = n
			}
		case "formatter":
			m, ok := v.(map[string]any)
			if !ok {
				return invalid(key, "an object", v)
			}
			if err := applyFormatter(&cfg.Formatter, m, path, r); err != nil {
				return err
			}
		default:
			r.Report(diag.NewWarning(diag.CfgUnknownKey, loc,
				fmt.Sprintf("%s is not a supported property", key)))
		}
	}
	return nil
}

func applyFormatter(f *Formatter, raw map[string]any, path string, r diag.Reporter) error {
	invalid := func(key, want string, v any) error {
		return fmt.Errorf("%s: %w: formatter.%s must be %s, got %T", path, ErrInvalidConfig, key, want, v)
	}
	for _, key := range sortedKeys(raw) {
		v := raw[key]
		switch key {
		case "backend":
			s, ok := v.(string)
			if !ok {
				return invalid(key, "a string", v)
			}
			b, err := prettier.ParseBackend(s)
			if err != nil {
				return fmt.Errorf("%s: %w: %v", path, ErrInvalidConfig, err)
			}
			f.Backend = b
		case "command":
			cmd, ok := toStrings(v)
			if !ok || len(cmd) == 0 {
				return invalid(key, "a non-empty list of strings", v)
			}
			f.Command = cmd
		case "bundle":
			files, ok := toStrings(v)
			if !ok {
				return invalid(key, "a list of strings", v)
			}
			base := filepath.Dir(path)
			for i, p := range files {
				if !filepath.IsAbs(p) {
					files[i] = filepath.Join(base, p)
				}
			}
			f.Bundle = files
		case "timeout":
			d, ok := toDuration(v)
			if !ok || d <= 0 {
				return invalid(key, "a positive duration such as \"30s\"", v)
			}
			f.Timeout = d
		default:
			r.Report(diag.NewWarning(diag.CfgUnknownKey, diag.Location{Path: path},
				fmt.Sprintf("formatter.%s is not a supported property", key)))
		}
	}
	return nil
}

// normalizeOptions turns decoder-specific number types into int where the
// value is integral, so options compare equal regardless of file format.
func normalizeOptions(m map[string]any) prettier.Options {
	out := make(prettier.Options, len(m))
	for k, v := range m {
		if n, ok := toInt(v); ok {
			out[k] = n
			continue
		}
		out[k] = v
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func toInt(v any) (int, bool) {
	var (
		n   int
		err error
	)
	switch v := v.(type) {
	case int:
		return v, true
	case int64:
		n, err = safecast.Conv[int](v)
	case uint64:
		n, err = safecast.Conv[int](v)
	case float64:
		n, err = safecast.Convert[int](v)
	default:
		return 0, false
	}
	return n, err == nil
}

func toStrings(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...), true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	case string:
		return strings.Fields(list), true
	}
	return nil, false
}

func toDuration(v any) (time.Duration, bool) {
	switch d := v.(type) {
	case string:
		parsed, err := time.ParseDuration(d)
		return parsed, err == nil
	case time.Duration:
		return d, true
	}
	if secs, ok := toInt(v); ok {
		return time.Duration(secs) * time.Second, true
	}
	return 0, false
}
