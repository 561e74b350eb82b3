package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"brufmt/internal/config"
	"brufmt/internal/diag"
	"brufmt/internal/prettier"
)

// discoveryDir returns where config discovery starts for the given paths.
func discoveryDir(paths []string) string {
	if len(paths) == 0 || paths[0] == "-" {
		return "."
	}
	info, err := os.Stat(paths[0])
	if err != nil || info.IsDir() {
		return paths[0]
	}
	return filepath.Dir(paths[0])
}

// loadConfig reads --config or discovers a config file, then applies the
// fmt flags that were set on the command line.
func loadConfig(cmd *cobra.Command, paths []string, r diag.Reporter) (config.Config, error) {
	flags := cmd.Flags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	var cfg config.Config
	if configPath != "" {
		cfg, err = config.Load(configPath, r)
	} else {
		cfg, err = config.Discover(discoveryDir(paths), r)
	}
	if err != nil {
		return config.Config{}, err
	}

	if flags.Changed("agnostic-file-paths") {
		if cfg.AgnosticFilePaths, err = flags.GetBool("agnostic-file-paths"); err != nil {
			return config.Config{}, err
		}
	}
	if flags.Changed("shorten-getters") {
		if cfg.ShortenGetters, err = flags.GetBool("shorten-getters"); err != nil {
			return config.Config{}, err
		}
	}
	if flags.Changed("backend") {
		value, err := flags.GetString("backend")
		if err != nil {
			return config.Config{}, err
		}
		if cfg.Formatter.Backend, err = prettier.ParseBackend(value); err != nil {
			return config.Config{}, err
		}
	}
	if flags.Changed("jobs") {
		jobs, err := flags.GetInt("jobs")
		if err != nil {
			return config.Config{}, err
		}
		if jobs > 0 {
			cfg.Jobs = jobs
		}
	}
	noCache, err := flags.GetBool("no-cache")
	if err != nil {
		return config.Config{}, err
	}
	if noCache {
		cfg.Cache = false
	}
	return cfg, nil
}
