package driver

import (
	"strings"

	"brufmt/internal/cache"
	"brufmt/internal/pipeline"
	"brufmt/internal/prettier"
	"brufmt/internal/version"
)

// SettingsDigest identifies everything besides file content that can change
// the output of a run. Cached results are only reused under an equal digest.
func SettingsDigest(cfg pipeline.Config, only string, fs prettier.Settings) cache.Digest {
	opts := map[string]any(cfg.FormatterOptions)
	if opts == nil {
		opts = map[string]any(prettier.DefaultOptions())
	}
	return cache.Settings(map[string]any{
		"version":           version.Version,
		"only":              only,
		"agnosticFilePaths": cfg.AgnosticFilePaths,
		"shortenGetters":    cfg.ShortenGetters,
		"prettier":          opts,
		"backend":           string(fs.Backend),
		"command":           strings.Join(fs.Command, " "),
		"bundle":            fs.Bundle,
	})
}
