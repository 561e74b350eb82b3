package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"brufmt/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show brufmt build information",
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().Bool("full", false, "include commit hash and build date")
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	if _, err := applyColorMode(cmd); err != nil {
		return err
	}
	full, err := cmd.Flags().GetBool("full")
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}

	payload := versionPayload{Tool: "brufmt", Version: strings.TrimSpace(version.Version)}
	if payload.Version == "" {
		payload.Version = "dev"
	}
	if full {
		payload.GitCommit = valueOrUnknown(version.GitCommit)
		payload.BuildDate = valueOrUnknown(version.BuildDate)
	}

	switch strings.ToLower(format) {
	case "pretty":
		renderVersionPretty(cmd.OutOrStdout(), full)
		return nil
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}

func renderVersionPretty(out io.Writer, full bool) {
	if full {
		fmt.Fprintln(out, version.Line())
		return
	}
	fmt.Fprintf(out, "brufmt %s\n", version.Colored())
}

func valueOrUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	return s
}
