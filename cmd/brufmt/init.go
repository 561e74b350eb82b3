package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"brufmt/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a brufmt.toml with the default settings",
	Long: `Write a brufmt.toml holding the default settings into dir (the current
directory when omitted). The directory is created when it does not exist; an
existing brufmt.toml is never overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) > 0 && args[0] != "" {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	path, err := config.WriteDefault(target)
	if err != nil {
		if errors.Is(err, config.ErrExists) {
			return fmt.Errorf("already initialized: %s exists", path)
		}
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", displayPath(path, ""))
	return nil
}
