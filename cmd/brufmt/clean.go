package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"brufmt/internal/cache"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the cache of files known to be formatted",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, _ []string) error {
	dc, err := cache.Open(cacheApp)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	if err := dc.DropAll(); err != nil {
		return fmt.Errorf("failed to remove %q: %w", dc.Dir(), err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", dc.Dir())
	return nil
}
