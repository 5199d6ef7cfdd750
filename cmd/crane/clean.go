package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"crane/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:         "clean",
	Short:       "Remove the crane parse cache",
	Long:        "Remove every entry of the on-disk parse cache used by check and parse.",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipManifest: "true"},
	RunE:        runClean,
}

func runClean(cmd *cobra.Command, _ []string) error {
	cache, err := driver.OpenDiskCache("crane")
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to clean %q: %w", cache.Dir(), err)
	}
	if !current.quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", cache.Dir())
	}
	return nil
}
