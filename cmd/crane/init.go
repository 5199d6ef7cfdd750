package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"crane/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create a crane.toml manifest",
	Long: `Init writes a crane.toml manifest into [path] (the current directory by
default), creating the directory when it does not exist.`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{skipManifest: "true"},
	RunE:        runInit,
}

func init() {
	initCmd.Flags().String("name", "", "package name (defaults to the directory name)")
}

func runInit(cmd *cobra.Command, args []string) error {
	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return fmt.Errorf("failed to get name flag: %w", err)
	}
	target := "."
	if len(args) > 0 && args[0] != "" {
		target = args[0]
	}
	target, err = filepath.Abs(target)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("failed to create %q: %w", target, err)
	}
	path, err := project.Init(target, name)
	if err != nil {
		return err
	}
	if !current.quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
	}
	return nil
}
