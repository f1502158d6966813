package main

import (
	"fmt"
	"os"

	"github.com/matsen/bibstyle/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [files...]",
	Short: "Initialize a bibstyle project",
	Long: `Initialize a bibstyle project in the current directory.

Creates:
  .bibstyle/
  ├── config.yml      # Style, backend, and bib files
  └── cache/          # Parsed records and SQLite index (gitignored)`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root, exitCode := getStartingDirectory()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	if config.IsProject(root) {
		exitWithError(ExitError, "directory already contains a bibstyle project")
	}

	cfg, err := config.Init(root, args)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if err := cfg.ValidateBibFiles(root); err != nil {
		log.Warningf("%v", err)
	}

	if humanOutput {
		fmt.Printf("Initialized bibstyle project in %s\n", config.ProjectPath(root))
		return nil
	}
	return outputJSON(StatusResponse{
		Status: "initialized",
		Path:   config.ProjectPath(root),
	})
}
