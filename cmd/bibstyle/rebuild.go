package main

import (
	"fmt"
	"os"

	"github.com/matsen/bibstyle/internal/config"
	"github.com/matsen/bibstyle/internal/storage"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild [files...]",
	Short: "Rebuild the record index from .bib files",
	Long: `Parse .bib files and rebuild the SQLite record index.

Without file arguments the project's configured bib files are used.
The parsed records are also written to .bibstyle/cache/records.jsonl.`,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status     string   `json:"status"`
	Records    int      `json:"records"`
	Duplicates []string `json:"duplicates,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	root := mustFindProject()
	_, paths := resolveInputs(args)
	bib := mustParseBibFiles(paths)

	if err := os.MkdirAll(config.CachePath(root), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}

	snapshot := config.SnapshotPath(root)
	if err := storage.WriteAll(snapshot, bib.Records); err != nil {
		exitWithError(ExitError, "writing snapshot: %v", err)
	}

	db, err := storage.OpenDB(config.DBPath(root))
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	defer db.Close()

	count, err := db.RebuildFromJSONL(snapshot)
	if err != nil {
		exitWithError(ExitDataError, "rebuilding database: %v", err)
	}
	log.Infof("indexed %d records from %d files", count, len(paths))

	if humanOutput {
		fmt.Printf("Rebuilt record index with %d records\n", count)
		for _, key := range bib.Duplicates {
			fmt.Printf("  skipped duplicate: %s\n", key)
		}
		return nil
	}
	return outputJSON(RebuildResult{
		Status:     "rebuilt",
		Records:    count,
		Duplicates: bib.Duplicates,
		Warnings:   bib.Warnings,
	})
}
