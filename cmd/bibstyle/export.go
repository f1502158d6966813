package main

import (
	"fmt"
	"strings"

	"github.com/matsen/bibstyle/internal/bibtex"
	"github.com/matsen/bibstyle/internal/reference"
	"github.com/spf13/cobra"
)

var (
	exportKeys  string
	exportJSONL bool
)

func init() {
	exportCmd.Flags().StringVar(&exportKeys, "keys", "", "Export only specified keys (comma-separated)")
	exportCmd.Flags().BoolVar(&exportJSONL, "jsonl", false, "Export one JSON record per line instead of BibTeX")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export indexed records as BibTeX",
	Long: `Export indexed records as BibTeX.

Examples:
  bibstyle export > all.bib
  bibstyle export --keys Bertin2002,Smith2020
  bibstyle export --jsonl`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	root := mustFindProject()
	db := mustOpenDatabase(root)
	defer db.Close()

	var recs []reference.Record
	if exportKeys != "" {
		for _, key := range strings.Split(exportKeys, ",") {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			rec, err := db.GetByKey(key)
			if err != nil {
				exitWithError(ExitError, "getting record %s: %v", key, err)
			}
			if rec == nil {
				exitWithError(ExitDataError, "unknown key: %s", key)
			}
			recs = append(recs, *rec)
		}
	} else {
		var err error
		recs, err = db.ListAll(0)
		if err != nil {
			exitWithError(ExitError, "listing records: %v", err)
		}
	}

	if exportJSONL {
		for _, rec := range recs {
			if err := outputJSONCompact(rec); err != nil {
				return err
			}
		}
		return nil
	}

	// BibTeX is always text output, never JSON
	fmt.Print(bibtex.WriteAll(recs))
	return nil
}
