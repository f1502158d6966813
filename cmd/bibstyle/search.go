package main

import (
	"fmt"

	"github.com/matsen/bibstyle/internal/reference"
	"github.com/matsen/bibstyle/internal/richtext"
	"github.com/spf13/cobra"
)

var searchLimit int

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultSearchLimit, "Maximum results to return")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search indexed records by keyword",
	Long: `Search indexed records by keyword.

Matches titles, author and editor names, and journal or booktitle.

Examples:
  bibstyle search terapix
  bibstyle search "image warping" --human`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	root := mustFindProject()
	db := mustOpenDatabase(root)
	defer db.Close()

	recs, err := db.Search(args[0], searchLimit)
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}

	// Empty result is not an error
	if recs == nil {
		recs = []reference.Record{}
	}

	if humanOutput {
		if len(recs) == 0 {
			fmt.Println("No records found")
			return nil
		}
		fmt.Printf("Found %d records:\n\n", len(recs))
		for i, rec := range recs {
			printRecordSummary(i+1, rec)
		}
		return nil
	}
	return outputJSON(recs)
}

func printRecordSummary(num int, rec reference.Record) {
	fmt.Printf("[%d] %s\n", num, rec.Key)
	title := richtext.FromLatex(rec.Get("title")).PlainString()
	fmt.Printf("    %s\n", truncateString(title, SummaryTitleMaxLen))

	if persons := rec.Persons("author"); len(persons) > 0 {
		fmt.Printf("    %s\n", formatAuthorsShort(persons, 3))
	}

	venue := rec.Get("journal")
	if venue == "" {
		venue = rec.Get("booktitle")
	}
	venue = richtext.FromLatex(venue).PlainString()
	switch {
	case venue != "" && rec.Has("year"):
		fmt.Printf("    %s (%s)\n", venue, rec.Get("year"))
	case venue != "":
		fmt.Printf("    %s\n", venue)
	case rec.Has("year"):
		fmt.Printf("    (%s)\n", rec.Get("year"))
	}
	fmt.Println()
}
