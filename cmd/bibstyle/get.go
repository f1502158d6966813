package main

import (
	"fmt"

	"github.com/matsen/bibstyle/internal/reference"
	"github.com/matsen/bibstyle/internal/style"
	"github.com/spf13/cobra"
)

var (
	getStyle   string
	getBackend string
)

func init() {
	getCmd.Flags().StringVar(&getStyle, "style", "", "Citation style (default from config)")
	getCmd.Flags().StringVar(&getBackend, "backend", "", "Output backend (default from config)")
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Format a single indexed record",
	Long: `Look up a record by citation key and format it.

Example:
  bibstyle get Bertin2002 --backend markdown --human`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

// GetResponse is the response for the get command.
type GetResponse struct {
	Record    reference.Record `json:"record"`
	Formatted string           `json:"formatted"`
	Link      string           `json:"link,omitempty"`
}

func runGet(cmd *cobra.Command, args []string) error {
	root := mustFindProject()
	cfg := mustLoadConfig(root)
	s, backend := mustResolve(cfg, getStyle, getBackend, false)

	db := mustOpenDatabase(root)
	defer db.Close()

	key := args[0]
	rec, err := db.GetByKey(key)
	if err != nil {
		exitWithError(ExitError, "getting record: %v", err)
	}
	if rec == nil {
		exitWithError(ExitDataError, "record not found: %s", key)
	}

	formatted := style.FormatString(s, *rec, backend)
	if humanOutput {
		fmt.Println(formatted)
		return nil
	}

	link, _ := style.SelectLink(*rec)
	return outputJSON(GetResponse{
		Record:    *rec,
		Formatted: formatted,
		Link:      link,
	})
}
