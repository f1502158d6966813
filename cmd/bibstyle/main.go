// Package main provides the bibstyle CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/matsen/bibstyle/internal/config"
	"github.com/matsen/bibstyle/internal/storage"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	// verbosity is the commonlog level; each -v raises it by one
	verbosity int
)

var log = commonlog.GetLogger("bibstyle")

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bibstyle",
	Short: "Format BibTeX records as citations",
	Long: `bibstyle formats BibTeX records with named citation styles.

Records are parsed from .bib files, indexed in an ephemeral SQLite
database for lookup and search, and rendered through a style (such as
adsarxiv) and an output backend (text, markdown, html, latex).

All commands output JSON by default; use --human for readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		commonlog.Configure(verbosity, nil)

		// Load .env file if present (for BIBSTYLE_STYLE, BIBSTYLE_BACKEND)
		_ = godotenv.Load()

		if err := registerPlugins(); err != nil {
			exitWithError(ExitError, "registering plugins: %v", err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Log diagnostics to stderr (repeat for more detail)")
	rootCmd.Version = Version
}

// getStartingDirectory returns the directory to start searching for a project.
// BIBSTYLE_ROOT overrides the current working directory.
func getStartingDirectory() (string, int) {
	if root := os.Getenv("BIBSTYLE_ROOT"); root != "" {
		return root, 0
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", outputError(ExitError, "getting current directory: %v", err)
	}
	return cwd, 0
}

// mustFindProject finds the project root, exits on error.
func mustFindProject() string {
	start, exitCode := getStartingDirectory()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	root, err := config.FindProject(start)
	if err != nil {
		exitWithError(ExitConfigError, "%v\n\nRun 'bibstyle init <file.bib>' to create one.", err)
	}
	return root
}

// mustOpenDatabase opens the SQLite database, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenDatabase(root string) *storage.DB {
	if _, err := os.Stat(config.DBPath(root)); os.IsNotExist(err) {
		exitWithError(ExitConfigError, "record index not found\n\nRun 'bibstyle rebuild' to create it.")
	}

	db, err := storage.OpenDB(config.DBPath(root))
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}

// mustLoadConfig loads the project config and merges in the global config
// and environment overrides, exits on error.
func mustLoadConfig(root string) config.Config {
	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	global, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading global config: %v", err)
	}
	return cfg.Resolve(global)
}
