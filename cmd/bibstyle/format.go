package main

import (
	"errors"
	"os"
	"strings"

	"github.com/matsen/bibstyle/internal/bibtex"
	"github.com/matsen/bibstyle/internal/config"
	"github.com/spf13/cobra"
)

var (
	formatStyle      string
	formatBackend    string
	formatKeys       string
	formatAbbreviate bool
)

func init() {
	formatCmd.Flags().StringVar(&formatStyle, "style", "", "Citation style (default from config)")
	formatCmd.Flags().StringVar(&formatBackend, "backend", "", "Output backend: text, markdown, html, latex (default from config)")
	formatCmd.Flags().StringVar(&formatKeys, "keys", "", "Format only these keys, in this order (comma-separated)")
	formatCmd.Flags().BoolVar(&formatAbbreviate, "abbreviate", false, "Abbreviate given names to initials")
	rootCmd.AddCommand(formatCmd)
}

var formatCmd = &cobra.Command{
	Use:   "format [files...]",
	Short: "Format BibTeX files as a bibliography",
	Long: `Parse .bib files and format their records as a bibliography.

Without file arguments the project's configured bib files are used.
Records keep file order unless --keys selects and orders them.

Examples:
  bibstyle format refs.bib --human
  bibstyle format refs.bib --backend markdown --keys Bertin2002,Smith2020
  bibstyle format --style unsrt --backend latex --human > refs.tex`,
	RunE: runFormat,
}

func runFormat(cmd *cobra.Command, args []string) error {
	cfg, paths := resolveInputs(args)
	s, backend := mustResolve(cfg, formatStyle, formatBackend, formatAbbreviate)

	db := mustParseBibFiles(paths)
	recs := db.Records
	if formatKeys != "" {
		selected, err := db.Select(strings.Split(formatKeys, ","))
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		recs = selected
	}

	if humanOutput {
		printBibliography(s, backend, recs)
		return nil
	}

	return outputJSON(BibliographyResponse{
		Style:      firstNonEmpty(formatStyle, cfg.Style),
		Backend:    backend.Name(),
		Entries:    renderEntries(s, backend, recs),
		Duplicates: db.Duplicates,
		Warnings:   db.Warnings,
	})
}

// resolveInputs returns the effective configuration and the .bib files to
// read. Explicit paths work outside a project; otherwise the project's
// configured files are used.
func resolveInputs(args []string) (config.Config, []string) {
	start, exitCode := getStartingDirectory()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	root, err := config.FindProject(start)
	if err != nil && !errors.Is(err, config.ErrNoProject) {
		exitWithError(ExitError, "%v", err)
	}

	var cfg config.Config
	if root != "" {
		cfg = mustLoadConfig(root)
	} else {
		global, err := config.LoadGlobalConfig()
		if err != nil {
			exitWithError(ExitConfigError, "loading global config: %v", err)
		}
		cfg = (&config.Config{}).Resolve(global)
	}

	if len(args) > 0 {
		return cfg, args
	}
	if root == "" {
		exitWithError(ExitConfigError, "no .bib files given and %v", config.ErrNoProject)
	}
	if len(cfg.BibFiles) == 0 {
		exitWithError(ExitConfigError, "no bib files configured\n\nRun 'bibstyle config bib-files refs.bib' to add some.")
	}
	if err := cfg.ValidateBibFiles(root); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return cfg, cfg.BibPaths(root)
}

// mustParseBibFiles parses and merges .bib files, exits on error.
func mustParseBibFiles(paths []string) *bibtex.Database {
	db, err := bibtex.ParseFiles(paths)
	if err != nil {
		var syntaxErr *bibtex.SyntaxError
		if errors.As(err, &syntaxErr) {
			exitWithError(ExitDataError, "%v", err)
		}
		exitWithError(ExitError, "%v", err)
	}
	return db
}
