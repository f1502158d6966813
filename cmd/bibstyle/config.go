package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matsen/bibstyle/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set project configuration values.

Usage:
  bibstyle config                           # Show effective config
  bibstyle config style                     # Get specific value
  bibstyle config style unsrt               # Set value
  bibstyle config bib-files a.bib,b.bib     # Set bib files

Keys:
  style             Citation style name (see 'bibstyle styles')
  backend           Output backend: text, markdown, html, latex
  bib-files         Comma-separated .bib paths, relative to the project root
  abbreviate-names  true or false

BIBSTYLE_STYLE and BIBSTYLE_BACKEND (also read from .env) override the
stored values.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

// ConfigResponse is the response for config get commands.
type ConfigResponse struct {
	Style           string   `json:"style"`
	Backend         string   `json:"backend"`
	BibFiles        []string `json:"bib_files"`
	AbbreviateNames bool     `json:"abbreviate_names"`
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	root := mustFindProject()

	// No args: show effective config
	if len(args) == 0 {
		eff := mustLoadConfig(root)
		if humanOutput {
			fmt.Printf("style:            %s\n", eff.Style)
			fmt.Printf("backend:          %s\n", eff.Backend)
			fmt.Printf("bib-files:        %s\n", strings.Join(eff.BibFiles, ", "))
			fmt.Printf("abbreviate-names: %t\n", eff.AbbreviateNames)
			return nil
		}
		files := eff.BibFiles
		if files == nil {
			files = []string{}
		}
		return outputJSON(ConfigResponse{
			Style:           eff.Style,
			Backend:         eff.Backend,
			BibFiles:        files,
			AbbreviateNames: eff.AbbreviateNames,
		})
	}

	key := normalizeKey(args[0])

	// One arg: get specific value
	if len(args) == 1 {
		eff := mustLoadConfig(root)
		value, ok := configValue(eff, key)
		if !ok {
			exitWithError(ExitError, "unknown configuration key: %s", args[0])
		}
		if humanOutput {
			fmt.Println(value)
			return nil
		}
		return outputJSON(map[string]string{strings.ReplaceAll(key, "-", "_"): value})
	}

	// Two args: set value in the stored project config
	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	value := args[1]
	if code, err := setConfigValue(cfg, key, value); err != nil {
		exitWithError(code, "%v", err)
	}

	if err := cfg.Save(root); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Updated %s to %s\n", key, value)
		return nil
	}
	return outputJSON(UpdateResponse{
		Status: "updated",
		Key:    key,
		Value:  value,
	})
}

// configValue returns a config value as a string.
func configValue(cfg config.Config, key string) (string, bool) {
	switch key {
	case "style":
		return cfg.Style, true
	case "backend":
		return cfg.Backend, true
	case "bib-files":
		return strings.Join(cfg.BibFiles, ","), true
	case "abbreviate-names":
		return strconv.FormatBool(cfg.AbbreviateNames), true
	}
	return "", false
}

// setConfigValue validates and stores a config value. Style and backend
// names must be registered.
func setConfigValue(cfg *config.Config, key, value string) (int, error) {
	switch key {
	case "style":
		if _, err := plugins.Styles.Lookup(value); err != nil {
			return ExitConfigError, err
		}
		cfg.Style = strings.ToLower(value)
	case "backend":
		if _, err := plugins.Backends.Lookup(value); err != nil {
			return ExitConfigError, err
		}
		cfg.Backend = strings.ToLower(value)
	case "bib-files":
		var files []string
		for _, f := range strings.Split(value, ",") {
			if f = strings.TrimSpace(f); f != "" {
				files = append(files, f)
			}
		}
		cfg.BibFiles = files
	case "abbreviate-names":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return ExitError, fmt.Errorf("abbreviate-names must be true or false: %s", value)
		}
		cfg.AbbreviateNames = b
	default:
		return ExitError, fmt.Errorf("unknown configuration key: %s", key)
	}
	return ExitSuccess, nil
}

// normalizeKey converts key formats (bib-files, bib_files, BIB_FILES) to a consistent format
func normalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", "-")
	return key
}
