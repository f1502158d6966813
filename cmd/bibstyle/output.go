package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/matsen/bibstyle/internal/reference"
	"github.com/matsen/bibstyle/internal/richtext"
	"github.com/matsen/bibstyle/internal/style"
)

const (
	DefaultSearchLimit = 50 // Default limit for search

	SummaryTitleMaxLen = 70 // Title truncation in search summaries
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputJSONCompact writes a value as compact JSON to stdout.
func outputJSONCompact(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	return enc.Encode(v)
}

// outputError writes an error message to stderr and returns the exit code.
func outputError(code int, format string, args ...interface{}) int {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	return code
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// FormattedEntry is one rendered citation.
type FormattedEntry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

// BibliographyResponse is the response for commands that format records.
type BibliographyResponse struct {
	Style      string           `json:"style"`
	Backend    string           `json:"backend"`
	Entries    []FormattedEntry `json:"entries"`
	Duplicates []string         `json:"duplicates,omitempty"`
	Warnings   []string         `json:"warnings,omitempty"`
}

// renderEntries formats records with s and renders them with backend.
func renderEntries(s style.Style, backend richtext.Backend, recs []reference.Record) []FormattedEntry {
	entries := style.FormatBibliography(s, recs)
	out := make([]FormattedEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, FormattedEntry{
			Key:   e.Key,
			Label: e.Label,
			Text:  e.Text.Render(backend),
		})
	}
	return out
}

// printBibliography writes records as a bibliography in the backend's layout.
func printBibliography(s style.Style, backend richtext.Backend, recs []reference.Record) {
	if err := backend.WriteBibliography(os.Stdout, style.FormatBibliography(s, recs)); err != nil {
		exitWithError(ExitError, "writing bibliography: %v", err)
	}
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// formatAuthorsShort formats authors as last names with "et al." for more than maxCount.
func formatAuthorsShort(persons []reference.Person, maxCount int) string {
	var names []string
	for i, p := range persons {
		if i >= maxCount {
			names = append(names, "et al.")
			break
		}
		last := p.Last
		if p.Von != "" {
			last = p.Von + " " + last
		}
		names = append(names, richtext.FromLatex(last).PlainString())
	}
	return strings.Join(names, ", ")
}
