package bibtex

import (
	"fmt"
	"strings"

	"github.com/matsen/bibstyle/internal/reference"
)

// leadingFields are written first, in this order; the rest follow sorted.
var leadingFields = []string{"author", "editor", "title", "booktitle", "journal", "year"}

// Write converts a record to BibTeX. Field values are written as stored,
// so LaTeX markup survives a parse/write cycle.
func Write(rec reference.Record) string {
	var b strings.Builder

	entryType := rec.Type
	if entryType == "" {
		entryType = string(reference.Misc)
	}
	b.WriteString(fmt.Sprintf("@%s{%s,\n", entryType, rec.Key))

	written := make(map[string]bool)
	for _, name := range leadingFields {
		if v, ok := rec.Field(name); ok {
			b.WriteString(fmt.Sprintf("  %s = {%s},\n", name, v))
			written[name] = true
		}
	}
	for _, name := range rec.FieldNames() {
		if written[name] {
			continue
		}
		if v, ok := rec.Field(name); ok {
			b.WriteString(fmt.Sprintf("  %s = {%s},\n", name, v))
		}
	}

	b.WriteString("}\n")
	return b.String()
}

// WriteAll converts multiple records to BibTeX.
func WriteAll(recs []reference.Record) string {
	var entries []string
	for _, rec := range recs {
		entries = append(entries, Write(rec))
	}
	return strings.Join(entries, "\n")
}
