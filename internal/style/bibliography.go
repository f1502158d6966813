package style

import (
	"strconv"

	"github.com/matsen/bibstyle/internal/reference"
	"github.com/matsen/bibstyle/internal/richtext"
)

// FormatBibliography formats records in the order given and labels them
// 1..n.
func FormatBibliography(s Style, recs []reference.Record) []richtext.Entry {
	entries := make([]richtext.Entry, 0, len(recs))
	for i, rec := range recs {
		entries = append(entries, richtext.Entry{
			Key:   rec.Key,
			Label: strconv.Itoa(i + 1),
			Text:  s.Format(rec),
		})
	}
	return entries
}
