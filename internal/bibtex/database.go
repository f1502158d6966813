package bibtex

import (
	"fmt"
	"strings"

	"github.com/matsen/bibstyle/internal/reference"
)

// Database holds the entries of one or more .bib files in file order.
type Database struct {
	Records []reference.Record
	// Macros holds @string definitions, keyed by lower-cased name.
	Macros map[string]string
	// Duplicates lists the keys of entries dropped because an earlier entry
	// had the same key or DOI.
	Duplicates []string
	// Warnings collects non-fatal problems such as undefined macros.
	Warnings []string

	index *Index
	byKey map[string]int
}

// NewDatabase creates an empty database.
func NewDatabase() *Database {
	return &Database{
		Macros: make(map[string]string),
		index:  NewIndex(),
		byKey:  make(map[string]int),
	}
}

// Add appends a record unless an earlier record has the same key or DOI.
// It reports whether the record was added.
func (db *Database) Add(rec reference.Record) bool {
	doi := rec.Get("doi")
	if db.index.HasEntry(rec.Key, doi) {
		db.Duplicates = append(db.Duplicates, rec.Key)
		db.warn("duplicate entry %q dropped", rec.Key)
		return false
	}
	db.index.Add(rec.Key, doi)
	db.byKey[rec.Key] = len(db.Records)
	db.Records = append(db.Records, rec)
	return true
}

// Merge appends the records of other, applying the same duplicate rules.
func (db *Database) Merge(other *Database) {
	for name, v := range other.Macros {
		if _, exists := db.Macros[name]; !exists {
			db.Macros[name] = v
		}
	}
	db.Warnings = append(db.Warnings, other.Warnings...)
	db.Duplicates = append(db.Duplicates, other.Duplicates...)
	for _, rec := range other.Records {
		db.Add(rec)
	}
}

// Lookup returns the record with the given citation key.
func (db *Database) Lookup(key string) (reference.Record, bool) {
	i, ok := db.byKey[key]
	if !ok {
		return reference.Record{}, false
	}
	return db.Records[i], true
}

// Select returns the records for keys, in the order of keys.
func (db *Database) Select(keys []string) ([]reference.Record, error) {
	recs := make([]reference.Record, 0, len(keys))
	for _, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		rec, ok := db.Lookup(key)
		if !ok {
			return nil, fmt.Errorf("unknown key: %s", key)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (db *Database) warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	db.Warnings = append(db.Warnings, msg)
	log.Warning(msg)
}

// ParseFiles parses and merges several .bib files in order.
func ParseFiles(paths []string) (*Database, error) {
	db := NewDatabase()
	for _, path := range paths {
		part, err := ParseFile(path)
		if err != nil {
			return nil, err
		}
		db.Merge(part)
	}
	return db, nil
}

// Index indexes BibTeX entries for deduplication.
type Index struct {
	// Keys maps citation keys to true for existence check
	Keys map[string]bool
	// DOIs maps normalized DOI values to citation keys
	DOIs map[string]string
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		Keys: make(map[string]bool),
		DOIs: make(map[string]string),
	}
}

// Add records a key and its DOI, which may be empty.
func (idx *Index) Add(key, doi string) {
	idx.Keys[key] = true
	if d := NormalizeDOI(doi); d != "" {
		idx.DOIs[d] = key
	}
}

// HasEntry returns true if the entry already exists (by DOI or key).
// DOI is the primary match; citation key is the fallback if no DOI.
func (idx *Index) HasEntry(key, doi string) bool {
	if doi != "" {
		if _, exists := idx.DOIs[NormalizeDOI(doi)]; exists {
			return true
		}
	}
	return idx.Keys[key]
}

// NormalizeDOI normalizes a DOI for comparison.
// Removes common resolver prefixes and lowercases.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	for _, prefix := range []string{
		"https://doi.org/",
		"http://doi.org/",
		"https://dx.doi.org/",
		"http://dx.doi.org/",
		"doi.org/",
		"DOI:",
		"doi:",
	} {
		doi = strings.TrimPrefix(doi, prefix)
	}
	return strings.ToLower(doi)
}
