// Package reference defines the core domain types for bibliography records.
package reference

import (
	"sort"
	"strings"
)

// EntryType selects the formatting rule applied to a record.
type EntryType string

const (
	Article       EntryType = "article"
	InProceedings EntryType = "inproceedings"
	Misc          EntryType = "misc"
)

// ParseEntryType maps a BibTeX entry type to an EntryType.
// Unknown types map to Misc.
func ParseEntryType(s string) EntryType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "article":
		return Article
	case "inproceedings", "conference":
		return InProceedings
	default:
		return Misc
	}
}

// Record is one bibliography entry: a citation key, the raw entry type and
// a set of fields keyed by lower-cased field name.
type Record struct {
	Key    string            `json:"key"`
	Type   string            `json:"type"` // Raw BibTeX type, lower-cased
	Fields map[string]string `json:"fields"`
}

// New builds a record, normalising the type and field names.
func New(key, entryType string, fields map[string]string) Record {
	norm := make(map[string]string, len(fields))
	for k, v := range fields {
		norm[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return Record{
		Key:    key,
		Type:   strings.ToLower(strings.TrimSpace(entryType)),
		Fields: norm,
	}
}

// EntryType returns the formatting rule for the record.
func (r Record) EntryType() EntryType {
	return ParseEntryType(r.Type)
}

// Field returns a field value. Fields that are absent or blank report false.
func (r Record) Field(name string) (string, bool) {
	v, ok := r.Fields[strings.ToLower(name)]
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	return v, true
}

// Get returns a field value, or "" if it is absent.
func (r Record) Get(name string) string {
	v, _ := r.Field(name)
	return v
}

// Has reports whether a field is present and non-blank.
func (r Record) Has(name string) bool {
	_, ok := r.Field(name)
	return ok
}

// Persons parses the names stored in a person field such as "author" or
// "editor". It returns nil when the field is absent.
func (r Record) Persons(role string) []Person {
	v, ok := r.Field(role)
	if !ok {
		return nil
	}
	return ParsePersons(v)
}

// FieldNames returns the record's field names in sorted order.
func (r Record) FieldNames() []string {
	names := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// With returns a copy of the record with one field replaced.
// An empty value removes the field.
func (r Record) With(name, value string) Record {
	fields := make(map[string]string, len(r.Fields)+1)
	for k, v := range r.Fields {
		fields[k] = v
	}
	name = strings.ToLower(name)
	if value == "" {
		delete(fields, name)
	} else {
		fields[name] = value
	}
	return Record{Key: r.Key, Type: r.Type, Fields: fields}
}
