// Package style formats bibliography records into citation text.
//
// A style is a pure function from a record to rich text. Styles never fail:
// a missing field removes the segment that would have displayed it.
package style

import (
	"regexp"

	"github.com/matsen/bibstyle/internal/plugin"
	"github.com/matsen/bibstyle/internal/reference"
	"github.com/matsen/bibstyle/internal/richtext"
)

// Style formats one record.
type Style interface {
	Format(rec reference.Record) richtext.Text
}

// Options configures a style instance.
type Options struct {
	AbbreviateNames bool `yaml:"abbreviate_names" json:"abbreviate_names"`
}

// Factory creates a configured style. Hosts register factories by name.
type Factory func(Options) Style

// Built-in style names.
const (
	UnsrtName    = "unsrt"
	ADSArxivName = "adsarxiv"
)

// RegisterBuiltins registers the built-in styles with a host registry.
func RegisterBuiltins(reg *plugin.Registry[Factory]) error {
	builtins := []struct {
		name    string
		factory Factory
	}{
		{UnsrtName, func(o Options) Style { return NewUnsrt(o) }},
		{ADSArxivName, func(o Options) Style { return NewADSArxiv(o) }},
	}
	for _, b := range builtins {
		if err := reg.Register(b.name, b.factory); err != nil {
			return err
		}
	}
	return nil
}

// FormatString formats a record and renders it with backend.
func FormatString(s Style, rec reference.Record, backend richtext.Backend) string {
	return s.Format(rec).Render(backend)
}

// Template helpers. Each one drops empty parts, so a missing field simply
// disappears from the output.

// toplevel joins the blocks of an entry.
func toplevel(parts ...richtext.Text) richtext.Text {
	return richtext.Join(richtext.Sym(richtext.NewBlock), parts...)
}

// sentence joins parts with ", ", optionally upper-cases the first letter,
// and terminates the result with a period.
func sentence(capfirst bool, parts ...richtext.Text) richtext.Text {
	text := richtext.Join(richtext.Plain(", "), parts...)
	if capfirst {
		text = text.Capfirst()
	}
	return text.AddPeriod()
}

// words joins parts with a space.
func words(parts ...richtext.Text) richtext.Text {
	return richtext.Join(richtext.Plain(" "), parts...)
}

// together joins parts with a non-breaking space.
func together(parts ...richtext.Text) richtext.Text {
	return richtext.Join(richtext.Sym(richtext.NBSP), parts...)
}

// firstOf returns the first non-empty part.
func firstOf(parts ...richtext.Text) richtext.Text {
	for _, p := range parts {
		if !p.IsEmpty() {
			return p
		}
	}
	return nil
}

// field returns a field as rich text, or empty if the field is absent.
func field(rec reference.Record, name string) richtext.Text {
	v, ok := rec.Field(name)
	if !ok {
		return nil
	}
	return richtext.FromLatex(v)
}

// rawField returns a field without LaTeX decoding, for URLs and identifiers.
func rawField(rec reference.Record, name string) richtext.Text {
	return richtext.Plain(rec.Get(name))
}

var dashes = regexp.MustCompile(`-+`)

// pages returns the page range with runs of hyphens replaced by an en dash.
func pages(rec reference.Record) richtext.Text {
	v, ok := rec.Field("pages")
	if !ok {
		return nil
	}
	var parts []richtext.Text
	for i, piece := range dashes.Split(v, -1) {
		if i > 0 {
			parts = append(parts, richtext.Sym(richtext.NDash))
		}
		parts = append(parts, richtext.FromLatex(piece))
	}
	return richtext.Concat(parts...)
}
