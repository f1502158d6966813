package main

import (
	"errors"
	"reflect"
	"testing"

	"github.com/matsen/bibstyle/internal/plugin"
	"github.com/matsen/bibstyle/internal/reference"
	"github.com/matsen/bibstyle/internal/style"
)

func TestNewPlugins(t *testing.T) {
	p, err := newPlugins()
	if err != nil {
		t.Fatalf("newPlugins() error = %v", err)
	}

	if got, want := p.Styles.Names(), []string{"adsarxiv", "unsrt"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Styles.Names() = %v, want %v", got, want)
	}
	if got, want := p.Backends.Names(), []string{"html", "latex", "markdown", "text"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Backends.Names() = %v, want %v", got, want)
	}
	if p.Styles.Kind() != "style" || p.Backends.Kind() != "backend" {
		t.Errorf("Kind() = %q, %q, want style, backend", p.Styles.Kind(), p.Backends.Kind())
	}
}

func TestRegistryLine(t *testing.T) {
	p, err := newPlugins()
	if err != nil {
		t.Fatalf("newPlugins() error = %v", err)
	}

	tests := []struct {
		kind  string
		names []string
		want  string
	}{
		{p.Styles.Kind(), p.Styles.Names(), "Styles:   adsarxiv, unsrt"},
		{p.Backends.Kind(), p.Backends.Names(), "Backends: html, latex, markdown, text"},
		{"style", nil, "Styles:   "},
	}
	for _, tt := range tests {
		if got := registryLine(tt.kind, tt.names); got != tt.want {
			t.Errorf("registryLine(%q) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestPlugins_Resolve(t *testing.T) {
	p, err := newPlugins()
	if err != nil {
		t.Fatalf("newPlugins() error = %v", err)
	}

	s, b, err := p.Resolve("ADSArxiv", "markdown", style.Options{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if _, ok := s.(*style.ADSArxiv); !ok {
		t.Errorf("Resolve() style = %T, want *style.ADSArxiv", s)
	}
	if b.Name() != "markdown" {
		t.Errorf("Resolve() backend = %s, want markdown", b.Name())
	}

	tests := []struct {
		name    string
		style   string
		backend string
	}{
		{"unknown style", "alpha", "text"},
		{"unknown backend", "unsrt", "rtf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := p.Resolve(tt.style, tt.backend, style.Options{})
			if !errors.Is(err, plugin.ErrNotFound) {
				t.Errorf("Resolve(%q, %q) error = %v, want ErrNotFound", tt.style, tt.backend, err)
			}
		})
	}
}

func TestRenderEntries(t *testing.T) {
	p, err := newPlugins()
	if err != nil {
		t.Fatalf("newPlugins() error = %v", err)
	}
	s, b, err := p.Resolve("adsarxiv", "text", style.Options{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	recs := []reference.Record{
		reference.New("a", "article", map[string]string{
			"author":  "Smith, J.",
			"title":   "On warping",
			"journal": "AJ",
			"year":    "2020",
		}),
		reference.New("b", "misc", map[string]string{"title": "Notes"}),
	}

	got := renderEntries(s, b, recs)
	want := []FormattedEntry{
		{Key: "a", Label: "1", Text: "J. Smith. On warping. AJ, 2020."},
		{Key: "b", Label: "2", Text: style.FormatString(s, recs[1], b)},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("renderEntries() = %+v, want %+v", got, want)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "b", "c"); got != "b" {
		t.Errorf("firstNonEmpty() = %q, want b", got)
	}
	if got := firstNonEmpty("", ""); got != "" {
		t.Errorf("firstNonEmpty() = %q, want empty", got)
	}
}
