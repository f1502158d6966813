// Package richtext provides the lightweight markup tree produced by citation
// styles and the backends that render it.
//
// A Text is an immutable sequence of parts. Operations return new values and
// never modify their receiver, so a Text may be shared between goroutines.
package richtext

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Part is one node of a Text.
type Part interface {
	part()
}

// Text is a sequence of parts.
type Text []Part

// String is literal text. Backends escape it.
type String string

// Symbol is a named typographic symbol whose rendering depends on the backend.
type Symbol string

const (
	NDash    Symbol = "ndash"
	NBSP     Symbol = "nbsp"
	NewBlock Symbol = "newblock"
)

// Protected is text exempt from case changes, written as {...} in BibTeX.
type Protected struct {
	Text Text
}

// Tag is styled text. Known names are "em" and "strong".
type Tag struct {
	Name string
	Text Text
}

// HRef is a hyperlink.
type HRef struct {
	URL  string
	Text Text
}

func (String) part()    {}
func (Symbol) part()    {}
func (Protected) part() {}
func (Tag) part()       {}
func (HRef) part()      {}

// Plain returns a Text holding s, or an empty Text if s is empty.
func Plain(s string) Text {
	if s == "" {
		return nil
	}
	return Text{String(s)}
}

// Sym returns a Text holding a single symbol.
func Sym(s Symbol) Text {
	return Text{s}
}

// Emph wraps t in an "em" tag. An empty t stays empty.
func Emph(t Text) Text {
	return wrapTag("em", t)
}

// Strong wraps t in a "strong" tag. An empty t stays empty.
func Strong(t Text) Text {
	return wrapTag("strong", t)
}

func wrapTag(name string, t Text) Text {
	if t.IsEmpty() {
		return nil
	}
	return Text{Tag{Name: name, Text: t}}
}

// Link wraps t in a hyperlink to url. An empty t stays empty; an empty url
// leaves t unlinked.
func Link(url string, t Text) Text {
	if t.IsEmpty() {
		return nil
	}
	if url == "" {
		return t
	}
	return Text{HRef{URL: url, Text: t}}
}

// Concat joins parts with no separator, skipping empty ones.
func Concat(parts ...Text) Text {
	return Join(nil, parts...)
}

// Join joins the non-empty parts with sep between them.
func Join(sep Text, parts ...Text) Text {
	var out Text
	first := true
	for _, p := range parts {
		if p.IsEmpty() {
			continue
		}
		if !first {
			out = append(out, sep...)
		}
		out = append(out, p...)
		first = false
	}
	return out
}

// IsEmpty reports whether the text renders to nothing.
func (t Text) IsEmpty() bool {
	for _, p := range t {
		switch v := p.(type) {
		case String:
			if v != "" {
				return false
			}
		case Symbol:
			return false
		case Protected:
			if !v.Text.IsEmpty() {
				return false
			}
		case Tag:
			if !v.Text.IsEmpty() {
				return false
			}
		case HRef:
			if !v.Text.IsEmpty() {
				return false
			}
		}
	}
	return true
}

// PlainString returns the text with all markup removed.
func (t Text) PlainString() string {
	return t.Render(Plaintext)
}

// Append adds s at the end of the text.
func (t Text) Append(s string) Text {
	out := make(Text, 0, len(t)+1)
	out = append(out, t...)
	return append(out, String(s))
}

// IsTerminated reports whether the text ends in ".", "?" or "!".
func (t Text) IsTerminated() bool {
	r, ok := t.lastRune()
	if !ok {
		return false
	}
	return r == '.' || r == '?' || r == '!'
}

func (t Text) lastRune() (rune, bool) {
	for i := len(t) - 1; i >= 0; i-- {
		switch v := t[i].(type) {
		case String:
			if v == "" {
				continue
			}
			r, _ := utf8.DecodeLastRuneInString(string(v))
			return r, true
		case Symbol:
			return 0, false
		case Protected:
			if r, ok := v.Text.lastRune(); ok {
				return r, true
			}
		case Tag:
			if r, ok := v.Text.lastRune(); ok {
				return r, true
			}
		case HRef:
			if r, ok := v.Text.lastRune(); ok {
				return r, true
			}
		}
	}
	return 0, false
}

// AddPeriod appends "." unless the text is empty or already terminated.
func (t Text) AddPeriod() Text {
	if t.IsEmpty() || t.IsTerminated() {
		return t
	}
	return t.Append(".")
}

// Capfirst upper-cases the first letter, leaving protected text alone.
func (t Text) Capfirst() Text {
	out, _ := t.capfirst()
	return out
}

func (t Text) capfirst() (Text, bool) {
	out := make(Text, len(t))
	copy(out, t)
	for i, p := range out {
		switch v := p.(type) {
		case String:
			if v == "" {
				continue
			}
			r, size := utf8.DecodeRuneInString(string(v))
			out[i] = String(string(unicode.ToUpper(r)) + string(v[size:]))
			return out, true
		case Symbol, Protected:
			return out, true
		case Tag:
			if v.Text.IsEmpty() {
				continue
			}
			inner, _ := v.Text.capfirst()
			out[i] = Tag{Name: v.Name, Text: inner}
			return out, true
		case HRef:
			if v.Text.IsEmpty() {
				continue
			}
			inner, _ := v.Text.capfirst()
			out[i] = HRef{URL: v.URL, Text: inner}
			return out, true
		}
	}
	return out, false
}

// Lower lower-cases all text outside protected parts.
func (t Text) Lower() Text {
	out := make(Text, len(t))
	for i, p := range t {
		switch v := p.(type) {
		case String:
			out[i] = String(strings.ToLower(string(v)))
		case Tag:
			out[i] = Tag{Name: v.Name, Text: v.Text.Lower()}
		case HRef:
			out[i] = HRef{URL: v.URL, Text: v.Text.Lower()}
		default:
			out[i] = p
		}
	}
	return out
}

// Capitalize lower-cases the text and then upper-cases its first letter.
// Protected parts keep their case.
func (t Text) Capitalize() Text {
	return t.Lower().Capfirst()
}

// Render renders the text with a backend.
func (t Text) Render(b Backend) string {
	var sb strings.Builder
	t.render(b, &sb)
	return sb.String()
}

func (t Text) render(b Backend, sb *strings.Builder) {
	for _, p := range t {
		switch v := p.(type) {
		case String:
			sb.WriteString(b.Escape(string(v)))
		case Symbol:
			sb.WriteString(b.Symbol(v))
		case Protected:
			sb.WriteString(b.Protected(v.Text.Render(b)))
		case Tag:
			sb.WriteString(b.Tag(v.Name, v.Text.Render(b)))
		case HRef:
			sb.WriteString(b.HRef(v.URL, v.Text.Render(b)))
		}
	}
}
