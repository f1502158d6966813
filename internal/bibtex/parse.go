// Package bibtex reads and writes BibTeX databases.
package bibtex

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/matsen/bibstyle/internal/reference"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("bibstyle.bibtex")

// monthMacros are predefined by every BibTeX style.
var monthMacros = map[string]string{
	"jan": "January",
	"feb": "February",
	"mar": "March",
	"apr": "April",
	"may": "May",
	"jun": "June",
	"jul": "July",
	"aug": "August",
	"sep": "September",
	"oct": "October",
	"nov": "November",
	"dec": "December",
}

// SyntaxError reports malformed BibTeX input.
type SyntaxError struct {
	Source string
	Line   int
	Msg    string
}

func (e *SyntaxError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Msg)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Parse reads a BibTeX database.
func Parse(r io.Reader) (*Database, error) {
	return parse(r, "")
}

// ParseFile reads a BibTeX database from a file.
func ParseFile(path string) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening bib file: %w", err)
	}
	defer f.Close()

	db, err := parse(f, path)
	if err != nil {
		return nil, err
	}
	log.Infof("parsed %d entries from %s", len(db.Records), path)
	return db, nil
}

func parse(r io.Reader, source string) (*Database, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading bib data: %w", err)
	}

	p := &parser{
		src:    []rune(string(data)),
		line:   1,
		source: source,
		db:     NewDatabase(),
	}
	if err := p.parseAll(); err != nil {
		return nil, err
	}
	return p.db, nil
}

type parser struct {
	src    []rune
	pos    int
	line   int
	source string
	db     *Database
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &SyntaxError{Source: p.source, Line: p.line, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) next() rune {
	r := p.src[p.pos]
	p.pos++
	if r == '\n' {
		p.line++
	}
	return r
}

func (p *parser) skipSpace() {
	for !p.eof() && unicode.IsSpace(p.peek()) {
		p.next()
	}
}

func (p *parser) expect(r rune) error {
	p.skipSpace()
	if p.eof() {
		return p.errorf("expected %q, got end of input", r)
	}
	if c := p.peek(); c != r {
		return p.errorf("expected %q, got %q", r, c)
	}
	p.next()
	return nil
}

func (p *parser) parseAll() error {
	for {
		// Text outside entries is a comment.
		for !p.eof() && p.peek() != '@' {
			p.next()
		}
		if p.eof() {
			return nil
		}
		p.next() // @
		if err := p.parseEntry(); err != nil {
			return err
		}
	}
}

func (p *parser) parseEntry() error {
	p.skipSpace()
	entryType := strings.ToLower(p.ident())
	if entryType == "" {
		return p.errorf("missing entry type after @")
	}

	p.skipSpace()
	if p.eof() {
		return p.errorf("unexpected end of input after @%s", entryType)
	}
	var closing rune
	switch p.next() {
	case '{':
		closing = '}'
	case '(':
		closing = ')'
	default:
		return p.errorf("expected '{' or '(' after @%s", entryType)
	}

	switch entryType {
	case "comment":
		if closing == '}' {
			_, err := p.braced()
			return err
		}
		return p.skipTo(closing)
	case "preamble":
		if _, err := p.value(); err != nil {
			return err
		}
		return p.expect(closing)
	case "string":
		return p.parseMacro(closing)
	}

	startLine := p.line
	p.skipSpace()
	key := p.key(closing)
	if key == "" {
		return p.errorf("missing citation key in @%s", entryType)
	}

	fields := make(map[string]string)
	p.skipSpace()
	if !p.eof() && p.peek() == ',' {
		p.next()
	}
	for {
		p.skipSpace()
		if p.eof() {
			return p.errorf("unterminated entry %q (opened on line %d)", key, startLine)
		}
		if p.peek() == closing {
			p.next()
			break
		}

		name := strings.ToLower(p.ident())
		if name == "" {
			return p.errorf("expected field name in entry %q, got %q", key, p.peek())
		}
		if err := p.expect('='); err != nil {
			return err
		}
		value, err := p.value()
		if err != nil {
			return err
		}
		if _, dup := fields[name]; dup {
			p.db.warn("%s: duplicate field %q in entry %q, keeping the first", p.where(), name, key)
		} else {
			fields[name] = value
		}

		p.skipSpace()
		if !p.eof() && p.peek() == ',' {
			p.next()
			continue
		}
		if err := p.expect(closing); err != nil {
			return err
		}
		break
	}

	p.db.Add(reference.New(key, entryType, fields))
	return nil
}

func (p *parser) parseMacro(closing rune) error {
	p.skipSpace()
	name := strings.ToLower(p.ident())
	if name == "" {
		return p.errorf("missing macro name in @string")
	}
	if err := p.expect('='); err != nil {
		return err
	}
	value, err := p.value()
	if err != nil {
		return err
	}
	p.db.Macros[name] = value
	return p.expect(closing)
}

// value parses a field value: braced or quoted strings, numbers and macro
// names, concatenated with '#'.
func (p *parser) value() (string, error) {
	var b strings.Builder
	for {
		p.skipSpace()
		if p.eof() {
			return "", p.errorf("expected field value, got end of input")
		}

		switch c := p.peek(); {
		case c == '{':
			p.next()
			s, err := p.braced()
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		case c == '"':
			p.next()
			s, err := p.quoted()
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		case unicode.IsDigit(c):
			for !p.eof() && unicode.IsDigit(p.peek()) {
				b.WriteRune(p.next())
			}
		default:
			name := strings.ToLower(p.ident())
			if name == "" {
				return "", p.errorf("unexpected %q in field value", c)
			}
			b.WriteString(p.macro(name))
		}

		p.skipSpace()
		if !p.eof() && p.peek() == '#' {
			p.next()
			continue
		}
		return normalizeSpace(b.String()), nil
	}
}

func (p *parser) macro(name string) string {
	if v, ok := p.db.Macros[name]; ok {
		return v
	}
	if v, ok := monthMacros[name]; ok {
		return v
	}
	p.db.warn("%s: undefined macro %q", p.where(), name)
	return ""
}

// braced reads up to the matching '}' (the opening brace is consumed) and
// returns the content with inner braces kept.
func (p *parser) braced() (string, error) {
	start := p.line
	var b strings.Builder
	depth := 0
	for !p.eof() {
		c := p.next()
		switch c {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return b.String(), nil
			}
			depth--
		}
		b.WriteRune(c)
	}
	return "", p.errorf("unbalanced braces (opened on line %d)", start)
}

// quoted reads up to the closing '"' at brace depth zero.
func (p *parser) quoted() (string, error) {
	start := p.line
	var b strings.Builder
	depth := 0
	for !p.eof() {
		c := p.next()
		switch c {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case '"':
			if depth == 0 {
				return b.String(), nil
			}
		}
		b.WriteRune(c)
	}
	return "", p.errorf("unterminated quoted value (opened on line %d)", start)
}

func (p *parser) skipTo(closing rune) error {
	for !p.eof() {
		if p.next() == closing {
			return nil
		}
	}
	return p.errorf("unterminated comment")
}

// ident reads a BibTeX identifier: any run of characters other than
// whitespace and the delimiters "#%'(),={}.
func (p *parser) ident() string {
	var b strings.Builder
	for !p.eof() {
		c := p.peek()
		if unicode.IsSpace(c) || strings.ContainsRune(`"#%'(),={}`, c) {
			break
		}
		b.WriteRune(p.next())
	}
	return b.String()
}

// key reads a citation key, which may contain any character except
// whitespace, ',' and the entry's closing delimiter.
func (p *parser) key(closing rune) string {
	var b strings.Builder
	for !p.eof() {
		c := p.peek()
		if unicode.IsSpace(c) || c == ',' || c == closing {
			break
		}
		b.WriteRune(p.next())
	}
	return b.String()
}

func (p *parser) where() string {
	if p.source != "" {
		return fmt.Sprintf("%s:%d", p.source, p.line)
	}
	return fmt.Sprintf("line %d", p.line)
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
