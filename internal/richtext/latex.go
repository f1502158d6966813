package richtext

import "strings"

// accents maps LaTeX accent commands to Unicode combining marks.
var accents = map[rune]rune{
	'"':  '\u0308',
	'\'': '\u0301',
	'`':  '\u0300',
	'^':  '\u0302',
	'~':  '\u0303',
	'=':  '\u0304',
	'.':  '\u0307',
}

// escapable are the characters LaTeX writes as \c.
const escapable = `&%$#_{}`

// FromLatex converts a BibTeX field value to rich text. Brace groups become
// Protected parts, "~" becomes a non-breaking space, "--" an en dash, and
// escaped specials and simple accents are decoded. Unknown commands are kept
// verbatim.
func FromLatex(s string) Text {
	p := latexParser{src: []rune(s)}
	return p.parse(false)
}

type latexParser struct {
	src []rune
	pos int
}

func (p *latexParser) peek(offset int) (rune, bool) {
	i := p.pos + offset
	if i < 0 || i >= len(p.src) {
		return 0, false
	}
	return p.src[i], true
}

func (p *latexParser) parse(nested bool) Text {
	var out Text
	var buf strings.Builder
	flush := func() {
		if buf.Len() > 0 {
			out = append(out, String(buf.String()))
			buf.Reset()
		}
	}

	for p.pos < len(p.src) {
		r := p.src[p.pos]
		switch r {
		case '{':
			p.pos++
			flush()
			inner := p.parse(true)
			if len(inner) > 0 {
				out = append(out, Protected{Text: inner})
			}
		case '}':
			p.pos++
			if nested {
				flush()
				return out
			}
			// unbalanced closing brace
		case '~':
			p.pos++
			flush()
			out = append(out, NBSP)
		case '-':
			if next, ok := p.peek(1); ok && next == '-' {
				p.pos += 2
				for {
					if c, ok := p.peek(0); ok && c == '-' {
						p.pos++
						continue
					}
					break
				}
				flush()
				out = append(out, NDash)
				continue
			}
			p.pos++
			buf.WriteRune(r)
		case '\\':
			p.command(&buf)
		default:
			p.pos++
			buf.WriteRune(r)
		}
	}
	flush()
	return out
}

// command decodes the control sequence at p.pos into buf.
func (p *latexParser) command(buf *strings.Builder) {
	next, ok := p.peek(1)
	if !ok {
		p.pos++
		buf.WriteRune('\\')
		return
	}

	if strings.ContainsRune(escapable, next) {
		p.pos += 2
		buf.WriteRune(next)
		return
	}

	if mark, ok := accents[next]; ok {
		p.pos += 2
		base, ok := p.peek(0)
		if !ok {
			return
		}
		if base == '{' {
			// \"{o}
			if b, ok := p.peek(1); ok {
				if c, ok := p.peek(2); ok && c == '}' {
					p.pos += 3
					buf.WriteRune(b)
					buf.WriteRune(mark)
					return
				}
			}
			return
		}
		p.pos++
		buf.WriteRune(base)
		buf.WriteRune(mark)
		return
	}

	if next == '\\' {
		p.pos += 2
		buf.WriteRune(' ')
		return
	}

	// unknown command: keep it verbatim
	p.pos++
	buf.WriteRune('\\')
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if !isLetter(c) {
			break
		}
		buf.WriteRune(c)
		p.pos++
	}
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
