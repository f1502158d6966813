package richtext

import (
	"fmt"
	"html"
	"io"
	"strings"
)

// Backend renders rich text to a concrete markup language.
type Backend interface {
	Name() string
	Escape(s string) string
	Symbol(s Symbol) string
	Protected(inner string) string
	Tag(name, inner string) string
	HRef(url, inner string) string

	// WriteBibliography writes a list of formatted entries.
	WriteBibliography(w io.Writer, entries []Entry) error
}

// Entry is one formatted bibliography item.
type Entry struct {
	Key   string
	Label string
	Text  Text
}

// Built-in backends.
var (
	Plaintext Backend = plaintext{}
	Markdown  Backend = markdown{}
	HTML      Backend = htmlBackend{}
	LaTeX     Backend = latex{}
)

// Backends returns the built-in backends.
func Backends() []Backend {
	return []Backend{Plaintext, Markdown, HTML, LaTeX}
}

type plaintext struct{}

func (plaintext) Name() string { return "text" }
func (plaintext) Escape(s string) string { return s }
func (plaintext) Protected(inner string) string { return inner }
func (plaintext) Tag(_, inner string) string { return inner }
func (plaintext) HRef(_, inner string) string { return inner }

func (plaintext) Symbol(s Symbol) string {
	switch s {
	case NDash:
		return "\u2013"
	case NBSP, NewBlock:
		return " "
	}
	return ""
}

func (b plaintext) WriteBibliography(w io.Writer, entries []Entry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "[%s] %s\n", e.Label, e.Text.Render(b)); err != nil {
			return err
		}
	}
	return nil
}

type markdown struct{}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"`", "\\`",
)

func (markdown) Name() string { return "markdown" }
func (markdown) Escape(s string) string { return markdownEscaper.Replace(s) }
func (markdown) Protected(inner string) string { return inner }

func (markdown) Symbol(s Symbol) string {
	switch s {
	case NDash:
		return "&ndash;"
	case NBSP, NewBlock:
		return " "
	}
	return ""
}

func (markdown) Tag(name, inner string) string {
	switch name {
	case "em":
		return "*" + inner + "*"
	case "strong":
		return "**" + inner + "**"
	}
	return inner
}

func (markdown) HRef(url, inner string) string {
	url = strings.NewReplacer("(", "%28", ")", "%29", " ", "%20").Replace(url)
	return "[" + inner + "](" + url + ")"
}

func (b markdown) WriteBibliography(w io.Writer, entries []Entry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%s. %s\n", e.Label, e.Text.Render(b)); err != nil {
			return err
		}
	}
	return nil
}

type htmlBackend struct{}

func (htmlBackend) Name() string { return "html" }
func (htmlBackend) Escape(s string) string { return html.EscapeString(s) }

func (htmlBackend) Protected(inner string) string {
	return `<span class="bibtex-protected">` + inner + `</span>`
}

func (htmlBackend) Symbol(s Symbol) string {
	switch s {
	case NDash:
		return "&ndash;"
	case NBSP:
		return "&nbsp;"
	case NewBlock:
		return "\n"
	}
	return ""
}

func (htmlBackend) Tag(name, inner string) string {
	return "<" + name + ">" + inner + "</" + name + ">"
}

func (htmlBackend) HRef(url, inner string) string {
	return `<a href="` + html.EscapeString(url) + `">` + inner + `</a>`
}

func (b htmlBackend) WriteBibliography(w io.Writer, entries []Entry) error {
	if _, err := io.WriteString(w, "<dl>\n"); err != nil {
		return err
	}
	for _, e := range entries {
		_, err := fmt.Fprintf(w, "<dt>%s</dt>\n<dd>%s</dd>\n", html.EscapeString(e.Label), e.Text.Render(b))
		if err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</dl>\n")
	return err
}

type latex struct{}

var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	"&", `\&`,
	"%", `\%`,
	"$", `\$`,
	"#", `\#`,
	"_", `\_`,
	"{", `\{`,
	"}", `\}`,
	"~", `\textasciitilde{}`,
	"^", `\textasciicircum{}`,
)

func (latex) Name() string { return "latex" }
func (latex) Escape(s string) string { return latexEscaper.Replace(s) }
func (latex) Protected(inner string) string { return "{" + inner + "}" }

func (latex) Symbol(s Symbol) string {
	switch s {
	case NDash:
		return "--"
	case NBSP:
		return "~"
	case NewBlock:
		return "\n\\newblock "
	}
	return ""
}

func (latex) Tag(name, inner string) string {
	switch name {
	case "em":
		return `\emph{` + inner + "}"
	case "strong":
		return `\textbf{` + inner + "}"
	}
	return inner
}

func (latex) HRef(url, inner string) string {
	url = strings.NewReplacer("%", `\%`, "#", `\#`).Replace(url)
	return `\href{` + url + "}{" + inner + "}"
}

func (b latex) WriteBibliography(w io.Writer, entries []Entry) error {
	widest := ""
	for _, e := range entries {
		if len(e.Label) > len(widest) {
			widest = e.Label
		}
	}
	if _, err := fmt.Fprintf(w, "\\begin{thebibliography}{%s}\n", widest); err != nil {
		return err
	}
	for _, e := range entries {
		_, err := fmt.Fprintf(w, "\n\\bibitem[%s]{%s}\n%s\n", e.Label, e.Key, e.Text.Render(b))
		if err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n\\end{thebibliography}\n")
	return err
}
