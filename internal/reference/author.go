package reference

import (
	"strings"
	"unicode"
)

// Person is a name parsed from a BibTeX person field.
type Person struct {
	First   string `json:"first,omitempty"`   // Given and middle names
	Von     string `json:"von,omitempty"`     // Lower-case particles such as "van der"
	Last    string `json:"last"`              // Family name
	Lineage string `json:"lineage,omitempty"` // Suffix such as "Jr."
}

// ParsePersons splits a person field on top-level "and" and parses each name.
func ParsePersons(field string) []Person {
	var persons []Person
	for _, name := range splitNames(field) {
		if p, ok := ParsePerson(name); ok {
			persons = append(persons, p)
		}
	}
	return persons
}

// ParsePerson parses one name in any of the three BibTeX forms:
// "First von Last", "von Last, First" and "von Last, Jr, First".
func ParsePerson(name string) (Person, bool) {
	parts := splitTopLevel(name, ',')
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	switch len(parts) {
	case 0:
		return Person{}, false
	case 1:
		words := fields(parts[0])
		if len(words) == 0 {
			return Person{}, false
		}
		if len(words) == 1 {
			return Person{Last: words[0]}, true
		}
		// von starts at the first lower-case word that is not the last word
		start := -1
		for i := 0; i < len(words)-1; i++ {
			if isLowerWord(words[i]) {
				start = i
				break
			}
		}
		if start < 0 {
			return Person{
				First: strings.Join(words[:len(words)-1], " "),
				Last:  words[len(words)-1],
			}, true
		}
		end := start
		for i := start; i < len(words)-1; i++ {
			if isLowerWord(words[i]) {
				end = i
			}
		}
		return Person{
			First: strings.Join(words[:start], " "),
			Von:   strings.Join(words[start:end+1], " "),
			Last:  strings.Join(words[end+1:], " "),
		}, true
	default:
		von, last := splitVonLast(fields(parts[0]))
		p := Person{Von: von, Last: last}
		if len(parts) == 2 {
			p.First = strings.Join(fields(parts[1]), " ")
		} else {
			p.Lineage = strings.Join(fields(parts[1]), " ")
			p.First = strings.Join(fields(strings.Join(parts[2:], ",")), " ")
		}
		if p.Last == "" && p.Von == "" && p.First == "" {
			return Person{}, false
		}
		return p, true
	}
}

// Format renders the person as "First von Last, Jr". With abbreviate set,
// given names are reduced to initials ("Jean-Paul" becomes "J.-P.").
func (p Person) Format(abbreviate bool) string {
	var words []string
	if p.First != "" {
		if abbreviate {
			words = append(words, abbreviateNames(p.First))
		} else {
			words = append(words, p.First)
		}
	}
	if p.Von != "" {
		words = append(words, p.Von)
	}
	if p.Last != "" {
		words = append(words, p.Last)
	}
	s := strings.Join(words, " ")
	if p.Lineage != "" {
		s += ", " + p.Lineage
	}
	return s
}

// splitVonLast separates the lower-case particles from the family name in
// the part before the first comma. The last word always belongs to Last.
func splitVonLast(words []string) (string, string) {
	if len(words) == 0 {
		return "", ""
	}
	end := -1
	for i := 0; i < len(words)-1; i++ {
		if isLowerWord(words[i]) {
			end = i
		}
	}
	if end < 0 {
		return "", strings.Join(words, " ")
	}
	return strings.Join(words[:end+1], " "), strings.Join(words[end+1:], " ")
}

func abbreviateNames(first string) string {
	var out []string
	for _, word := range strings.Fields(first) {
		var pieces []string
		for _, piece := range strings.Split(word, "-") {
			pieces = append(pieces, initial(piece))
		}
		out = append(out, strings.Join(pieces, "-"))
	}
	return strings.Join(out, " ")
}

func initial(word string) string {
	trimmed := strings.TrimLeft(word, "{")
	for _, r := range trimmed {
		if unicode.IsLetter(r) {
			return string(r) + "."
		}
	}
	return word
}

// isLowerWord reports whether the first letter of a word, outside braces,
// is lower case. Words that start with a brace group count as upper case.
func isLowerWord(word string) bool {
	for _, r := range word {
		if r == '{' {
			return false
		}
		if unicode.IsLetter(r) {
			return unicode.IsLower(r)
		}
	}
	return false
}

// splitNames splits a person field on ";" and "and" at brace depth zero.
func splitNames(field string) []string {
	var names []string
	for _, group := range splitTopLevel(field, ';') {
		var cur []string
		for _, w := range fields(group) {
			if strings.EqualFold(w, "and") {
				if len(cur) > 0 {
					names = append(names, strings.Join(cur, " "))
				}
				cur = nil
				continue
			}
			cur = append(cur, w)
		}
		if len(cur) > 0 {
			names = append(names, strings.Join(cur, " "))
		}
	}
	return names
}

// fields splits on whitespace at brace depth zero.
func fields(s string) []string {
	var out []string
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '{':
			depth++
			b.WriteRune(r)
		case r == '}':
			if depth > 0 {
				depth--
			}
			b.WriteRune(r)
		case unicode.IsSpace(r) && depth == 0:
			if b.Len() > 0 {
				out = append(out, b.String())
				b.Reset()
			}
		default:
			b.WriteRune(r)
		}
	}
	if b.Len() > 0 {
		out = append(out, b.String())
	}
	return out
}

func splitTopLevel(s string, sep rune) []string {
	var out []string
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '{':
			depth++
		case r == '}':
			if depth > 0 {
				depth--
			}
		case r == sep && depth == 0:
			out = append(out, b.String())
			b.Reset()
			continue
		}
		b.WriteRune(r)
	}
	if strings.TrimSpace(b.String()) != "" || len(out) > 0 {
		out = append(out, b.String())
	}
	return out
}
