package style

import (
	"github.com/matsen/bibstyle/internal/reference"
	"github.com/matsen/bibstyle/internal/richtext"
)

// Unsrt is the base style: numbered entries in citation order, with
// BibTeX unsrt conventions for each block. Other styles embed it and
// override the rules they change.
type Unsrt struct {
	opts Options
}

// NewUnsrt creates the base style.
func NewUnsrt(opts Options) *Unsrt {
	return &Unsrt{opts: opts}
}

// Format formats a record according to its entry type.
func (s *Unsrt) Format(rec reference.Record) richtext.Text {
	switch rec.EntryType() {
	case reference.Article:
		return s.FormatArticle(rec)
	case reference.InProceedings:
		return s.FormatInProceedings(rec)
	default:
		return s.FormatMisc(rec)
	}
}

// FormatArticle formats a journal article.
func (s *Unsrt) FormatArticle(rec reference.Record) richtext.Text {
	return toplevel(
		s.FormatNames(rec, "author", true),
		s.FormatTitle(rec, "title", true),
		sentence(true,
			richtext.Emph(field(rec, "journal")),
			volumeAndPages(rec),
			date(rec),
		),
		sentence(true, field(rec, "note")),
		s.FormatWebRefs(rec),
	)
}

// FormatInProceedings formats a paper in conference proceedings.
func (s *Unsrt) FormatInProceedings(rec reference.Record) richtext.Text {
	return toplevel(
		sentence(true, s.FormatNames(rec, "author", true)),
		s.FormatTitle(rec, "title", true),
		in(
			sentence(true,
				s.FormatEditor(rec, false),
				s.FormatBTitle(rec, "booktitle", false),
				s.FormatVolumeAndSeries(rec, false),
				pages(rec),
			),
			s.FormatAddressOrganizationPublisherDate(rec, true),
		),
		sentence(true, field(rec, "note")),
		s.FormatWebRefs(rec),
	)
}

// FormatMisc formats any other entry type.
func (s *Unsrt) FormatMisc(rec reference.Record) richtext.Text {
	return toplevel(
		sentence(true, s.FormatNames(rec, "author", true)),
		s.FormatTitle(rec, "title", true),
		sentence(true, field(rec, "howpublished"), date(rec)),
		sentence(true, field(rec, "note")),
		s.FormatWebRefs(rec),
	)
}

// FormatNames formats the persons of a role as "A", "A and B" or
// "A, B, and C".
func (s *Unsrt) FormatNames(rec reference.Record, role string, asSentence bool) richtext.Text {
	persons := rec.Persons(role)
	if len(persons) == 0 {
		return nil
	}

	names := make([]richtext.Text, len(persons))
	for i, p := range persons {
		names[i] = richtext.FromLatex(p.Format(s.opts.AbbreviateNames))
	}

	var joined richtext.Text
	switch len(names) {
	case 1:
		joined = names[0]
	case 2:
		joined = richtext.Join(richtext.Plain(" and "), names...)
	default:
		head := richtext.Join(richtext.Plain(", "), names[:len(names)-1]...)
		joined = richtext.Join(richtext.Plain(", and "), head, names[len(names)-1])
	}

	if asSentence {
		return sentence(true, joined)
	}
	return joined
}

// FormatTitle formats a title in sentence case. Protected text keeps its case.
func (s *Unsrt) FormatTitle(rec reference.Record, which string, asSentence bool) richtext.Text {
	title := field(rec, which).Capitalize()
	if asSentence {
		return sentence(true, title)
	}
	return title
}

// FormatBTitle formats a book or proceedings title in emphasis.
func (s *Unsrt) FormatBTitle(rec reference.Record, which string, asSentence bool) richtext.Text {
	title := richtext.Emph(field(rec, which))
	if asSentence {
		return sentence(true, title)
	}
	return title
}

// FormatEditor formats the editors followed by "editor" or "editors".
func (s *Unsrt) FormatEditor(rec reference.Record, asSentence bool) richtext.Text {
	editors := s.FormatNames(rec, "editor", false)
	if editors.IsEmpty() {
		return nil
	}
	word := "editor"
	if len(rec.Persons("editor")) > 1 {
		word = "editors"
	}
	result := richtext.Join(richtext.Plain(", "), editors, richtext.Plain(word))
	if asSentence {
		return sentence(true, result)
	}
	return result
}

// FormatVolumeAndSeries formats "volume V of S", "number N in S" or just the
// series, whichever the record supports first.
func (s *Unsrt) FormatVolumeAndSeries(rec reference.Record, asSentence bool) richtext.Text {
	volumeWord, numberWord := "volume", "number"
	if asSentence {
		volumeWord, numberWord = "Volume", "Number"
	}
	series := field(rec, "series")

	var volumeAndSeries, numberAndSeries richtext.Text
	if vol := field(rec, "volume"); !vol.IsEmpty() {
		var of richtext.Text
		if !series.IsEmpty() {
			of = words(richtext.Plain("of"), series)
		}
		volumeAndSeries = words(together(richtext.Plain(volumeWord), vol), of)
	}
	if num := field(rec, "number"); !num.IsEmpty() {
		var inSeries richtext.Text
		if !series.IsEmpty() {
			inSeries = words(richtext.Plain("in"), series)
		}
		numberAndSeries = words(together(richtext.Plain(numberWord), num), inSeries)
	}

	result := firstOf(volumeAndSeries, numberAndSeries, series)
	if asSentence {
		return sentence(true, result)
	}
	return result
}

// FormatAddressOrganizationPublisherDate formats the publication details
// block. With an address, the address and date form one sentence and the
// organization and publisher another; without one, all go in one sentence.
func (s *Unsrt) FormatAddressOrganizationPublisherDate(rec reference.Record, includeOrganization bool) richtext.Text {
	var organization richtext.Text
	if includeOrganization {
		organization = field(rec, "organization")
	}
	publisher := field(rec, "publisher")

	if address := field(rec, "address"); !address.IsEmpty() {
		return words(
			sentence(true, address, date(rec)),
			sentence(true, organization, publisher),
		)
	}
	return sentence(true, organization, publisher, date(rec))
}

// FormatWebRefs formats the URL, arXiv, PubMed and DOI references.
func (s *Unsrt) FormatWebRefs(rec reference.Record) richtext.Text {
	var url richtext.Text
	if u, ok := rec.Field("url"); ok {
		url = words(richtext.Plain("URL:"), richtext.Link(u, rawField(rec, "url")))
		if visited := field(rec, "urldate"); !visited.IsEmpty() {
			url = richtext.Concat(url, richtext.Plain(" (visited on "), visited, richtext.Plain(")"))
		}
	}

	var eprint, pubmed, doi richtext.Text
	if v, ok := rec.Field("eprint"); ok {
		eprint = richtext.Link("https://arxiv.org/abs/"+v, richtext.Plain("arXiv:"+v))
	}
	if v, ok := rec.Field("pubmed"); ok {
		pubmed = richtext.Link("https://www.ncbi.nlm.nih.gov/pubmed/"+v, richtext.Plain("PMID:"+v))
	}
	if v, ok := rec.Field("doi"); ok {
		doi = richtext.Link("https://doi.org/"+v, richtext.Plain("doi:"+v))
	}

	return sentence(false, url, eprint, pubmed, doi)
}

// volumeAndPages renders "volume(number):pages" when both volume and pages
// are present, "pages P" when only pages are, and nothing otherwise.
func volumeAndPages(rec reference.Record) richtext.Text {
	pg := pages(rec)
	if pg.IsEmpty() {
		return nil
	}
	vol := field(rec, "volume")
	if vol.IsEmpty() {
		return words(richtext.Plain("pages"), pg)
	}
	var number richtext.Text
	if n := field(rec, "number"); !n.IsEmpty() {
		number = richtext.Concat(richtext.Plain("("), n, richtext.Plain(")"))
	}
	return richtext.Concat(vol, number, richtext.Plain(":"), pg)
}

// date renders "month year". Without a year there is no date.
func date(rec reference.Record) richtext.Text {
	year := field(rec, "year")
	if year.IsEmpty() {
		return nil
	}
	return words(field(rec, "month"), year)
}

// in renders the "In ..." clause of a contribution to a collection. The
// clause is dropped when nothing follows "In".
func in(parts ...richtext.Text) richtext.Text {
	if words(parts...).IsEmpty() {
		return nil
	}
	return words(append([]richtext.Text{richtext.Plain("In")}, parts...)...)
}
