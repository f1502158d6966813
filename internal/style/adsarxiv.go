package style

import (
	"github.com/matsen/bibstyle/internal/reference"
	"github.com/matsen/bibstyle/internal/richtext"
)

// Link prefixes used when a record has an identifier but no URL.
const (
	ArxivAbsPrefix = "http://arxiv.org/abs/"
	DOIPrefix      = "http://dx.doi.org/"
)

// ADSArxiv links each title to the best available landing page: the ADS
// abstract, then arXiv, then the record's URL, then its DOI. Titles with no
// link are set in bold.
type ADSArxiv struct {
	*Unsrt
}

// NewADSArxiv creates the adsarxiv style.
func NewADSArxiv(opts Options) *ADSArxiv {
	return &ADSArxiv{Unsrt: NewUnsrt(opts)}
}

// Format formats a record according to its entry type. Types other than
// articles and proceedings fall back to the base style.
func (s *ADSArxiv) Format(rec reference.Record) richtext.Text {
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
func (s *ADSArxiv) FormatArticle(rec reference.Record) richtext.Text {
	return toplevel(
		s.FormatNames(rec, "author", true),
		s.linkedTitle(rec),
		sentence(false,
			richtext.Emph(field(rec, "journal")),
			volumeAndPages(rec),
			field(rec, "year"),
		),
		sentence(false, field(rec, "note")),
	)
}

// FormatInProceedings formats a paper in conference proceedings.
func (s *ADSArxiv) FormatInProceedings(rec reference.Record) richtext.Text {
	return toplevel(
		sentence(true, s.FormatNames(rec, "author", true)),
		s.linkedTitle(rec),
		in(
			sentence(false,
				s.FormatEditor(rec, false),
				s.FormatBTitle(rec, "booktitle", false),
				s.FormatVolumeAndSeries(rec, false),
				pages(rec),
			),
			s.FormatAddressOrganizationPublisherDate(rec, true),
		),
		sentence(false, field(rec, "note")),
	)
}

func (s *ADSArxiv) linkedTitle(rec reference.Record) richtext.Text {
	title := s.FormatTitle(rec, "title", true)
	if url, ok := SelectLink(rec); ok {
		return richtext.Link(url, title)
	}
	return richtext.Strong(title)
}

// SelectLink picks the title link for a record, in order of preference:
// adsurl, the arXiv abstract page for eprint, url, and the DOI resolver
// page for doi. It reports false when the record has none of these.
func SelectLink(rec reference.Record) (string, bool) {
	if v, ok := rec.Field("adsurl"); ok {
		return v, true
	}
	if v, ok := rec.Field("eprint"); ok {
		return ArxivAbsPrefix + v, true
	}
	if v, ok := rec.Field("url"); ok {
		return v, true
	}
	if v, ok := rec.Field("doi"); ok {
		return DOIPrefix + v, true
	}
	return "", false
}
