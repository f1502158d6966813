package style

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/matsen/bibstyle/internal/plugin"
	"github.com/matsen/bibstyle/internal/reference"
	"github.com/matsen/bibstyle/internal/richtext"
)

func warpingArticle() reference.Record {
	return reference.New("Smith2020", "article", map[string]string{
		"author":  "Smith, J.",
		"title":   "On Warping",
		"journal": "AJ",
		"volume":  "12",
		"number":  "3",
		"pages":   "45-50",
		"year":    "2020",
		"adsurl":  "http://ads/x",
	})
}

func TestADSArxiv_Article(t *testing.T) {
	s := NewADSArxiv(Options{})

	tests := []struct {
		name    string
		rec     reference.Record
		backend richtext.Backend
		want    string
	}{
		{
			name:    "full record markdown",
			rec:     warpingArticle(),
			backend: richtext.Markdown,
			want:    "J. Smith. [On warping.](http://ads/x) *AJ*, 12(3):45&ndash;50, 2020.",
		},
		{
			name:    "full record text",
			rec:     warpingArticle(),
			backend: richtext.Plaintext,
			want:    "J. Smith. On warping. AJ, 12(3):45–50, 2020.",
		},
		{
			name:    "pages only",
			rec:     warpingArticle().With("volume", "").With("number", ""),
			backend: richtext.Markdown,
			want:    "J. Smith. [On warping.](http://ads/x) *AJ*, pages 45&ndash;50, 2020.",
		},
		{
			name:    "volume without number",
			rec:     warpingArticle().With("number", ""),
			backend: richtext.Plaintext,
			want:    "J. Smith. On warping. AJ, 12:45–50, 2020.",
		},
		{
			name:    "no volume no pages",
			rec:     warpingArticle().With("volume", "").With("number", "").With("pages", ""),
			backend: richtext.Markdown,
			want:    "J. Smith. [On warping.](http://ads/x) *AJ*, 2020.",
		},
		{
			name:    "volume without pages is omitted",
			rec:     warpingArticle().With("pages", ""),
			backend: richtext.Plaintext,
			want:    "J. Smith. On warping. AJ, 2020.",
		},
		{
			name:    "note",
			rec:     warpingArticle().With("note", "in press"),
			backend: richtext.Plaintext,
			want:    "J. Smith. On warping. AJ, 12(3):45–50, 2020. in press.",
		},
		{
			name:    "no link is bold",
			rec:     warpingArticle().With("adsurl", ""),
			backend: richtext.Markdown,
			want:    "J. Smith. **On warping.** *AJ*, 12(3):45&ndash;50, 2020.",
		},
		{
			name:    "html",
			rec:     warpingArticle(),
			backend: richtext.HTML,
			want:    "J. Smith.\n<a href=\"http://ads/x\">On warping.</a>\n<em>AJ</em>, 12(3):45&ndash;50, 2020.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatString(s, tt.rec, tt.backend); got != tt.want {
				t.Errorf("FormatString() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestSelectLink_Priority(t *testing.T) {
	all := map[string]string{
		"adsurl": "http://ads/x",
		"eprint": "2001.00001",
		"url":    "http://example.org/paper",
		"doi":    "10.1000/xyz",
	}

	tests := []struct {
		name   string
		drop   []string
		want   string
		wantOK bool
	}{
		{"adsurl wins over everything", nil, "http://ads/x", true},
		{"eprint when no adsurl", []string{"adsurl"}, "http://arxiv.org/abs/2001.00001", true},
		{"url when no adsurl or eprint", []string{"adsurl", "eprint"}, "http://example.org/paper", true},
		{"doi last", []string{"adsurl", "eprint", "url"}, "http://dx.doi.org/10.1000/xyz", true},
		{"none", []string{"adsurl", "eprint", "url", "doi"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := reference.New("k", "article", all)
			for _, f := range tt.drop {
				rec = rec.With(f, "")
			}
			got, ok := SelectLink(rec)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("SelectLink() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSelectLink_BlankFieldsAreAbsent(t *testing.T) {
	rec := reference.New("k", "article", map[string]string{
		"adsurl": "  ",
		"eprint": "",
		"doi":    "10.1/a",
	})
	if got, _ := SelectLink(rec); got != "http://dx.doi.org/10.1/a" {
		t.Errorf("SelectLink() = %q, want the DOI link", got)
	}
}

func TestADSArxiv_TitleLinkMatchesPolicy(t *testing.T) {
	s := NewADSArxiv(Options{})
	for _, typ := range []string{"article", "inproceedings"} {
		for _, link := range []string{"adsurl", "eprint", "url", "doi"} {
			rec := reference.New("k", typ, map[string]string{
				"author": "Smith, J.",
				"title":  "On Warping",
				link:     "target",
			})
			want, _ := SelectLink(rec)
			got := FormatString(s, rec, richtext.Markdown)
			if !strings.Contains(got, "[On warping.]("+want+")") {
				t.Errorf("%s with %s: %q does not link the title to %q", typ, link, got, want)
			}
		}

		rec := reference.New("k", typ, map[string]string{"author": "Smith, J.", "title": "On Warping"})
		got := FormatString(s, rec, richtext.Markdown)
		if strings.Contains(got, "](") {
			t.Errorf("%s without links should have no hyperlink: %q", typ, got)
		}
		if !strings.Contains(got, "**On warping.**") {
			t.Errorf("%s without links should set the title in bold: %q", typ, got)
		}
	}
}

func TestADSArxiv_InProceedings(t *testing.T) {
	s := NewADSArxiv(Options{})
	base := reference.New("Bertin2002", "inproceedings", map[string]string{
		"author":    "Bertin, E. and Mellier, Y. and Radovich, M.",
		"title":     "The {TERAPIX} Pipeline",
		"booktitle": "Astronomical Data Analysis Software and Systems XI",
		"editor":    "Bohlender, D. A. and Durand, D. and Handley, T. H.",
		"series":    "Astronomical Society of the Pacific Conference Series",
		"volume":    "281",
		"pages":     "228",
		"year":      "2002",
		"adsurl":    "https://ui.adsabs.harvard.edu/abs/2002ASPC..281..228B",
	})

	tests := []struct {
		name string
		rec  reference.Record
		want string
	}{
		{
			name: "full record",
			rec:  base,
			want: "E. Bertin, Y. Mellier, and M. Radovich. " +
				"[The TERAPIX pipeline.](https://ui.adsabs.harvard.edu/abs/2002ASPC..281..228B) " +
				"In D. A. Bohlender, D. Durand, and T. H. Handley, editors, " +
				"*Astronomical Data Analysis Software and Systems XI*, " +
				"volume 281 of Astronomical Society of the Pacific Conference Series, 228. 2002.",
		},
		{
			name: "address and publisher",
			rec: base.With("editor", "").With("series", "").With("volume", "").
				With("address", "San Francisco").With("publisher", "ASP"),
			want: "E. Bertin, Y. Mellier, and M. Radovich. " +
				"[The TERAPIX pipeline.](https://ui.adsabs.harvard.edu/abs/2002ASPC..281..228B) " +
				"In *Astronomical Data Analysis Software and Systems XI*, 228. San Francisco, 2002. ASP.",
		},
		{
			name: "single editor, number in series, organization",
			rec: base.With("editor", "Durand, D.").With("volume", "").With("number", "7").
				With("organization", "ADASS").With("pages", "").With("note", "Invited talk"),
			want: "E. Bertin, Y. Mellier, and M. Radovich. " +
				"[The TERAPIX pipeline.](https://ui.adsabs.harvard.edu/abs/2002ASPC..281..228B) " +
				"In D. Durand, editor, *Astronomical Data Analysis Software and Systems XI*, " +
				"number 7 in Astronomical Society of the Pacific Conference Series. ADASS, 2002. Invited talk.",
		},
		{
			name: "nothing after In",
			rec: reference.New("k", "inproceedings", map[string]string{
				"author": "Smith, J.",
				"title":  "Talk",
			}),
			want: "J. Smith. **Talk.**",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatString(s, tt.rec, richtext.Markdown); got != tt.want {
				t.Errorf("FormatString() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestADSArxiv_MiscFallsBackToBase(t *testing.T) {
	rec := reference.New("nasa", "misc", map[string]string{
		"author":       "{NASA}",
		"title":        "Web Page",
		"howpublished": "Online",
		"year":         "2021",
		"adsurl":       "http://ads/y",
	})
	got := FormatString(NewADSArxiv(Options{}), rec, richtext.Markdown)
	want := "NASA. Web page. Online, 2021."
	if got != want {
		t.Errorf("FormatString() = %q, want %q", got, want)
	}
}

func TestUnsrt_Article(t *testing.T) {
	rec := reference.New("Smith2020", "article", map[string]string{
		"author":  "Smith, John and Doe, Jane",
		"title":   "On Warping",
		"journal": "AJ",
		"volume":  "12",
		"number":  "3",
		"pages":   "45--50",
		"year":    "2020",
		"month":   "March",
		"note":    "In press",
		"eprint":  "2001.00001",
		"doi":     "10.1/x",
	})

	got := FormatString(NewUnsrt(Options{}), rec, richtext.Markdown)
	want := "John Smith and Jane Doe. On warping. *AJ*, 12(3):45&ndash;50, March 2020. In press. " +
		"[arXiv:2001.00001](https://arxiv.org/abs/2001.00001), [doi:10.1/x](https://doi.org/10.1/x)."
	if got != want {
		t.Errorf("FormatString() =\n%q\nwant\n%q", got, want)
	}
}

func TestUnsrt_URLWithVisitDate(t *testing.T) {
	rec := reference.New("web", "misc", map[string]string{
		"title":   "Home",
		"url":     "http://example.org",
		"urldate": "2024-01-02",
	})
	got := FormatString(NewUnsrt(Options{}), rec, richtext.Plaintext)
	want := "Home. URL: http://example.org (visited on 2024-01-02)."
	if got != want {
		t.Errorf("FormatString() = %q, want %q", got, want)
	}
}

func TestFormatNames(t *testing.T) {
	tests := []struct {
		name       string
		authors    string
		abbreviate bool
		want       string
	}{
		{"one", "Smith, John", false, "John Smith"},
		{"two", "Smith, John and Doe, Jane", false, "John Smith and Jane Doe"},
		{"three", "Smith, John and Doe, Jane and Roe, Richard", false, "John Smith, Jane Doe, and Richard Roe"},
		{"abbreviated", "Smith, John Ronald and Doe, Jane", true, "J. R. Smith and J. Doe"},
		{"von", "van Beethoven, Ludwig", false, "Ludwig van Beethoven"},
		{"semicolons", "Smith, J.; Doe, A.", false, "J. Smith and A. Doe"},
		{"semicolons and and", "Smith, J.; Doe, A. and Roe, R.", false, "J. Smith, A. Doe, and R. Roe"},
		{"braced semicolon", "{Smith; Sons}; Doe, A.", false, "Smith; Sons and A. Doe"},
		{"missing", "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewUnsrt(Options{AbbreviateNames: tt.abbreviate})
			rec := reference.New("k", "article", map[string]string{"author": tt.authors})
			if got := s.FormatNames(rec, "author", false).PlainString(); got != tt.want {
				t.Errorf("FormatNames() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat_MissingFieldsNeverFail(t *testing.T) {
	styles := []Style{NewUnsrt(Options{}), NewADSArxiv(Options{})}
	recs := []reference.Record{
		reference.New("empty-article", "article", nil),
		reference.New("empty-proc", "inproceedings", nil),
		reference.New("empty-misc", "book", nil),
		reference.New("journal-only", "article", map[string]string{"journal": "AJ"}),
		reference.New("year-only", "inproceedings", map[string]string{"year": "1999", "month": "May"}),
	}

	for _, s := range styles {
		for _, rec := range recs {
			for _, b := range richtext.Backends() {
				_ = FormatString(s, rec, b)
			}
		}
	}

	got := FormatString(NewADSArxiv(Options{}), recs[3], richtext.Plaintext)
	if got != "AJ." {
		t.Errorf("journal-only article = %q, want %q", got, "AJ.")
	}
	if got := FormatString(NewADSArxiv(Options{}), recs[0], richtext.Plaintext); got != "" {
		t.Errorf("empty article = %q, want empty", got)
	}
	if got := FormatString(NewUnsrt(Options{}), recs[4], richtext.Plaintext); got != "In May 1999." {
		t.Errorf("year-only proceedings = %q, want %q", got, "In May 1999.")
	}
}

func TestFormat_Idempotent(t *testing.T) {
	s := NewADSArxiv(Options{})
	rec := warpingArticle()
	first := FormatString(s, rec, richtext.LaTeX)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := FormatString(s, rec, richtext.LaTeX); got != first {
				t.Errorf("FormatString() = %q, want %q", got, first)
			}
		}()
	}
	wg.Wait()
}

func TestFormatBibliography(t *testing.T) {
	recs := []reference.Record{
		warpingArticle(),
		reference.New("Other", "misc", map[string]string{"title": "Other"}),
	}
	entries := FormatBibliography(NewADSArxiv(Options{}), recs)
	if len(entries) != 2 {
		t.Fatalf("FormatBibliography() returned %d entries, want 2", len(entries))
	}
	if entries[0].Key != "Smith2020" || entries[0].Label != "1" {
		t.Errorf("entries[0] = %s/%s, want Smith2020/1", entries[0].Key, entries[0].Label)
	}
	if entries[1].Label != "2" || entries[1].Text.PlainString() != "Other." {
		t.Errorf("entries[1] = %s %q", entries[1].Label, entries[1].Text.PlainString())
	}
}

func TestRegisterBuiltins(t *testing.T) {
	reg := plugin.NewRegistry[Factory]("style")
	if err := RegisterBuiltins(reg); err != nil {
		t.Fatalf("RegisterBuiltins() error = %v", err)
	}

	factory, err := reg.Lookup(ADSArxivName)
	if err != nil {
		t.Fatalf("Lookup(adsarxiv) error = %v", err)
	}
	if _, ok := factory(Options{}).(*ADSArxiv); !ok {
		t.Error("adsarxiv factory should build an *ADSArxiv")
	}

	if _, err := reg.Lookup(UnsrtName); err != nil {
		t.Errorf("Lookup(unsrt) error = %v", err)
	}

	if err := RegisterBuiltins(reg); !errors.Is(err, plugin.ErrDuplicate) {
		t.Errorf("second RegisterBuiltins() error = %v, want ErrDuplicate", err)
	}
}
