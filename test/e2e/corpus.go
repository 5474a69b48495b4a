// Package e2e exercises the whole pipeline against a realistic bibliography:
// BibTeX parsing, index building, preprint merging, query execution, and
// result shaping.
package e2e

import (
	"fmt"
	"strings"
)

// Entry is one bibliography record of the test corpus in source form.
type Entry struct {
	Key       string
	Type      string // BibTeX entry type; empty means InProceedings
	Authors   string // author field value, " and "-separated
	Title     string
	Year      string
	Pages     string
	Publisher string // macro name defined in the abbreviations file
	Note      string // literal note text, or a macro name when NoteMacro is set
	NoteMacro bool
}

// QueryTestCase pairs a query with citation keys that must appear in its
// results.
type QueryTestCase struct {
	Query          string
	ExpectedDocIDs []string
	Description    string
}

// Corpus is the full test bibliography plus the query cases run against it.
type Corpus struct {
	Entries   []Entry
	TestCases []QueryTestCase
}

// MergedKeys lists the preprint keys that fold into a published record and
// therefore must not surface as documents of their own.
func (c *Corpus) MergedKeys() []string {
	return []string{"EPRINT:GenHalSma12", "EPRINT:BraGenVai11"}
}

// DocCount returns the number of documents the corpus indexes to, after
// preprint merging.
func (c *Corpus) DocCount() int {
	return len(c.Entries) - len(c.MergedKeys())
}

// BuildCorpus returns the corpus: a small cryptography bibliography with two
// preprint/published pairs, one orphan preprint, and titles chosen so each
// query case has an unambiguous answer.
func BuildCorpus() *Corpus {
	entries := []Entry{
		{
			Key:       "C:GenHalSma12",
			Authors:   "Craig Gentry and Shai Halevi and Nigel P. Smart",
			Title:     "Homomorphic Evaluation of the {AES} Circuit",
			Year:      "2012",
			Pages:     "850--867",
			Publisher: "springer",
		},
		{
			Key:     "EPRINT:GenHalSma12",
			Type:    "Misc",
			Authors: "Craig Gentry and Shai Halevi and Nigel P. Smart",
			Title:   "Homomorphic Evaluation of the {AES} Circuit",
			Year:    "2012",
			Note:    `\url{https://eprint.iacr.org/2012/099}`,
		},
		{
			Key:       "EC:Groth16",
			Authors:   "Jens Groth",
			Title:     "On the Size of Pairing-Based Non-interactive Arguments",
			Year:      "2016",
			Pages:     "305--326",
			Publisher: "springer",
		},
		{
			Key:     "STOC:GolMicWid87",
			Authors: "Oded Goldreich and Silvio Micali and Avi Wigderson",
			Title:   "How to Play any Mental Game or A Completeness Theorem for Protocols with Honest Majority",
			Year:    "1987",
			Pages:   "218--229",
		},
		{
			Key:     "FOCS:Yao86",
			Authors: "Andrew Chi-Chih Yao",
			Title:   "How to Generate and Exchange Secrets (Extended Abstract)",
			Year:    "1986",
			Pages:   "162--167",
		},
		{
			Key:     "STOC:Gen09",
			Authors: "Craig Gentry",
			Title:   "Fully Homomorphic Encryption Using Ideal Lattices",
			Year:    "2009",
			Pages:   "169--178",
		},
		{
			Key:     "STOC:Reg05",
			Authors: "Oded Regev",
			Title:   "On Lattices, Learning with Errors, Random Linear Codes, and Cryptography",
			Year:    "2005",
			Pages:   "84--93",
		},
		{
			Key:       "EC:LyuPeiReg10",
			Authors:   "Vadim Lyubashevsky and Chris Peikert and Oded Regev",
			Title:     "On Ideal Lattices and Learning with Errors over Rings",
			Year:      "2010",
			Pages:     "1--23",
			Publisher: "springer",
		},
		{
			Key:       "C:BonFra01",
			Authors:   "Dan Boneh and Matthew K. Franklin",
			Title:     "Identity-Based Encryption from the Weil Pairing",
			Year:      "2001",
			Pages:     "213--229",
			Publisher: "springer",
		},
		{
			Key:       "AC:BonLynSha01",
			Authors:   "Dan Boneh and Ben Lynn and Hovav Shacham",
			Title:     "Short Signatures from the Weil Pairing",
			Year:      "2001",
			Pages:     "514--532",
			Publisher: "springer",
		},
		{
			Key:       "EC:GarGenHal13",
			Authors:   "Sanjam Garg and Craig Gentry and Shai Halevi",
			Title:     "Candidate Multilinear Maps from Ideal Lattices",
			Year:      "2013",
			Pages:     "1--17",
			Publisher: "springer",
		},
		{
			Key:     "CCS:BelRog93",
			Authors: "Mihir Bellare and Phillip Rogaway",
			Title:   "Random Oracles are Practical: A Paradigm for Designing Efficient Protocols",
			Year:    "1993",
			Pages:   "62--73",
		},
		{
			Key:       "EC:CanKre02",
			Authors:   "Ran Canetti and Hugo Krawczyk",
			Title:     "Universally Composable Notions of Key Exchange and Secure Channels",
			Year:      "2002",
			Pages:     "337--351",
			Publisher: "springer",
		},
		{
			Key:     "ITCS:BraGenVai12",
			Authors: "Zvika Brakerski and Craig Gentry and Vinod Vaikuntanathan",
			Title:   "(Leveled) Fully Homomorphic Encryption without Bootstrapping",
			Year:    "2012",
			Pages:   "309--325",
		},
		{
			Key:       "EPRINT:BraGenVai11",
			Type:      "Misc",
			Authors:   "Zvika Brakerski and Craig Gentry and Vinod Vaikuntanathan",
			Title:     "(Leveled) Fully Homomorphic Encryption without Bootstrapping",
			Year:      "2011",
			Note:      "bgvnote",
			NoteMacro: true,
		},
		{
			Key:     "EPRINT:Sol21",
			Type:    "Misc",
			Authors: "Marta Soler",
			Title:   "Onion Routing with Post-Quantum Handshakes",
			Year:    "2021",
			Note:    `\url{https://eprint.iacr.org/2021/1312}`,
		},
		{
			Key:     "C:AjtDwo97",
			Authors: "Ajtai, Miklos and Dwork, Cynthia",
			Title:   "A Public-Key Cryptosystem with Worst-Case/Average-Case Equivalence",
			Year:    "1997",
			Pages:   "284--293",
		},
	}

	return &Corpus{Entries: entries, TestCases: buildQueryTestCases()}
}

func buildQueryTestCases() []QueryTestCase {
	return []QueryTestCase{
		{
			Query:          "circuit",
			ExpectedDocIDs: []string{"C:GenHalSma12"},
			Description:    "single term matches a title word",
		},
		{
			Query:          "AES",
			ExpectedDocIDs: []string{"C:GenHalSma12"},
			Description:    "braced title tokens are searchable without braces",
		},
		{
			Query:          "aes",
			ExpectedDocIDs: []string{"C:GenHalSma12"},
			Description:    "title matching is case-insensitive",
		},
		{
			Query:          "homomorphic encryption",
			ExpectedDocIDs: []string{"STOC:Gen09", "ITCS:BraGenVai12", "C:BonFra01"},
			Description:    "bare terms widen the result set",
		},
		{
			Query:          "homomorphic AND circuit",
			ExpectedDocIDs: []string{"C:GenHalSma12"},
			Description:    "AND requires every term",
		},
		{
			Query:          `"ideal lattices"`,
			ExpectedDocIDs: []string{"STOC:Gen09", "EC:LyuPeiReg10", "EC:GarGenHal13"},
			Description:    "quoted phrases match adjacent title words",
		},
		{
			Query:          `"learning with errors"`,
			ExpectedDocIDs: []string{"STOC:Reg05", "EC:LyuPeiReg10"},
			Description:    "phrases match across stopwords",
		},
		{
			Query:          "author:groth",
			ExpectedDocIDs: []string{"EC:Groth16"},
			Description:    "author scope targets the author field",
		},
		{
			Query:          "author:gentry",
			ExpectedDocIDs: []string{"C:GenHalSma12", "STOC:Gen09", "EC:GarGenHal13", "ITCS:BraGenVai12"},
			Description:    "author scope finds every paper by the author",
		},
		{
			Query:          "year:2001",
			ExpectedDocIDs: []string{"C:BonFra01", "AC:BonLynSha01"},
			Description:    "year scope is an exact numeric match",
		},
		{
			Query:          "2016",
			ExpectedDocIDs: []string{"EC:Groth16"},
			Description:    "a bare number also searches the year field",
		},
		{
			Query:          "title:pairing",
			ExpectedDocIDs: []string{"C:BonFra01", "AC:BonLynSha01", "EC:Groth16"},
			Description:    "title scope targets the title field",
		},
		{
			Query:          `title:"mental game"`,
			ExpectedDocIDs: []string{"STOC:GolMicWid87"},
			Description:    "field scope combines with a quoted phrase",
		},
		{
			Query:          "GHS12",
			ExpectedDocIDs: []string{"C:GenHalSma12"},
			Description:    "citation-key acronyms are searchable",
		},
		{
			Query:          "bls01",
			ExpectedDocIDs: []string{"AC:BonLynSha01"},
			Description:    "acronyms match case-insensitively",
		},
		{
			Query:          "gmw AND mental",
			ExpectedDocIDs: []string{"STOC:GolMicWid87"},
			Description:    "acronym and title term combine under AND",
		},
		{
			Query:          "id:EC:Groth16",
			ExpectedDocIDs: []string{"EC:Groth16"},
			Description:    "id scope keeps the colons inside a citation key",
		},
		{
			Query:          "note:https://eprint.iacr.org/2012/099",
			ExpectedDocIDs: []string{"C:GenHalSma12"},
			Description:    "note scope matches the archive link taken from the preprint",
		},
		{
			Query:          "weil OR oracles",
			ExpectedDocIDs: []string{"C:BonFra01", "AC:BonLynSha01", "CCS:BelRog93"},
			Description:    "explicit OR widens the result set",
		},
		{
			Query:          "author:regev AND year:2010",
			ExpectedDocIDs: []string{"EC:LyuPeiReg10"},
			Description:    "scoped terms combine with AND",
		},
		{
			Query:          "onion",
			ExpectedDocIDs: []string{"EPRINT:Sol21"},
			Description:    "preprints without a published version stay searchable",
		},
	}
}

// BibText renders the corpus as the main bibliography file.
func (c *Corpus) BibText() string {
	var b strings.Builder
	for _, e := range c.Entries {
		typ := e.Type
		if typ == "" {
			typ = "InProceedings"
		}
		fmt.Fprintf(&b, "@%s{%s,\n", typ, e.Key)
		fmt.Fprintf(&b, "  author = {%s},\n", formatAuthors(e.Authors))
		fmt.Fprintf(&b, "  title = {%s},\n", e.Title)
		fmt.Fprintf(&b, "  year = {%s},\n", e.Year)
		if e.Pages != "" {
			fmt.Fprintf(&b, "  pages = {%s},\n", e.Pages)
		}
		if e.Publisher != "" {
			fmt.Fprintf(&b, "  publisher = %s,\n", e.Publisher)
		}
		if e.Note != "" {
			if e.NoteMacro {
				fmt.Fprintf(&b, "  note = %s,\n", e.Note)
			} else {
				fmt.Fprintf(&b, "  note = {%s},\n", e.Note)
			}
		}
		b.WriteString("}\n\n")
	}
	return b.String()
}

// formatAuthors breaks author lists onto continuation lines the way cryptobib
// formats them, so parsing has to cope with embedded newlines.
func formatAuthors(authors string) string {
	return strings.ReplaceAll(authors, " and ", " and\n            ")
}

// AbbrevText renders the abbreviations file that the main bibliography
// depends on. It must be parsed first.
func AbbrevText() string {
	return `@string{springer = {Springer}}
@string{bgvnote = {\url{https://eprint.iacr.org/2011/277}}}
`
}
