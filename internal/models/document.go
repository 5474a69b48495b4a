package models

// Names of the fields stored in the search index.
const (
	FieldID       = "id"
	FieldTitle    = "title"
	FieldAuthor   = "author"
	FieldYear     = "year"
	FieldNote     = "note"
	FieldBibtex   = "bibtex"
	FieldAcronyms = "acronyms"
)

// DisplayFields lists the stored fields shown for each result, in display
// order. The id is the result heading and bibtex is raw output only, so
// neither appears here.
var DisplayFields = []string{FieldTitle, FieldAuthor, FieldYear, FieldNote, FieldAcronyms}

// Document is the normalized, indexable form of one bibliographic record.
// Zero values mean absent: an empty string, a zero Year, or an empty
// Acronyms slice is omitted from the index rather than stored empty.
type Document struct {
	ID       string   `json:"id"`
	Title    string   `json:"title,omitempty"`
	Author   string   `json:"author,omitempty"`
	Year     int      `json:"year,omitempty"`
	Note     string   `json:"note,omitempty"`
	Bibtex   string   `json:"bibtex,omitempty"`
	Acronyms []string `json:"acronyms,omitempty"`
}
