package index

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/hyperjump/bibfind/internal/models"
)

// searchFields are the fields an unscoped term is matched against.
var searchFields = []string{models.FieldTitle, models.FieldAuthor, models.FieldAcronyms}

// scopableFields are the fields a query may target with field:term.
var scopableFields = map[string]bool{
	models.FieldID:       true,
	models.FieldTitle:    true,
	models.FieldAuthor:   true,
	models.FieldYear:     true,
	models.FieldNote:     true,
	models.FieldAcronyms: true,
}

// CompileQuery parses the query grammar and compiles it to an executable
// query tree. Bare terms are OR-combined; explicit AND binds tighter than
// OR; field:term scopes a term to one field; double quotes group a phrase.
// An unscoped term matches title, author, and acronyms, and additionally the
// year field when the term is an integer. Malformed input returns a
// *QueryParseError.
func CompileQuery(q string) (query.Query, error) {
	toks, err := lex(q)
	if err != nil {
		return nil, &QueryParseError{Query: q, Msg: err.Error()}
	}
	if len(toks) == 0 {
		return nil, &QueryParseError{Query: q, Msg: "empty query"}
	}
	p := &parser{toks: toks}
	compiled, err := p.parseOr()
	if err != nil {
		return nil, &QueryParseError{Query: q, Msg: err.Error()}
	}
	if p.pos != len(p.toks) {
		return nil, &QueryParseError{Query: q, Msg: fmt.Sprintf("unexpected %q", p.toks[p.pos].describe())}
	}
	return compiled, nil
}

// token is one lexed unit of a query: a word or phrase with an optional
// field scope, or an AND/OR operator.
type token struct {
	field  string
	text   string
	phrase bool
	op     string
}

func (t token) describe() string {
	if t.op != "" {
		return t.op
	}
	if t.field != "" {
		return t.field + ":" + t.text
	}
	return t.text
}

func lex(input string) ([]token, error) {
	var toks []token
	i, n := 0, len(input)
	for i < n {
		for i < n && isQuerySpace(input[i]) {
			i++
		}
		if i >= n {
			break
		}
		var field string
		if j := scanFieldPrefix(input, i); j > i {
			field = input[i : j-1]
			if j >= n || isQuerySpace(input[j]) {
				return nil, fmt.Errorf("missing term after %q", field+":")
			}
			i = j
		}
		if input[i] == '"' {
			rest := input[i+1:]
			end := strings.IndexByte(rest, '"')
			if end < 0 {
				return nil, fmt.Errorf("unterminated quote")
			}
			toks = append(toks, token{field: field, text: rest[:end], phrase: true})
			i += end + 2
			continue
		}
		start := i
		for i < n && !isQuerySpace(input[i]) {
			i++
		}
		word := input[start:i]
		if field == "" && (word == "AND" || word == "OR") {
			toks = append(toks, token{op: word})
			continue
		}
		toks = append(toks, token{field: field, text: word})
	}
	return toks, nil
}

// scanFieldPrefix reports the position just past "name:" when input at i
// starts with a letters-only field name and a colon; otherwise it returns i.
func scanFieldPrefix(input string, i int) int {
	j := i
	for j < len(input) && isFieldLetter(input[j]) {
		j++
	}
	if j > i && j < len(input) && input[j] == ':' {
		return j + 1
	}
	return i
}

func isQuerySpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isFieldLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// parser implements the grammar
//
//	query := or
//	or    := and ((OR | ) and)*     adjacent groups OR together
//	and   := term (AND term)*
type parser struct {
	toks []token
	pos  int
}

func (p *parser) parseOr() (query.Query, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	operands := []query.Query{first}
	for {
		switch {
		case p.peekOp("OR"):
			p.pos++
		case p.peekTerm():
		default:
			if len(operands) == 1 {
				return operands[0], nil
			}
			return bleve.NewDisjunctionQuery(operands...), nil
		}
		next, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		operands = append(operands, next)
	}
}

func (p *parser) parseAnd() (query.Query, error) {
	first, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	operands := []query.Query{first}
	for p.peekOp("AND") {
		p.pos++
		next, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		operands = append(operands, next)
	}
	if len(operands) == 1 {
		return operands[0], nil
	}
	return bleve.NewConjunctionQuery(operands...), nil
}

func (p *parser) parseTerm() (query.Query, error) {
	if p.pos >= len(p.toks) {
		return nil, fmt.Errorf("unexpected end of query")
	}
	t := p.toks[p.pos]
	if t.op != "" {
		return nil, fmt.Errorf("unexpected %s", t.op)
	}
	p.pos++
	return compileTerm(t)
}

func (p *parser) peekOp(op string) bool {
	return p.pos < len(p.toks) && p.toks[p.pos].op == op
}

func (p *parser) peekTerm() bool {
	return p.pos < len(p.toks) && p.toks[p.pos].op == ""
}

func compileTerm(t token) (query.Query, error) {
	if t.field != "" {
		if !scopableFields[t.field] {
			return nil, fmt.Errorf("unknown field %q (searchable fields: %s)", t.field, scopableFieldNames())
		}
		if t.field == models.FieldYear {
			n, err := strconv.Atoi(t.text)
			if err != nil {
				return nil, fmt.Errorf("field %q requires an integer, got %q", models.FieldYear, t.text)
			}
			return yearQuery(n), nil
		}
		return matchQuery(t.text, t.field, t.phrase), nil
	}

	operands := make([]query.Query, 0, len(searchFields)+1)
	for _, f := range searchFields {
		operands = append(operands, matchQuery(t.text, f, t.phrase))
	}
	if !t.phrase {
		if n, err := strconv.Atoi(t.text); err == nil {
			operands = append(operands, yearQuery(n))
		}
	}
	return bleve.NewDisjunctionQuery(operands...), nil
}

func matchQuery(text, field string, phrase bool) query.Query {
	if phrase {
		q := bleve.NewMatchPhraseQuery(text)
		q.SetField(field)
		return q
	}
	q := bleve.NewMatchQuery(text)
	q.SetField(field)
	return q
}

func yearQuery(year int) query.Query {
	val := float64(year)
	inclusive := true
	q := bleve.NewNumericRangeInclusiveQuery(&val, &val, &inclusive, &inclusive)
	q.SetField(models.FieldYear)
	return q
}

func scopableFieldNames() string {
	names := make([]string, 0, len(scopableFields))
	for f := range scopableFields {
		names = append(names, f)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
