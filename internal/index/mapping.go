package index

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	regexptokenizer "github.com/blevesearch/bleve/v2/analysis/tokenizer/regexp"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/hyperjump/bibfind/internal/models"
)

// acronymsAnalyzer splits the stored comma-joined acronym list into one token
// per item and lower-cases them, so acronym queries match case-insensitively.
const acronymsAnalyzer = "acronyms"

// buildIndexMapping defines the fixed document schema: id and note as exact
// keyword terms, title and author as analyzed text, year as a sortable
// numeric, bibtex stored but unsearchable, acronyms comma-tokenized.
func buildIndexMapping() (mapping.IndexMapping, error) {
	im := bleve.NewIndexMapping()
	err := im.AddCustomTokenizer("commas", map[string]interface{}{
		"type":   regexptokenizer.Name,
		"regexp": `[^,]+`,
	})
	if err != nil {
		return nil, err
	}
	err = im.AddCustomAnalyzer(acronymsAnalyzer, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     "commas",
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, err
	}

	docMapping := bleve.NewDocumentMapping()

	idField := bleve.NewKeywordFieldMapping()
	docMapping.AddFieldMappingsAt(models.FieldID, idField)

	textField := bleve.NewTextFieldMapping()
	textField.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt(models.FieldTitle, textField)
	docMapping.AddFieldMappingsAt(models.FieldAuthor, textField)

	yearField := bleve.NewNumericFieldMapping()
	docMapping.AddFieldMappingsAt(models.FieldYear, yearField)

	noteField := bleve.NewKeywordFieldMapping()
	docMapping.AddFieldMappingsAt(models.FieldNote, noteField)

	// Stored for raw output only.
	bibtexField := bleve.NewTextFieldMapping()
	bibtexField.Index = false
	bibtexField.IncludeTermVectors = false
	bibtexField.IncludeInAll = false
	docMapping.AddFieldMappingsAt(models.FieldBibtex, bibtexField)

	acronymsField := bleve.NewTextFieldMapping()
	acronymsField.Analyzer = acronymsAnalyzer
	docMapping.AddFieldMappingsAt(models.FieldAcronyms, acronymsField)

	im.AddDocumentMapping("entry", docMapping)
	im.DefaultType = "entry"
	im.DefaultMapping = docMapping
	return im, nil
}
