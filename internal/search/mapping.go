package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the mapping for palette documents.
//
// Names are full text with English stemming. Slugs, kinds and hex colours
// are keywords so they match exactly.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	nameFieldMapping := bleve.NewTextFieldMapping()
	nameFieldMapping.Analyzer = en.AnalyzerName
	nameFieldMapping.Store = true
	nameFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("name", nameFieldMapping)

	for _, field := range []string{"slug", "kind", "bg_color", "colors"} {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = keyword.Name
		fm.Store = field == "kind"
		docMapping.AddFieldMappingsAt(field, fm)
	}

	indexFieldMapping := bleve.NewNumericFieldMapping()
	indexFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("index", indexFieldMapping)

	countFieldMapping := bleve.NewNumericFieldMapping()
	countFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("color_count", countFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
