package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for move documents.
//
// The mapping is designed with these priorities:
//  1. Fast full-text search on titles with English stemming
//  2. Exact keyword matching for area and activity filters
//  3. Numeric range queries for start time
//  4. Term vectors enabled on key fields for highlighting
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()

	// Use English analyzer as default for text fields
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// --- Text fields (full-text searchable) ---

	// Title - primary search target
	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = en.AnalyzerName
	titleFieldMapping.Store = true
	titleFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	// Description - searchable but not stored (can be long)
	descFieldMapping := bleve.NewTextFieldMapping()
	descFieldMapping.Analyzer = en.AnalyzerName
	descFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("description", descFieldMapping)

	// Location - searchable with simple analyzer (no stemming on venue names)
	locationFieldMapping := bleve.NewTextFieldMapping()
	locationFieldMapping.Analyzer = simple.Name
	locationFieldMapping.Store = true
	locationFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("location", locationFieldMapping)

	// Host - searchable, simple analyzer so names stay intact
	hostFieldMapping := bleve.NewTextFieldMapping()
	hostFieldMapping.Analyzer = simple.Name
	hostFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("host", hostFieldMapping)

	// --- Keyword fields (exact match, facetable) ---

	// ID - stored but not analyzed
	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	// Area - for campus area filtering
	areaFieldMapping := bleve.NewTextFieldMapping()
	areaFieldMapping.Analyzer = keyword.Name
	areaFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("area", areaFieldMapping)

	// Activity type - for category filtering
	activityFieldMapping := bleve.NewTextFieldMapping()
	activityFieldMapping.Analyzer = keyword.Name
	activityFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("activity_type", activityFieldMapping)

	// --- Numeric fields (range queries, sorting) ---

	// Attendee count - for popularity sorting
	attendeeCountFieldMapping := bleve.NewNumericFieldMapping()
	attendeeCountFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("attendee_count", attendeeCountFieldMapping)

	// Start time - for range filtering and sorting
	startTimeFieldMapping := bleve.NewNumericFieldMapping()
	startTimeFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("start_time", startTimeFieldMapping)

	// Created at - for sorting by recency
	createdAtFieldMapping := bleve.NewNumericFieldMapping()
	createdAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("created_at", createdAtFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
