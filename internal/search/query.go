package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// SearchParams configures a search query.
type SearchParams struct {
	Query string // User's search query

	// Filters
	Areas         []string // Filter by exact campus areas
	ActivityTypes []string // Filter by exact activity types
	StartAfter    int64    // Earliest start time, unix millis (0 = no bound)
	StartBefore   int64    // Latest start time, unix millis (0 = no bound)

	// Pagination
	Limit  int
	Offset int

	// Sorting
	SortBy    string // "relevance", "recent", "popularity", "soonest"
	SortOrder string // "asc", "desc"

	// Options
	Highlight bool // Include match highlighting
}

// DefaultSearchParams returns sensible defaults.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		Limit:     20,
		Offset:    0,
		SortBy:    "relevance",
		SortOrder: "desc",
		Highlight: true,
	}
}

// SearchResult represents the search results.
type SearchResult struct {
	Query  string      `json:"query"`
	Total  uint64      `json:"total"`
	TookMs int64       `json:"took_ms"`
	Hits   []SearchHit `json:"hits"`
}

// SearchHit represents a single search result.
type SearchHit struct {
	ID            string            `json:"id"`
	Score         float64           `json:"score"`
	Title         string            `json:"title"`
	Location      string            `json:"location,omitempty"`
	Host          string            `json:"host,omitempty"`
	Area          string            `json:"area,omitempty"`
	ActivityType  string            `json:"activity_type,omitempty"`
	AttendeeCount int               `json:"attendee_count,omitempty"`
	StartTime     int64             `json:"start_time,omitempty"`
	Highlights    map[string]string `json:"highlights,omitempty"`
}

// Search executes a search query.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	searchQuery := buildSearchQuery(params)

	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)

	addSorting(searchRequest, params)

	if params.Highlight {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("title")
		searchRequest.Highlight.AddField("location")
		searchRequest.Highlight.AddField("host")
	}

	// Request stored fields
	searchRequest.Fields = []string{
		"id", "title", "location", "host", "area",
		"activity_type", "attendee_count", "start_time",
	}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		searchHit := SearchHit{
			ID:    hit.ID,
			Score: hit.Score,
		}

		if t, ok := hit.Fields["title"].(string); ok {
			searchHit.Title = t
		}
		if l, ok := hit.Fields["location"].(string); ok {
			searchHit.Location = l
		}
		if h, ok := hit.Fields["host"].(string); ok {
			searchHit.Host = h
		}
		if a, ok := hit.Fields["area"].(string); ok {
			searchHit.Area = a
		}
		if at, ok := hit.Fields["activity_type"].(string); ok {
			searchHit.ActivityType = at
		}
		if ac, ok := hit.Fields["attendee_count"].(float64); ok {
			searchHit.AttendeeCount = int(ac)
		}
		if st, ok := hit.Fields["start_time"].(float64); ok {
			searchHit.StartTime = int64(st)
		}

		if len(hit.Fragments) > 0 {
			searchHit.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					searchHit.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, searchHit)
	}

	return result, nil
}

// buildSearchQuery constructs the Bleve query from params.
func buildSearchQuery(params SearchParams) query.Query {
	var queries []query.Query

	// Main text query matches across title, location, host, and description,
	// with the title boosted and a fuzzy variant for typo tolerance.
	if params.Query != "" {
		textQueries := []query.Query{}

		titleMatch := bleve.NewMatchQuery(params.Query)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)
		textQueries = append(textQueries, titleMatch)

		locationMatch := bleve.NewMatchQuery(params.Query)
		locationMatch.SetField("location")
		locationMatch.SetBoost(1.5)
		textQueries = append(textQueries, locationMatch)

		hostMatch := bleve.NewMatchQuery(params.Query)
		hostMatch.SetField("host")
		hostMatch.SetBoost(1.5)
		textQueries = append(textQueries, hostMatch)

		descMatch := bleve.NewMatchQuery(params.Query)
		descMatch.SetField("description")
		textQueries = append(textQueries, descMatch)

		// Fuzzy matching for typo tolerance on title
		fuzzyQuery := bleve.NewFuzzyQuery(params.Query)
		fuzzyQuery.SetFuzziness(1)
		fuzzyQuery.SetField("title")
		fuzzyQuery.SetBoost(0.8)
		textQueries = append(textQueries, fuzzyQuery)

		// Prefix query for autocomplete (minimum 2 chars)
		if len(params.Query) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(params.Query))
			prefixQuery.SetField("title")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		// Combine with OR (match any field)
		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	// Area filter (exact match, OR across areas)
	if len(params.Areas) > 0 {
		areaQueries := make([]query.Query, len(params.Areas))
		for i, area := range params.Areas {
			aq := bleve.NewTermQuery(area)
			aq.SetField("area")
			areaQueries[i] = aq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(areaQueries...))
	}

	// Activity type filter
	if len(params.ActivityTypes) > 0 {
		activityQueries := make([]query.Query, len(params.ActivityTypes))
		for i, at := range params.ActivityTypes {
			aq := bleve.NewTermQuery(at)
			aq.SetField("activity_type")
			activityQueries[i] = aq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(activityQueries...))
	}

	// Start time range filter
	if params.StartAfter > 0 || params.StartBefore > 0 {
		minStart := float64(params.StartAfter)
		maxStart := float64(params.StartBefore)
		var minPtr, maxPtr *float64
		if params.StartAfter > 0 {
			minPtr = &minStart
		}
		if params.StartBefore > 0 {
			maxPtr = &maxStart
		}
		rangeQuery := bleve.NewNumericRangeQuery(minPtr, maxPtr)
		rangeQuery.SetField("start_time")
		queries = append(queries, rangeQuery)
	}

	// Combine all queries with AND
	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

// addSorting configures sort order.
func addSorting(req *bleve.SearchRequest, params SearchParams) {
	switch params.SortBy {
	case "recent":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"created_at"})
		} else {
			req.SortBy([]string{"-created_at"})
		}
	case "popularity":
		req.SortBy([]string{"-attendee_count", "-created_at"})
	case "soonest":
		req.SortBy([]string{"start_time"})
	default:
		// Relevance (score) is default - Bleve handles this
		req.SortBy([]string{"-_score"})
	}
}
