// Package search provides full-text search over moves using Bleve.
// The explore feed's filters stay exact-match; this index serves the
// dedicated search endpoint with fuzzy matching and relevance ranking.
package search

import (
	"github.com/campusmoves/campusmoves-server/internal/domain"
)

// SearchDocument is the document structure for the Bleve index.
//
// Design note: the host name and resolved place name are denormalized into
// the document so a single query covers everything a student might type.
// The trade-off is storage space for query performance.
type SearchDocument struct {
	// Identity
	ID string `json:"id"`

	// Primary searchable text
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"` // Raw text plus resolved place name
	Host        string `json:"host,omitempty"`

	// Keyword fields for exact filtering
	Area         string `json:"area"`
	ActivityType string `json:"activity_type"`

	// Numeric fields for range queries and sorting
	AttendeeCount int   `json:"attendee_count"`
	StartTime     int64 `json:"start_time"` // Unix millis
	CreatedAt     int64 `json:"created_at"` // Unix millis
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *SearchDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":             d.ID,
		"title":          d.Title,
		"area":           d.Area,
		"activity_type":  d.ActivityType,
		"attendee_count": d.AttendeeCount,
		"start_time":     d.StartTime,
		"created_at":     d.CreatedAt,
	}

	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.Location != "" {
		m["location"] = d.Location
	}
	if d.Host != "" {
		m["host"] = d.Host
	}

	return m
}

// MoveToSearchDocument converts a domain Move to a SearchDocument.
func MoveToSearchDocument(move *domain.Move) *SearchDocument {
	location := move.Location.Text
	if move.Location.Name != "" && move.Location.Name != move.Location.Text {
		location += " " + move.Location.Name
	}

	return &SearchDocument{
		ID:            move.ID,
		Title:         move.Title,
		Description:   move.Description,
		Location:      location,
		Host:          move.HostName,
		Area:          string(move.Area),
		ActivityType:  string(move.ActivityType),
		AttendeeCount: len(move.Attendees),
		StartTime:     move.StartTime.UnixMilli(),
		CreatedAt:     move.CreatedAt.UnixMilli(),
	}
}
