package domain

// Place is where a move happens.
//
// A place always carries the raw text the host typed. When the host picked a
// suggestion from the place lookup, the remaining fields are filled in and the
// place is resolved; otherwise they stay zero and only the text is shown.
type Place struct {
	Text      string   `json:"text"`
	Name      string   `json:"name,omitempty"`
	URL       string   `json:"url,omitempty"`
	PlaceID   string   `json:"place_id,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Resolved reports whether the place carries coordinates from a lookup,
// as opposed to free text only.
func (p Place) Resolved() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// DisplayName returns the name to show for the place: the looked-up venue
// name when resolved, the raw text otherwise.
func (p Place) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Text
}
