package entities

// SharePayload is the complete serializable state needed to rebuild a working list.
// Filter is written as null when unset so an empty filter survives a round trip.
type SharePayload struct {
	Filter      Filter       `json:"filter"`
	SortBy      *SortBy      `json:"sortBy,omitempty"`
	Coordinates []Coordinate `json:"coordinates"`
}

// BuildSaveSpec returns the coordinates of the entries in list order.
func BuildSaveSpec(entries []Entry) []Coordinate {
	coordinates := make([]Coordinate, len(entries))
	for i, entry := range entries {
		coordinates[i] = entry.Coordinate
	}
	return coordinates
}
