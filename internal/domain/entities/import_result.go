package entities

// ImportKind tags which classifier recognized an imported input.
type ImportKind string

const (
	ImportCoordinate    ImportKind = "coordinate"
	ImportLockFile      ImportKind = "lockfile"
	ImportComponentList ImportKind = "list"
	ImportEntityURL     ImportKind = "url"
	ImportCurationPR    ImportKind = "curation"
	ImportRemoteList    ImportKind = "bundle"
	ImportFiles         ImportKind = "files"
	ImportUnrecognized  ImportKind = "unrecognized"
)

// ImportResult is the tagged outcome of classifying dropped or pasted content.
type ImportResult struct {
	Kind        ImportKind   `json:"kind"`
	Coordinates []Coordinate `json:"coordinates,omitempty"`
	Filter      Filter       `json:"filter,omitempty"`
	SortBy      *SortBy      `json:"sortBy,omitempty"`
	Route       string       `json:"route,omitempty"`    // navigation target of a curation pull request
	Rejected    []string     `json:"rejected,omitempty"` // files refused because of their content type
	Invalid     []string     `json:"invalid,omitempty"`  // bundle members or files that are not component lists
}

// Recognized reports whether any classifier matched.
func (r ImportResult) Recognized() bool {
	return r.Kind != "" && r.Kind != ImportUnrecognized
}

// IsList reports whether the result should be loaded as a list (keeping filter and
// sort) rather than added coordinate by coordinate.
func (r ImportResult) IsList() bool {
	switch r.Kind {
	case ImportLockFile, ImportComponentList, ImportRemoteList, ImportFiles:
		return true
	default:
		return false
	}
}

// DroppedFile is a local file handed to the importer.
type DroppedFile struct {
	Name        string
	ContentType string
	Content     []byte
}
