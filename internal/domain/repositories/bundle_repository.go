package repositories

import "context"

// BundleRepository abstracts a gist-like store of named files holding component lists.
type BundleRepository interface {
	// Name returns the store identifier (e.g. "github", "s3").
	Name() string

	// ParseReference extracts the bundle identifier from a URL pointing at this store.
	// It returns false when the URL belongs to another store and an error when it
	// belongs to this store but carries no identifier.
	ParseReference(rawURL string) (string, bool, error)

	// Fetch returns the files of a bundle, keyed by file name.
	Fetch(ctx context.Context, id string) (map[string]string, error)

	// Create stores a new single-file bundle and returns its URL.
	Create(ctx context.Context, name, content string) (string, error)
}
