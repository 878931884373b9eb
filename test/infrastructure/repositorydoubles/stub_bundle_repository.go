//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"
	"strings"

	"github.com/rios0rios0/cdlist/internal/domain/entities"
	"github.com/rios0rios0/cdlist/internal/domain/repositories"
)

// StubBundleRepository implements repositories.BundleRepository for URLs starting with Prefix.
type StubBundleRepository struct {
	StoreName string
	Prefix    string // e.g. "https://bundles.test/"

	// --- Fetch ---
	Files    map[string]string
	FetchErr error
	Fetched  []string

	// --- Create ---
	Location  string
	CreateErr error
	Created   map[string]string // name -> content
}

var _ repositories.BundleRepository = (*StubBundleRepository)(nil)

func (s *StubBundleRepository) Name() string { return s.StoreName }

func (s *StubBundleRepository) ParseReference(rawURL string) (string, bool, error) {
	if s.Prefix == "" || !strings.HasPrefix(rawURL, s.Prefix) {
		return "", false, nil
	}
	id := strings.TrimPrefix(rawURL, s.Prefix)
	if id == "" {
		return "", true, fmt.Errorf("%s: %w", rawURL, entities.ErrMalformedBundleURL)
	}
	return id, true, nil
}

func (s *StubBundleRepository) Fetch(_ context.Context, id string) (map[string]string, error) {
	s.Fetched = append(s.Fetched, id)
	return s.Files, s.FetchErr
}

func (s *StubBundleRepository) Create(_ context.Context, name, content string) (string, error) {
	if s.CreateErr != nil {
		return "", s.CreateErr
	}
	if s.Created == nil {
		s.Created = make(map[string]string)
	}
	s.Created[name] = content
	return s.Location, nil
}
