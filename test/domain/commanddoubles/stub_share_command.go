//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/cdlist/internal/domain/commands"
	"github.com/rios0rios0/cdlist/internal/domain/entities"
)

// StubShareCommand is a stub implementation of commands.Share.
type StubShareCommand struct {
	Payload  entities.SharePayload
	URL      string
	ShareErr error

	Added   int
	LoadErr error
	Tokens  []string

	SavedPath string
	SaveErr   error

	BundleURL string
	BundleErr error
}

var _ commands.Share = (*StubShareCommand)(nil)

func (s *StubShareCommand) BuildPayload() entities.SharePayload { return s.Payload }

func (s *StubShareCommand) ShareURL(_ entities.SharePayload) (string, error) {
	return s.URL, s.ShareErr
}

func (s *StubShareCommand) LoadSharedList(_ context.Context, token string) (int, error) {
	s.Tokens = append(s.Tokens, token)
	return s.Added, s.LoadErr
}

func (s *StubShareCommand) SaveFile(_ string, _ entities.SharePayload) (string, error) {
	return s.SavedPath, s.SaveErr
}

func (s *StubShareCommand) SaveBundle(_ context.Context, _ string, _ entities.SharePayload) (string, error) {
	return s.BundleURL, s.BundleErr
}
