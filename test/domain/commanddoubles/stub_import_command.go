//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/cdlist/internal/domain/commands"
	"github.com/rios0rios0/cdlist/internal/domain/entities"
)

// StubImportCommand is a stub implementation of commands.Import.
type StubImportCommand struct {
	Result    entities.ImportResult
	ImportErr error

	ImportedTexts []string
	ImportedFiles [][]entities.DroppedFile
}

var _ commands.Import = (*StubImportCommand)(nil)

func (s *StubImportCommand) Detect(_ context.Context, _ string) (entities.ImportResult, error) {
	return s.Result, s.ImportErr
}

func (s *StubImportCommand) Import(_ context.Context, text string) (entities.ImportResult, error) {
	s.ImportedTexts = append(s.ImportedTexts, text)
	return s.Result, s.ImportErr
}

func (s *StubImportCommand) ImportFiles(
	_ context.Context,
	files []entities.DroppedFile,
) (entities.ImportResult, error) {
	s.ImportedFiles = append(s.ImportedFiles, files)
	return s.Result, s.ImportErr
}
