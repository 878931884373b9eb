package commands

import "github.com/rios0rios0/cdlist/internal/domain/entities"

// ClassifyLockFile exports classifyLockFile for testing.
var ClassifyLockFile = classifyLockFile //nolint:gochecknoglobals // test export

// ClassifyCurationPR exports classifyCurationPR for testing.
var ClassifyCurationPR = classifyCurationPR //nolint:gochecknoglobals // test export

// ClassifyComponentList exports classifyComponentList for testing.
var ClassifyComponentList = classifyComponentList //nolint:gochecknoglobals // test export

// ClassifyPath exports classifyPath for testing.
var ClassifyPath = classifyPath //nolint:gochecknoglobals // test export

// NpmCoordinate exports npmCoordinate for testing.
var NpmCoordinate = npmCoordinate //nolint:gochecknoglobals // test export

// IsJSON exports isJSON for testing.
var IsJSON = isJSON //nolint:gochecknoglobals // test export

// MergeResult exports mergeResult for testing.
func MergeResult(into *entities.ImportResult, member entities.ImportResult) {
	mergeResult(into, member)
}
