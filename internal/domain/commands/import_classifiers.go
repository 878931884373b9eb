package commands

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/rios0rios0/cdlist/internal/domain/entities"
)

const (
	npmType          = "npm"
	npmProvider      = "npmjs"
	nodeModulesDir   = "node_modules/"
	curationsRoute   = "/curations"
	curationHost     = "github.com"
	pullSegment      = "pull"
	pullPathSegments = 4
)

// importInput is the dropped or pasted content, decoded once for every classifier.
type importInput struct {
	text   string
	object map[string]any
}

func newImportInput(content string) importInput {
	input := importInput{text: strings.TrimSpace(content)}
	if strings.HasPrefix(input.text, "{") {
		var object map[string]any
		if err := json.Unmarshal([]byte(input.text), &object); err == nil {
			input.object = object
		}
	}
	return input
}

// objectClassifier recognizes one shape of decoded JSON object.
type objectClassifier func(object map[string]any) (entities.ImportResult, bool)

// objectClassifiers run in priority order; the first match wins.
//
//nolint:gochecknoglobals // read-only classifier chain
var objectClassifiers = []objectClassifier{
	classifySingleObject,
	classifyLockFile,
	classifyComponentList,
}

// classifyObject runs the object classifiers over an already decoded object.
func classifyObject(object map[string]any) (entities.ImportResult, bool) {
	if object == nil {
		return entities.ImportResult{}, false
	}
	for _, classifier := range objectClassifiers {
		if result, ok := classifier(object); ok {
			return result, true
		}
	}
	return entities.ImportResult{}, false
}

// classifyListDocument decodes a bundle member or file and accepts only list shapes.
func classifyListDocument(name, content string) (entities.ImportResult, error) {
	var object map[string]any
	if err := json.Unmarshal([]byte(content), &object); err != nil || object == nil {
		return entities.ImportResult{}, fmt.Errorf("%s: %w", name, entities.ErrInvalidListFile)
	}
	result, ok := classifyObject(object)
	if !ok {
		return entities.ImportResult{}, fmt.Errorf("%s: %w", name, entities.ErrInvalidListFile)
	}
	return result, nil
}

// classifySingleObject matches a definition carrying a "coordinates" object or a bare
// coordinate naming at least its type and name.
func classifySingleObject(object map[string]any) (entities.ImportResult, bool) {
	_, nested := object["coordinates"].(map[string]any)
	_, hasType := object["type"].(string)
	_, hasName := object["name"].(string)
	if !nested && !(hasType && hasName) {
		return entities.ImportResult{}, false
	}

	coordinate, ok := entities.ValidateAndCreate(object)
	if !ok {
		return entities.ImportResult{}, false
	}
	return entities.ImportResult{
		Kind:        entities.ImportCoordinate,
		Coordinates: []entities.Coordinate{coordinate},
	}, true
}

// classifyLockFile matches an npm lock file. Entries of "dependencies" are keyed by
// name or scope/name; v2 and v3 lock files also list "packages" keyed by their
// node_modules path. Entries without a version are skipped.
func classifyLockFile(object map[string]any) (entities.ImportResult, bool) {
	dependencies, hasDependencies := object["dependencies"].(map[string]any)
	packages, hasPackages := object["packages"].(map[string]any)
	if !hasDependencies && !hasPackages {
		return entities.ImportResult{}, false
	}

	seen := make(map[string]struct{})
	coordinates := make([]entities.Coordinate, 0, len(dependencies))
	collect := func(name string, raw any) {
		entry, ok := raw.(map[string]any)
		if !ok {
			return
		}
		version, _ := entry["version"].(string)
		coordinate, valid := npmCoordinate(name, version)
		if !valid {
			return
		}
		key := coordinate.ToPath()
		if _, duplicate := seen[key]; duplicate {
			return
		}
		seen[key] = struct{}{}
		coordinates = append(coordinates, coordinate)
	}

	for _, name := range slices.Sorted(maps.Keys(dependencies)) {
		collect(name, dependencies[name])
	}
	for _, path := range slices.Sorted(maps.Keys(packages)) {
		index := strings.LastIndex(path, nodeModulesDir)
		if index < 0 {
			continue
		}
		collect(path[index+len(nodeModulesDir):], packages[path])
	}

	return entities.ImportResult{Kind: entities.ImportLockFile, Coordinates: coordinates}, true
}

// npmCoordinate splits a lock file key on its first "/" into namespace and name.
func npmCoordinate(key, version string) (entities.Coordinate, bool) {
	key, version = strings.TrimSpace(key), strings.TrimSpace(version)
	if key == "" || version == "" {
		return entities.Coordinate{}, false
	}
	coordinate := entities.Coordinate{Type: npmType, Provider: npmProvider, Name: key, Revision: version}
	if namespace, name, found := strings.Cut(key, "/"); found {
		coordinate.Namespace, coordinate.Name = namespace, name
	}
	return entities.ValidateAndCreate(coordinate)
}

// classifyComponentList matches a saved list: a "coordinates" array, optionally with
// the filter and sort it was saved with. Invalid members are dropped.
func classifyComponentList(object map[string]any) (entities.ImportResult, bool) {
	members, ok := object["coordinates"].([]any)
	if !ok {
		return entities.ImportResult{}, false
	}

	result := entities.ImportResult{
		Kind:        entities.ImportComponentList,
		Coordinates: make([]entities.Coordinate, 0, len(members)),
	}
	for _, member := range members {
		if coordinate, valid := entities.ValidateAndCreate(member); valid {
			result.Coordinates = append(result.Coordinates, coordinate)
		}
	}
	if raw, present := object["filter"].(map[string]any); present {
		result.Filter = make(entities.Filter, len(raw))
		for field, value := range raw {
			if text, isText := value.(string); isText {
				result.Filter[field] = text
			}
		}
	}
	if raw, present := object["sortBy"].(map[string]any); present {
		sortBy := &entities.SortBy{}
		sortBy.Field, _ = raw["field"].(string)
		sortBy.Descending, _ = raw["descending"].(bool)
		result.SortBy = sortBy
	}
	return result, true
}

// classifyEntityURL matches a provider web URL naming a component.
func classifyEntityURL(text string) (entities.ImportResult, bool) {
	coordinate, ok := entities.FromURL(text)
	if !ok {
		return entities.ImportResult{}, false
	}
	return entities.ImportResult{
		Kind:        entities.ImportEntityURL,
		Coordinates: []entities.Coordinate{coordinate},
	}, true
}

// classifyCurationPR matches https://github.com/{org}/{repo}/pull/{number} for the
// curation organization and returns the route of that curation.
func classifyCurationPR(text, curationOrg string) (entities.ImportResult, bool) {
	parsed, err := url.Parse(text)
	if err != nil || !strings.EqualFold(parsed.Hostname(), curationHost) {
		return entities.ImportResult{}, false
	}
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segments) != pullPathSegments {
		return entities.ImportResult{}, false
	}
	org, kind, number := segments[0], segments[2], segments[3]
	if !strings.EqualFold(org, curationOrg) || kind != pullSegment || !isDigits(number) {
		return entities.ImportResult{}, false
	}
	return entities.ImportResult{
		Kind:  entities.ImportCurationPR,
		Route: curationsRoute + "/" + number,
	}, true
}

// classifyPath matches a canonical key such as npm/npmjs/-/lodash/4.17.21.
func classifyPath(text string) (entities.ImportResult, bool) {
	if strings.Contains(text, "://") || strings.ContainsAny(text, " \t\n") {
		return entities.ImportResult{}, false
	}
	parsed, err := entities.FromPath(text)
	if err != nil {
		return entities.ImportResult{}, false
	}
	coordinate, ok := entities.ValidateAndCreate(parsed)
	if !ok {
		return entities.ImportResult{}, false
	}
	return entities.ImportResult{
		Kind:        entities.ImportCoordinate,
		Coordinates: []entities.Coordinate{coordinate},
	}, true
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// mergeResult folds one member result into an accumulated bundle or files result.
// Coordinates accumulate in member order; the last member naming a filter or sort wins.
func mergeResult(into *entities.ImportResult, member entities.ImportResult) {
	into.Coordinates = append(into.Coordinates, member.Coordinates...)
	if member.Filter != nil {
		into.Filter = member.Filter
	}
	if member.SortBy != nil {
		into.SortBy = member.SortBy
	}
}
