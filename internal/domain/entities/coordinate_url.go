package entities

import (
	"net/url"
	"strings"
)

// urlParser extracts a coordinate from the path segments of a recognized host.
type urlParser func(segments []string) (Coordinate, bool)

//nolint:gochecknoglobals // read-only lookup table
var urlParsers = map[string]urlParser{
	"github.com":        parseGitHubURL,
	"gitlab.com":        parseGitLabURL,
	"npmjs.com":         parseNpmURL,
	"nuget.org":         parseNuGetURL,
	"pypi.org":          parsePyPIURL,
	"crates.io":         parseCratesURL,
	"rubygems.org":      parseRubyGemsURL,
	"mvnrepository.com": parseMvnRepositoryURL,
	"search.maven.org":  parseMavenSearchURL,
	"packagist.org":     parsePackagistURL,
	"pkg.go.dev":        parseGoURL,
}

// FromURL recognizes provider-specific web URLs (GitHub, GitLab, npm, NuGet, PyPI,
// crates.io, RubyGems, Maven, Packagist, pkg.go.dev) and extracts the coordinate.
// It returns false when the text matches no known shape.
func FromURL(text string) (Coordinate, bool) {
	parsed, err := url.Parse(strings.TrimSpace(text))
	if err != nil || (parsed.Scheme != "https" && parsed.Scheme != "http") {
		return Coordinate{}, false
	}

	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	parser, ok := urlParsers[host]
	if !ok {
		return Coordinate{}, false
	}

	segments := splitPath(parsed.EscapedPath())
	if len(segments) == 0 {
		return Coordinate{}, false
	}

	coordinate, ok := parser(segments)
	if !ok || coordinate.Name == "" {
		return Coordinate{}, false
	}
	return coordinate, true
}

func splitPath(escapedPath string) []string {
	raw := strings.Split(strings.Trim(escapedPath, "/"), "/")
	segments := make([]string, 0, len(raw))
	for _, segment := range raw {
		if segment == "" {
			continue
		}
		if unescaped, err := url.PathUnescape(segment); err == nil {
			segment = unescaped
		}
		segments = append(segments, segment)
	}
	return segments
}

// parseGitHubURL handles /{org}/{repo}, /tree/{ref}, /commit/{sha} and /releases/tag/{tag}.
func parseGitHubURL(segments []string) (Coordinate, bool) {
	if len(segments) < 2 {
		return Coordinate{}, false
	}
	coordinate := Coordinate{
		Type:      "git",
		Provider:  "github",
		Namespace: segments[0],
		Name:      strings.TrimSuffix(segments[1], ".git"),
	}

	rest := segments[2:]
	switch {
	case len(rest) == 0:
	case len(rest) >= 2 && (rest[0] == "tree" || rest[0] == "commit"):
		coordinate.Revision = rest[1]
	case len(rest) >= 3 && rest[0] == "releases" && rest[1] == "tag":
		coordinate.Revision = rest[2]
	default:
		return Coordinate{}, false
	}
	return coordinate, true
}

// parseGitLabURL handles nested groups and the "/-/" separator before tree, tags or commit.
func parseGitLabURL(segments []string) (Coordinate, bool) {
	project := segments
	var rest []string
	for i, segment := range segments {
		if segment == "-" {
			project, rest = segments[:i], segments[i+1:]
			break
		}
	}
	if len(project) < 2 {
		return Coordinate{}, false
	}

	coordinate := Coordinate{
		Type:      "git",
		Provider:  "gitlab",
		Namespace: strings.Join(project[:len(project)-1], "/"),
		Name:      strings.TrimSuffix(project[len(project)-1], ".git"),
	}
	if len(rest) >= 2 && (rest[0] == "tree" || rest[0] == "tags" || rest[0] == "commit") {
		coordinate.Revision = rest[1]
	} else if len(rest) > 0 {
		return Coordinate{}, false
	}
	return coordinate, true
}

// parseNpmURL handles /package/[@scope/]name[/v/version].
func parseNpmURL(segments []string) (Coordinate, bool) {
	if len(segments) < 2 || segments[0] != "package" {
		return Coordinate{}, false
	}
	coordinate := Coordinate{Type: "npm", Provider: "npmjs"}
	rest := segments[1:]
	if strings.HasPrefix(rest[0], "@") {
		if len(rest) < 2 {
			return Coordinate{}, false
		}
		coordinate.Namespace = rest[0]
		rest = rest[1:]
	}
	coordinate.Name = rest[0]
	if len(rest) >= 3 && rest[1] == "v" {
		coordinate.Revision = rest[2]
	}
	return coordinate, true
}

func parseNuGetURL(segments []string) (Coordinate, bool) {
	return namedVersionURL(segments, "packages", Coordinate{Type: "nuget", Provider: "nuget"})
}

func parsePyPIURL(segments []string) (Coordinate, bool) {
	return namedVersionURL(segments, "project", Coordinate{Type: "pypi", Provider: "pypi"})
}

func parseCratesURL(segments []string) (Coordinate, bool) {
	return namedVersionURL(segments, "crates", Coordinate{Type: "crate", Provider: "cratesio"})
}

// parseRubyGemsURL handles /gems/{name}[/versions/{version}].
func parseRubyGemsURL(segments []string) (Coordinate, bool) {
	if len(segments) < 2 || segments[0] != "gems" {
		return Coordinate{}, false
	}
	coordinate := Coordinate{Type: "gem", Provider: "rubygems", Name: segments[1]}
	if len(segments) >= 4 && segments[2] == "versions" {
		coordinate.Revision = segments[3]
	}
	return coordinate, true
}

// parseMvnRepositoryURL handles /artifact/{group}/{artifact}[/{version}].
func parseMvnRepositoryURL(segments []string) (Coordinate, bool) {
	if len(segments) < 3 || segments[0] != "artifact" {
		return Coordinate{}, false
	}
	coordinate := Coordinate{
		Type:      "maven",
		Provider:  "mavencentral",
		Namespace: segments[1],
		Name:      segments[2],
	}
	if len(segments) >= 4 {
		coordinate.Revision = segments[3]
	}
	return coordinate, true
}

// parseMavenSearchURL handles /artifact/{group}/{artifact}/{version}/{packaging}.
func parseMavenSearchURL(segments []string) (Coordinate, bool) {
	if len(segments) < 4 || segments[0] != "artifact" {
		return Coordinate{}, false
	}
	return Coordinate{
		Type:      "maven",
		Provider:  "mavencentral",
		Namespace: segments[1],
		Name:      segments[2],
		Revision:  segments[3],
	}, true
}

// parsePackagistURL handles /packages/{vendor}/{name}.
func parsePackagistURL(segments []string) (Coordinate, bool) {
	if len(segments) < 3 || segments[0] != "packages" {
		return Coordinate{}, false
	}
	return Coordinate{
		Type:      "composer",
		Provider:  "packagist",
		Namespace: segments[1],
		Name:      segments[2],
	}, true
}

// parseGoURL handles /{module path}[@version], keeping the module path prefix as namespace.
func parseGoURL(segments []string) (Coordinate, bool) {
	last := segments[len(segments)-1]
	name, revision, _ := strings.Cut(last, "@")
	return Coordinate{
		Type:      "go",
		Provider:  "golang",
		Namespace: strings.Join(segments[:len(segments)-1], "/"),
		Name:      name,
		Revision:  revision,
	}, true
}

func namedVersionURL(segments []string, marker string, base Coordinate) (Coordinate, bool) {
	if len(segments) < 2 || segments[0] != marker {
		return Coordinate{}, false
	}
	base.Name = segments[1]
	if len(segments) >= 3 {
		base.Revision = segments[2]
	}
	return base, true
}
