package entities

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	defaultMetadataURL     = "https://api.clearlydefined.io"
	defaultShareURL        = "https://clearlydefined.io"
	defaultCurationOrg     = "clearlydefined"
	defaultTimeout         = 30 * time.Second
	defaultSuggestionCache = 256
	defaultServerAddress   = ":8080"

	BundleProviderGitHub = "github"
	BundleProviderS3     = "s3"
	BundleProviderGitLab = "gitlab"

	defaultGitLabURL = "https://gitlab.com"
)

// Settings is the configuration of cdlist.
type Settings struct {
	Metadata    MetadataSettings   `yaml:"metadata"`
	Bundles     BundleSettings     `yaml:"bundles"`
	Share       ShareSettings      `yaml:"share"`
	Suggestions SuggestionSettings `yaml:"suggestions"`
	Server      ServerSettings     `yaml:"server"`
	CurationOrg string             `yaml:"curation_org"`
}

// MetadataSettings configures the definition API.
type MetadataSettings struct {
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"token"` // Inline, ${ENV_VAR}, or file path
	Timeout time.Duration `yaml:"timeout"`
}

// BundleSettings selects and configures the remote bundle store.
type BundleSettings struct {
	Provider string         `yaml:"provider"` // "github", "gitlab" or "s3"
	GitHub   GitHubSettings `yaml:"github"`
	GitLab   GitLabSettings `yaml:"gitlab"`
	S3       S3Settings     `yaml:"s3"`
}

// GitHubSettings configures gist access.
type GitHubSettings struct {
	Token string `yaml:"token"`
}

// GitLabSettings configures snippet access.
type GitLabSettings struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
}

// S3Settings configures an S3 compatible bucket used as bundle store.
type S3Settings struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// ShareSettings configures the links produced for shared lists.
type ShareSettings struct {
	BaseURL string `yaml:"base_url"`
}

// SuggestionSettings bounds the memo of prefix suggestions.
type SuggestionSettings struct {
	CacheSize int `yaml:"cache_size"`
}

// ServerSettings configures `cdlist serve`.
type ServerSettings struct {
	Address string `yaml:"address"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// NewSettings returns the defaults, overridden by the environment.
func NewSettings() *Settings {
	settings := &Settings{}
	settings.applyEnvironment()
	settings.applyDefaults()
	return settings
}

// loadEnvFile loads dotenv files into the environment. A missing file is not an error.
func loadEnvFile(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Load reads a YAML configuration file into the settings. An empty path triggers
// auto-detection; when no file is found the current values are kept.
func (s *Settings) Load(path string) error {
	if err := loadEnvFile(); err != nil {
		logger.Debugf("Failed to load .env: %v", err)
	}

	if path == "" {
		found, err := FindConfigFile()
		if err != nil {
			logger.Debugf("No config file found, using defaults: %v", err)
			s.applyEnvironment()
			s.applyDefaults()
			return nil
		}
		path = found
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var loaded Settings
	if unmarshalErr := yaml.Unmarshal(data, &loaded); unmarshalErr != nil {
		return fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}
	loaded.Metadata.Token = resolveToken(loaded.Metadata.Token)
	loaded.Bundles.GitHub.Token = resolveToken(loaded.Bundles.GitHub.Token)
	loaded.Bundles.GitLab.Token = resolveToken(loaded.Bundles.GitLab.Token)
	loaded.Bundles.S3.AccessKey = resolveToken(loaded.Bundles.S3.AccessKey)
	loaded.Bundles.S3.SecretKey = resolveToken(loaded.Bundles.S3.SecretKey)

	loaded.applyEnvironment()
	loaded.applyDefaults()
	if validateErr := validate(&loaded); validateErr != nil {
		return validateErr
	}

	logger.Infof("Using config file: %s", path)
	*s = loaded
	return nil
}

// FindConfigFile searches for a configuration file in standard locations.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{".", ".config", "configs"}
	if homeDir != "" {
		locations = append(locations, homeDir, filepath.Join(homeDir, ".config"))
	}

	patterns := []string{".cdlist.yaml", ".cdlist.yml", "cdlist.yaml", "cdlist.yml"}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// applyEnvironment fills unset secrets from the usual environment variables.
func (s *Settings) applyEnvironment() {
	if s.Metadata.Token == "" {
		s.Metadata.Token = os.Getenv("CLEARLYDEFINED_TOKEN")
	}
	if s.Bundles.GitHub.Token == "" {
		s.Bundles.GitHub.Token = firstNonEmpty(os.Getenv("GITHUB_TOKEN"), os.Getenv("GH_TOKEN"))
	}
	if s.Bundles.GitLab.Token == "" {
		s.Bundles.GitLab.Token = os.Getenv("GITLAB_TOKEN")
	}
	if s.Bundles.S3.AccessKey == "" {
		s.Bundles.S3.AccessKey = os.Getenv("CDLIST_S3_ACCESS_KEY")
	}
	if s.Bundles.S3.SecretKey == "" {
		s.Bundles.S3.SecretKey = os.Getenv("CDLIST_S3_SECRET_KEY")
	}
}

func (s *Settings) applyDefaults() {
	s.Metadata.BaseURL = strings.TrimSuffix(firstNonEmpty(s.Metadata.BaseURL, defaultMetadataURL), "/")
	if s.Metadata.Timeout <= 0 {
		s.Metadata.Timeout = defaultTimeout
	}
	s.Bundles.Provider = firstNonEmpty(s.Bundles.Provider, BundleProviderGitHub)
	s.Bundles.GitLab.BaseURL = strings.TrimSuffix(firstNonEmpty(s.Bundles.GitLab.BaseURL, defaultGitLabURL), "/")
	s.Bundles.S3.Region = firstNonEmpty(s.Bundles.S3.Region, "us-east-1")
	s.Share.BaseURL = strings.TrimSuffix(firstNonEmpty(s.Share.BaseURL, defaultShareURL), "/")
	if s.Suggestions.CacheSize <= 0 {
		s.Suggestions.CacheSize = defaultSuggestionCache
	}
	s.Server.Address = firstNonEmpty(s.Server.Address, defaultServerAddress)
	s.CurationOrg = firstNonEmpty(s.CurationOrg, defaultCurationOrg)
}

// resolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func resolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// validate checks for inconsistent configuration values.
func validate(s *Settings) error {
	switch s.Bundles.Provider {
	case BundleProviderGitHub, BundleProviderGitLab:
	case BundleProviderS3:
		if s.Bundles.S3.Endpoint == "" || s.Bundles.S3.Bucket == "" {
			return errors.New("bundles.s3.endpoint and bundles.s3.bucket are required when bundles.provider is s3")
		}
	default:
		return fmt.Errorf("bundles.provider must be %q, %q or %q, got %q",
			BundleProviderGitHub, BundleProviderGitLab, BundleProviderS3, s.Bundles.Provider)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
