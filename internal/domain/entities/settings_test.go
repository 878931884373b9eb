//go:build unit

package entities_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/cdlist/internal/domain/entities"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cdlist.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSettingsLoad(t *testing.T) {
	t.Run("should apply defaults for keys the file leaves out", func(t *testing.T) {
		// given
		path := writeConfig(t, "metadata:\n  base_url: https://api.example.test/\n")
		settings := entities.NewSettings()

		// when
		err := settings.Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.test", settings.Metadata.BaseURL)
		assert.Equal(t, 30*time.Second, settings.Metadata.Timeout)
		assert.Equal(t, entities.BundleProviderGitHub, settings.Bundles.Provider)
		assert.Equal(t, "https://gitlab.com", settings.Bundles.GitLab.BaseURL)
		assert.Equal(t, "clearlydefined", settings.CurationOrg)
		assert.Equal(t, 256, settings.Suggestions.CacheSize)
	})

	t.Run("should expand environment references in tokens", func(t *testing.T) {
		// given
		t.Setenv("CDLIST_TEST_TOKEN", "secret-value")
		path := writeConfig(t, "metadata:\n  token: ${CDLIST_TEST_TOKEN}\n")
		settings := entities.NewSettings()

		// when
		err := settings.Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "secret-value", settings.Metadata.Token)
	})

	t.Run("should read a token from a file path", func(t *testing.T) {
		// given
		tokenFile := filepath.Join(t.TempDir(), "token")
		require.NoError(t, os.WriteFile(tokenFile, []byte("file-token\n"), 0o600))
		path := writeConfig(t, "bundles:\n  github:\n    token: "+tokenFile+"\n")
		settings := entities.NewSettings()

		// when
		err := settings.Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "file-token", settings.Bundles.GitHub.Token)
	})

	t.Run("should reject an s3 store without bucket", func(t *testing.T) {
		// given
		path := writeConfig(t, "bundles:\n  provider: s3\n  s3:\n    endpoint: localhost:9000\n")
		settings := entities.NewSettings()

		// when
		err := settings.Load(path)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bundles.s3.bucket")
	})

	t.Run("should reject an unknown bundle provider", func(t *testing.T) {
		// given
		path := writeConfig(t, "bundles:\n  provider: dropbox\n")
		settings := entities.NewSettings()

		// when
		err := settings.Load(path)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dropbox")
	})

	t.Run("should fail on a missing file", func(t *testing.T) {
		// given
		settings := entities.NewSettings()

		// when
		err := settings.Load(filepath.Join(t.TempDir(), "absent.yaml"))

		// then
		require.Error(t, err)
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Parallel()

	t.Run("should ignore a missing file", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), ".env")

		// when
		err := entities.LoadEnvFile(path)

		// then
		require.NoError(t, err)
	})

	t.Run("should report a malformed file", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("BROKEN\n"), 0o600))

		// when
		err := entities.LoadEnvFile(path)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected character")
	})
}
