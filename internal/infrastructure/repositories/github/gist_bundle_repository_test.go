//go:build unit

package github_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	gh "github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/cdlist/internal/domain/entities"
	"github.com/rios0rios0/cdlist/internal/infrastructure/repositories/github"
)

func newGistStore(t *testing.T, handler http.HandlerFunc) *github.GistBundleRepository {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := gh.NewClient(nil)
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.BaseURL = baseURL
	return github.NewGistBundleRepositoryWithClient(client)
}

func TestGistBundleRepository(t *testing.T) {
	t.Parallel()

	t.Run("ParseReference", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name      string
			url       string
			id        string
			claimed   bool
			malformed bool
		}{
			{
				name:    "should claim a gist page",
				url:     "https://gist.github.com/octocat/aa5a315d61ae9438b18d",
				id:      "aa5a315d61ae9438b18d",
				claimed: true,
			},
			{
				name:      "should reject a gist url without id",
				url:       "https://gist.github.com/octocat",
				claimed:   true,
				malformed: true,
			},
			{
				name: "should not claim a repository url",
				url:  "https://github.com/octocat/hello",
			},
			{
				name: "should not claim plain http",
				url:  "http://gist.github.com/octocat/aa5a315d61ae9438b18d",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				// given
				store := github.NewGistBundleRepositoryWithClient(gh.NewClient(nil))

				// when
				id, claimed, err := store.ParseReference(tt.url)

				// then
				assert.Equal(t, tt.claimed, claimed)
				assert.Equal(t, tt.id, id)
				if tt.malformed {
					assert.ErrorIs(t, err, entities.ErrMalformedBundleURL)
				} else {
					assert.NoError(t, err)
				}
			})
		}
	})

	t.Run("should fetch the gist files by name", func(t *testing.T) {
		t.Parallel()

		// given
		store := newGistStore(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/gists/abc", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"abc","files":{` +
				`"one.json":{"filename":"one.json","content":"{\"coordinates\":[]}"},` +
				`"notes.txt":{"filename":"notes.txt","content":"hello"}}}`))
		})

		// when
		files, err := store.Fetch(t.Context(), "abc")

		// then
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"one.json":  `{"coordinates":[]}`,
			"notes.txt": "hello",
		}, files)
	})

	t.Run("should create a secret gist and return its page", func(t *testing.T) {
		t.Parallel()

		// given
		var received map[string]any
		store := newGistStore(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/gists", r.URL.Path)
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"new","html_url":"https://gist.github.com/octocat/new"}`))
		})

		// when
		location, err := store.Create(t.Context(), "list.json", `{"coordinates":[]}`)

		// then
		require.NoError(t, err)
		assert.Equal(t, "https://gist.github.com/octocat/new", location)
		assert.Equal(t, false, received["public"])
		files, _ := received["files"].(map[string]any)
		assert.Contains(t, files, "list.json")
	})

	t.Run("should report a permission error when the token cannot write", func(t *testing.T) {
		t.Parallel()

		// given
		store := newGistStore(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Requires authentication"}`))
		})

		// when
		_, err := store.Create(t.Context(), "list.json", "{}")

		// then
		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrBundlePermission)
	})
}
