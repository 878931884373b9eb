//go:build unit

package commands_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/cdlist/internal/domain/commands"
	"github.com/rios0rios0/cdlist/internal/domain/entities"
)

func samplePayload() entities.SharePayload {
	return entities.SharePayload{
		Filter: entities.Filter{},
		SortBy: &entities.SortBy{},
		Coordinates: []entities.Coordinate{
			{Type: "github", Provider: "github", Name: "lodash/lodash", Revision: "4.17.21"},
		},
	}
}

func TestShareToken(t *testing.T) {
	t.Parallel()

	t.Run("should round trip a payload", func(t *testing.T) {
		t.Parallel()

		// given
		payload := samplePayload()

		// when
		token, encodeErr := commands.EncodeShareToken(payload)
		decoded, decodeErr := commands.DecodeShareToken(token)

		// then
		require.NoError(t, encodeErr)
		require.NoError(t, decodeErr)
		assert.Equal(t, payload, decoded)
		assert.NotContains(t, token, "=")
		assert.NotContains(t, token, "+")
		assert.NotContains(t, token, "/")
	})

	t.Run("should accept a full share url", func(t *testing.T) {
		t.Parallel()

		// given
		token, err := commands.EncodeShareToken(samplePayload())
		require.NoError(t, err)

		// when
		decoded, decodeErr := commands.DecodeShareToken("https://clearlydefined.io/share/" + token + "?utm=x")

		// then
		require.NoError(t, decodeErr)
		assert.Len(t, decoded.Coordinates, 1)
	})

	t.Run("should accept tokens in the padded standard alphabet", func(t *testing.T) {
		t.Parallel()

		// given
		token, err := commands.EncodeShareToken(samplePayload())
		require.NoError(t, err)
		raw, err := base64.RawURLEncoding.DecodeString(token)
		require.NoError(t, err)
		legacy := base64.StdEncoding.EncodeToString(raw)

		// when
		decoded, decodeErr := commands.DecodeShareToken(legacy)

		// then
		require.NoError(t, decodeErr)
		assert.Equal(t, samplePayload(), decoded)
	})

	t.Run("should report corrupt tokens as a shared list load failure", func(t *testing.T) {
		t.Parallel()

		tokens := []string{"", "!!!", "bm90IGRlZmxhdGVk", base64.RawURLEncoding.EncodeToString([]byte{0x78, 0xda, 0x01})}
		for _, token := range tokens {
			// when
			_, err := commands.DecodeShareToken(token)

			// then
			assert.ErrorIs(t, err, entities.ErrSharedListLoad, "token %q", token)
		}
	})
}

func TestExtractShareToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "should return a bare token unchanged", value: "abc", want: "abc"},
		{name: "should take the part after the share path", value: "https://host/share/abc", want: "abc"},
		{name: "should strip query and fragment", value: "https://host/share/abc#top", want: "abc"},
		{name: "should trim whitespace", value: "  abc\n", want: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// when
			got := commands.ExtractShareToken(tt.value)

			// then
			assert.Equal(t, tt.want, got)
		})
	}
}
