package commands

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zlib"

	"github.com/rios0rios0/cdlist/internal/domain/entities"
)

const (
	sharePathMarker = "/share/"
	maxSharePayload = 16 << 20
)

// EncodeShareToken serializes the payload to JSON, deflates it and encodes the result
// as unpadded URL-safe base64.
func EncodeShareToken(payload entities.SharePayload) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to serialize share payload: %w", err)
	}

	var buffer bytes.Buffer
	writer, err := zlib.NewWriterLevel(&buffer, zlib.BestCompression)
	if err != nil {
		return "", fmt.Errorf("failed to create compressor: %w", err)
	}
	if _, err = writer.Write(data); err != nil {
		return "", fmt.Errorf("failed to compress share payload: %w", err)
	}
	if err = writer.Close(); err != nil {
		return "", fmt.Errorf("failed to compress share payload: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buffer.Bytes()), nil
}

// DecodeShareToken reverses EncodeShareToken. Tokens written with the standard padded
// alphabet are accepted too. Every failure is reported as ErrSharedListLoad.
func DecodeShareToken(token string) (entities.SharePayload, error) {
	compressed, err := decodeBase64(ExtractShareToken(token))
	if err != nil {
		return entities.SharePayload{}, fmt.Errorf("%w: %w", entities.ErrSharedListLoad, err)
	}

	reader, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return entities.SharePayload{}, fmt.Errorf("%w: %w", entities.ErrSharedListLoad, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(io.LimitReader(reader, maxSharePayload))
	if err != nil {
		return entities.SharePayload{}, fmt.Errorf("%w: %w", entities.ErrSharedListLoad, err)
	}

	var payload entities.SharePayload
	if err = json.Unmarshal(data, &payload); err != nil {
		return entities.SharePayload{}, fmt.Errorf("%w: %w", entities.ErrSharedListLoad, err)
	}
	return payload, nil
}

// ExtractShareToken accepts either a bare token or a share URL and returns the token.
func ExtractShareToken(value string) string {
	value = strings.TrimSpace(value)
	if index := strings.LastIndex(value, sharePathMarker); index >= 0 {
		value = value[index+len(sharePathMarker):]
	}
	if index := strings.IndexAny(value, "?#"); index >= 0 {
		value = value[:index]
	}
	return value
}

func decodeBase64(token string) ([]byte, error) {
	if token == "" {
		return nil, errors.New("empty token")
	}
	encodings := []*base64.Encoding{
		base64.RawURLEncoding,
		base64.URLEncoding,
		base64.StdEncoding,
		base64.RawStdEncoding,
	}
	var lastErr error
	for _, encoding := range encodings {
		decoded, err := encoding.DecodeString(token)
		if err == nil {
			return decoded, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
