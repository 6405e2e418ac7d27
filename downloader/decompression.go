package downloader

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/andybalholm/brotli"
)

// decompressBody undoes gzip or Brotli content encoding.
// gzip is detected by its magic bytes since some mirrors omit the header;
// Brotli has no magic and is only decoded when the header says "br".
// Uncompressed bodies are returned unchanged.
func decompressBody(body []byte, contentEncoding string) ([]byte, error) {
	if len(body) == 0 {
		return body, nil
	}

	encoding := strings.ToLower(strings.TrimSpace(contentEncoding))

	var reader io.Reader
	switch {
	case len(body) >= 2 && body[0] == 0x1f && body[1] == 0x8b:
		gz, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	case encoding == "br":
		reader = brotli.NewReader(bytes.NewReader(body))
	default:
		return body, nil
	}

	out, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s body: %w", encodingName(encoding, body), err)
	}
	log.Printf("[Decompress] ✓ %s: %d → %d bytes", encodingName(encoding, body), len(body), len(out))
	return out, nil
}

func encodingName(encoding string, body []byte) string {
	if len(body) >= 2 && body[0] == 0x1f && body[1] == 0x8b {
		return "gzip"
	}
	return encoding
}
