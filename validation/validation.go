package validation

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"batodl/mirrors"
	"batodl/models"
)

// ValidateChapterURL checks that raw is an absolute http(s) URL on a known mirror.
// It works on raw values only so the CLI and tests can share it.
func ValidateChapterURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return errors.New("chapter URL is required")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid chapter URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("chapter URL must use http or https: %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("chapter URL has no host: %q", raw)
	}
	if _, ok := mirrors.KnownMirror(raw); !ok {
		return fmt.Errorf("%q is not on a known mirror", u.Host)
	}
	return nil
}

// ParseURLList reads one URL per line, skipping blank lines and # comments.
func ParseURLList(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading URL list: %w", err)
	}
	return urls, nil
}

// StitchPolicy turns a preset name into a policy. height is only read for
// the custom preset and must lie in [MinCustomHeight, MaxCustomHeight].
func StitchPolicy(preset string, height int) (models.StitchPolicy, error) {
	preset = strings.ToLower(strings.TrimSpace(preset))
	if preset == "" {
		preset = models.PresetSkip
	}

	if preset == models.PresetCustom {
		if height < models.MinCustomHeight || height > models.MaxCustomHeight {
			return models.StitchPolicy{}, fmt.Errorf("custom height must be between %d and %d pixels, got %d",
				models.MinCustomHeight, models.MaxCustomHeight, height)
		}
		return models.StitchPolicy{ChunkHeightPixels: height}, nil
	}

	h, ok := models.PresetHeights[preset]
	if !ok {
		return models.StitchPolicy{}, fmt.Errorf("unknown stitch preset %q (want skip, short, normal, tall or custom)", preset)
	}
	return models.StitchPolicy{ChunkHeightPixels: h}, nil
}
