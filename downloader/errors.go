package downloader

import (
	"errors"
	"fmt"
	"strings"

	"batodl/models"
)

var (
	// ErrUnknownMirror is returned before any network call when a URL names no known mirror.
	ErrUnknownMirror = errors.New("url does not contain a known mirror domain")

	// ErrResolutionExhausted is returned when every candidate mirror failed.
	ErrResolutionExhausted = errors.New("no mirror returned an image list")

	// ErrZeroYield is returned when not a single image could be downloaded.
	ErrZeroYield = errors.New("no images were downloaded")
)

// StatusError reports a non-success HTTP status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d for %s", e.StatusCode, e.URL)
}

// ProbeError records why one mirror candidate was abandoned.
type ProbeError struct {
	Mirror string
	URL    string
	Err    error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Mirror, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// ResolutionError carries every failed probe of an exhausted resolution.
// It matches ErrResolutionExhausted with errors.Is.
type ResolutionError struct {
	URL      string
	Attempts []*ProbeError
}

func (e *ResolutionError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, a.Error())
	}
	return fmt.Sprintf("%v after %d mirrors for %s [%s]",
		ErrResolutionExhausted, len(e.Attempts), e.URL, strings.Join(parts, "; "))
}

func (e *ResolutionError) Is(target error) bool {
	return target == ErrResolutionExhausted
}

// ChapterError wraps a chapter failure with the stage it happened in.
type ChapterError struct {
	Stage models.Stage
	URL   string
	Err   error
}

func (e *ChapterError) Error() string {
	return fmt.Sprintf("%s failed for %s: %v", e.Stage, e.URL, e.Err)
}

func (e *ChapterError) Unwrap() error { return e.Err }

// IsChapterError reports whether err is or wraps a ChapterError and returns it.
func IsChapterError(err error) (*ChapterError, bool) {
	var ce *ChapterError
	ok := errors.As(err, &ce)
	return ce, ok
}
