package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxFilenameLength = 200

var (
	reservedChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// SanitizeFilename turns a chapter title into a safe file name stem.
// Reserved characters and whitespace runs become underscores and the result
// is capped at 200 characters.
func SanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	// Whitespace controls (\t, \n, \r) belong to a run, not to the reserved set.
	name = whitespaceRun.ReplaceAllString(name, "_")
	name = reservedChars.ReplaceAllString(name, "_")

	if utf8.RuneCountInString(name) > maxFilenameLength {
		name = string([]rune(name)[:maxFilenameLength])
	}
	if name == "" || strings.Trim(name, ".") == "" {
		return DefaultTitle
	}
	return name
}
