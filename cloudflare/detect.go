package cloudflare

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gocolly/colly"
)

// Info describes why a response was classified as a challenge page.
type Info struct {
	StatusCode int
	Reason     string
	Indicators []string
}

// bodyChecks are markers that only appear on interstitial challenge pages.
// A bare "cloudflare" substring is not enough: ordinary mirror pages load
// scripts from cdnjs.cloudflare.com.
var bodyChecks = []struct {
	marker string
	reason string
}{
	{"cf-browser-verification", "JS browser verification challenge"},
	{"challenge-form", "Cloudflare challenge form"},
	{"/cdn-cgi/challenge-platform/", "Cloudflare challenge JS"},
	{"cf-chl-", "Cloudflare challenge token"},
	{"<title>just a moment...</title>", "Interstitial title"},
	{"attention required! | cloudflare", "Block page title"},
}

// Detect inspects a status code and body and reports whether the mirror
// answered with an anti-bot challenge instead of the chapter page.
func Detect(statusCode int, body []byte) (bool, *Info) {
	lower := strings.ToLower(string(body))

	var indicators []string
	for _, c := range bodyChecks {
		if strings.Contains(lower, c.marker) {
			indicators = append(indicators, c.reason)
		}
	}
	if len(indicators) == 0 {
		return false, nil
	}

	switch statusCode {
	case http.StatusForbidden:
		indicators = append(indicators, "403 Forbidden")
	case http.StatusServiceUnavailable:
		indicators = append(indicators, "503 Service Unavailable")
	case http.StatusTooManyRequests:
		indicators = append(indicators, "429 Rate limit")
	}

	return true, &Info{
		StatusCode: statusCode,
		Reason:     "Cloudflare anti-bot challenge detected",
		Indicators: indicators,
	}
}

// DetectFromColly wraps Detect for colly responses.
func DetectFromColly(r *colly.Response) (bool, *Info) {
	if r == nil {
		return false, nil
	}
	return Detect(r.StatusCode, r.Body)
}

// ChallengeError is returned when a mirror serves a challenge page.
type ChallengeError struct {
	URL        string
	StatusCode int
	Indicators []string
}

func (e *ChallengeError) Error() string {
	return fmt.Sprintf("cloudflare challenge at %s (status %d): %s",
		e.URL, e.StatusCode, strings.Join(e.Indicators, ", "))
}

// NewChallengeError builds a ChallengeError from detection info.
func NewChallengeError(url string, info *Info) *ChallengeError {
	if info == nil {
		return &ChallengeError{URL: url}
	}
	return &ChallengeError{URL: url, StatusCode: info.StatusCode, Indicators: info.Indicators}
}

// IsChallenge reports whether err is or wraps a ChallengeError.
func IsChallenge(err error) bool {
	var ce *ChallengeError
	return errors.As(err, &ce)
}
