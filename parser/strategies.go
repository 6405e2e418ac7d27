package parser

import (
	"encoding/json"
	"log"
	"regexp"
	"strings"
)

// Strategy is one way of pulling image URLs out of a chapter page.
// Extract returns nil when the strategy does not apply.
type Strategy struct {
	Name    string
	Extract func(doc *Document) []string
}

// Strategy names.
const (
	StrategyStructuredArray = "structured-array"
	StrategyMarkerToken     = "marker-token"
	StrategyBroadScan       = "broad-scan"
)

// minBroadScanHits is the number of distinct URLs a script needs before the
// broad scan trusts it as an image list.
const minBroadScanHits = 3

var (
	structuredArrayPattern = regexp.MustCompile(`imgHttps\s*=\s*(\[[^\]]*\])`)
	quotedImagePattern     = regexp.MustCompile(`(?i)"(https://[^"]+\.(?:jpg|jpeg|png|webp|gif)[^"]*)"`)
	bareImagePattern       = regexp.MustCompile(`(?i)https://[^\s"'<>]+\.(?:jpg|jpeg|png|webp|gif)(?:\?[^\s"'<>]*)?`)
)

// Strategies is the default extraction order, most specific first.
var Strategies = []Strategy{
	{Name: StrategyStructuredArray, Extract: extractStructuredArray},
	{Name: StrategyMarkerToken, Extract: extractMarkerToken},
	{Name: StrategyBroadScan, Extract: extractBroadScan},
}

// ExtractImages runs the strategies in order and returns the first non-empty list
// together with the name of the strategy that produced it.
func ExtractImages(doc *Document, strategies []Strategy) ([]string, string) {
	if doc == nil {
		return nil, ""
	}
	for _, s := range strategies {
		if urls := s.Extract(doc); len(urls) > 0 {
			log.Printf("[Parser] ✓ %s found %d images", s.Name, len(urls))
			return urls, s.Name
		}
	}
	return nil, ""
}

// extractStructuredArray reads the JSON array assigned to imgHttps.
func extractStructuredArray(doc *Document) []string {
	for _, script := range doc.Scripts {
		if !strings.Contains(script, "imgHttps") {
			continue
		}
		m := structuredArrayPattern.FindStringSubmatch(script)
		if m == nil {
			continue
		}

		var urls []string
		if err := json.Unmarshal([]byte(m[1]), &urls); err != nil {
			log.Printf("[Parser] imgHttps array is not a string list: %v", err)
			continue
		}
		if urls = nonEmpty(urls); len(urls) > 0 {
			return urls
		}
	}
	return nil
}

// extractMarkerToken collects quoted image URLs from scripts that mention the
// legacy image-list tokens.
func extractMarkerToken(doc *Document) []string {
	for _, script := range doc.Scripts {
		if !strings.Contains(script, "imgHttpLis") && !strings.Contains(script, "batoPass") {
			continue
		}
		var urls []string
		for _, m := range quotedImagePattern.FindAllStringSubmatch(script, -1) {
			urls = append(urls, m[1])
		}
		if len(urls) > 0 {
			return urls
		}
	}
	return nil
}

// extractBroadScan takes the distinct image URLs of the first script holding enough of them.
func extractBroadScan(doc *Document) []string {
	for _, script := range doc.Scripts {
		urls := unique(bareImagePattern.FindAllString(script, -1))
		if len(urls) >= minBroadScanHits {
			return urls
		}
	}
	return nil
}

// unique removes duplicates while keeping first-occurrence order.
func unique(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func nonEmpty(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
