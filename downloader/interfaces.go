package downloader

import (
	"context"
	"time"
)

// Request defaults shared by every transport.
const (
	// RequestTimeout bounds each page probe and each image download. Not configurable.
	RequestTimeout = 15 * time.Second

	UserAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	AcceptHeader  = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
	RefererHeader = "https://bato.ing/"
)

// Page is a fetched chapter page.
type Page struct {
	URL        string // final URL after redirects
	StatusCode int
	Body       []byte
}

// PageFetcher retrieves chapter page markup.
// Implementations return an error for transport failures, non-200 responses and challenge pages.
type PageFetcher interface {
	FetchPage(ctx context.Context, pageURL string) (*Page, error)
}

// ImageGetter downloads one image payload.
// The returned bytes are complete; partial bodies are reported as errors.
type ImageGetter interface {
	Get(ctx context.Context, imageURL string) ([]byte, error)
}

// Fetcher kinds selectable from configuration.
const (
	FetcherHTTP    = "http"
	FetcherBrowser = "browser"
	FetcherAuto    = "auto"
)

// NewPageFetcher builds the page transport named by kind.
func NewPageFetcher(kind string) PageFetcher {
	switch kind {
	case FetcherBrowser:
		return NewBrowserFetcher()
	case FetcherAuto:
		return NewFallbackFetcher(NewCollyFetcher(), NewBrowserFetcher())
	default:
		return NewCollyFetcher()
	}
}
