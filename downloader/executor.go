package downloader

import (
	"context"
	"errors"
	"log"

	"batodl/cloudflare"
)

// FallbackFetcher tries a fast HTTP fetcher first and falls back to a
// browser fetcher when the HTTP attempt fails at the transport level or hits a challenge.
// Plain HTTP status failures are returned as-is: a 404 stays a 404 in a browser too.
type FallbackFetcher struct {
	primary   PageFetcher
	secondary PageFetcher
}

// NewFallbackFetcher creates a fetcher with HTTP→browser fallback.
func NewFallbackFetcher(primary, secondary PageFetcher) *FallbackFetcher {
	return &FallbackFetcher{primary: primary, secondary: secondary}
}

// FetchPage implements PageFetcher.
func (e *FallbackFetcher) FetchPage(ctx context.Context, pageURL string) (*Page, error) {
	page, err := e.primary.FetchPage(ctx, pageURL)
	if err == nil {
		return page, nil
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) && !cloudflare.IsChallenge(err) {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	log.Printf("[Executor] HTTP failed (%v), trying browser fallback...", err)
	return e.secondary.FetchPage(ctx, pageURL)
}
