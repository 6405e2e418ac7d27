package downloader

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"batodl/cloudflare"

	"github.com/gocolly/colly"
)

// CollyFetcher fetches chapter pages with a fresh colly collector per probe.
type CollyFetcher struct {
	userAgent string
}

// NewCollyFetcher creates a page fetcher with browser-like headers and the fixed request timeout.
func NewCollyFetcher() *CollyFetcher {
	return &CollyFetcher{userAgent: UserAgent}
}

func (f *CollyFetcher) newCollector() *colly.Collector {
	c := colly.NewCollector(
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(RequestTimeout)
	c.UserAgent = f.userAgent

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", AcceptHeader)
		r.Headers.Set("Accept-Encoding", "gzip, deflate, br")
		r.Headers.Set("Referer", RefererHeader)
	})
	return c
}

// FetchPage retrieves pageURL. Non-200 responses and challenge pages are errors.
func (f *CollyFetcher) FetchPage(ctx context.Context, pageURL string) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := f.newCollector()

	var (
		page     *Page
		fetchErr error
	)

	c.OnResponse(func(r *colly.Response) {
		body, err := decompressBody(r.Body, r.Headers.Get("Content-Encoding"))
		if err != nil {
			fetchErr = err
			return
		}
		r.Body = body

		if isCF, info := cloudflare.DetectFromColly(r); isCF {
			fetchErr = cloudflare.NewChallengeError(pageURL, info)
			return
		}
		if r.StatusCode != http.StatusOK {
			fetchErr = &StatusError{URL: pageURL, StatusCode: r.StatusCode}
			return
		}

		page = &Page{
			URL:        r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Body:       body,
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		if r == nil || r.StatusCode == 0 {
			fetchErr = err
			return
		}
		if body, derr := decompressBody(r.Body, r.Headers.Get("Content-Encoding")); derr == nil {
			r.Body = body
		}
		if isCF, info := cloudflare.DetectFromColly(r); isCF {
			fetchErr = cloudflare.NewChallengeError(pageURL, info)
			return
		}
		fetchErr = &StatusError{URL: pageURL, StatusCode: r.StatusCode}
	})

	if err := c.Visit(pageURL); err != nil && fetchErr == nil {
		fetchErr = err
	}

	if fetchErr != nil {
		log.Printf("[Colly] ⚠️ %s: %v", pageURL, fetchErr)
		return nil, fetchErr
	}
	if page == nil {
		return nil, fmt.Errorf("no response received for %s", pageURL)
	}
	return page, nil
}
