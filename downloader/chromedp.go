package downloader

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"

	"batodl/cloudflare"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// BrowserFetcher renders chapter pages in headless Chrome.
// Useful when a mirror only serves its image list to a real browser.
type BrowserFetcher struct {
	allocOpts []chromedp.ExecAllocatorOption
}

// NewBrowserFetcher creates a headless browser page fetcher.
func NewBrowserFetcher() *BrowserFetcher {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(UserAgent),
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-gpu", true),
	)
	return &BrowserFetcher{allocOpts: opts}
}

// FetchPage navigates to pageURL and returns the rendered markup.
// A fresh browser is started per call and torn down before returning.
func (f *BrowserFetcher) FetchPage(ctx context.Context, pageURL string) (*Page, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, f.allocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancel := context.WithTimeout(browserCtx, RequestTimeout)
	defer cancel()

	var (
		mu     sync.Mutex
		status int
	)
	chromedp.ListenTarget(runCtx, func(ev interface{}) {
		if e, ok := ev.(*network.EventResponseReceived); ok && e.Type == network.ResourceTypeDocument {
			mu.Lock()
			status = int(e.Response.Status)
			mu.Unlock()
		}
	})

	var html, location string
	err := chromedp.Run(runCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{"Referer": RefererHeader}),
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
		chromedp.Location(&location),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		log.Printf("[Browser] ⚠️ %s: %v", pageURL, err)
		return nil, fmt.Errorf("browser navigation failed: %w", err)
	}

	mu.Lock()
	code := status
	mu.Unlock()
	if code == 0 {
		code = http.StatusOK
	}

	body := []byte(html)
	if isCF, info := cloudflare.Detect(code, body); isCF {
		log.Printf("[Browser] ⚠️ Cloudflare challenge at %s", pageURL)
		return nil, cloudflare.NewChallengeError(pageURL, info)
	}
	if code != http.StatusOK {
		return nil, &StatusError{URL: pageURL, StatusCode: code}
	}

	log.Printf("[Browser] ✓ Rendered %s (%d bytes)", location, len(body))
	return &Page{URL: location, StatusCode: code, Body: body}, nil
}
