package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"

	"golang.org/x/net/publicsuffix"
)

// HTTPClient downloads image payloads with browser-like headers.
// Cookies set by the CDN are kept for the lifetime of the client.
type HTTPClient struct {
	httpClient *http.Client
	userAgent  string
	referer    string
}

// NewHTTPClient creates an image client with the fixed request timeout.
func NewHTTPClient() *HTTPClient {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		jar = nil
	}
	return &HTTPClient{
		httpClient: &http.Client{Timeout: RequestTimeout, Jar: jar},
		userAgent:  UserAgent,
		referer:    RefererHeader,
	}
}

// Get fetches imageURL and returns the complete body.
// Non-2xx statuses, transport errors and empty bodies are errors.
func (c *HTTPClient) Get(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", AcceptHeader)
	req.Header.Set("Referer", c.referer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{URL: imageURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) == 0 {
		return nil, errors.New("empty response body")
	}
	return body, nil
}
