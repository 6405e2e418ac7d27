package downloader

import (
	"context"
	"errors"
	"fmt"
	"log"

	"batodl/mirrors"
	"batodl/models"
	"batodl/parser"
)

// Resolver turns a chapter URL into a manifest, failing over across mirrors.
// Candidates are probed in fixed order, once each, and the first non-empty
// image list wins.
type Resolver struct {
	fetcher    PageFetcher
	candidates []string
	strategies []parser.Strategy
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithCandidates overrides the mirror probe order.
func WithCandidates(domains []string) ResolverOption {
	return func(r *Resolver) {
		r.candidates = append([]string(nil), domains...)
	}
}

// WithStrategies overrides the extraction strategies.
func WithStrategies(strategies []parser.Strategy) ResolverOption {
	return func(r *Resolver) {
		r.strategies = strategies
	}
}

// NewResolver creates a resolver over the given page transport.
func NewResolver(fetcher PageFetcher, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		fetcher:    fetcher,
		candidates: mirrors.Candidates(),
		strategies: parser.Strategies,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve probes each candidate mirror for chapterURL and returns the first manifest with images.
func (r *Resolver) Resolve(ctx context.Context, chapterURL string) (*models.ChapterManifest, error) {
	return r.ResolveWithProgress(ctx, chapterURL, nil)
}

// ResolveWithProgress is Resolve with per-probe progress notifications.
func (r *Resolver) ResolveWithProgress(ctx context.Context, chapterURL string, sink models.ProgressSink) (*models.ChapterManifest, error) {
	if _, ok := mirrors.KnownMirror(chapterURL); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMirror, chapterURL)
	}

	failed := &ResolutionError{URL: chapterURL}

	for i, domain := range r.candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		probeURL := mirrors.RewriteChapterURL(chapterURL, domain)
		models.Report(sink, models.StageResolve, i, len(r.candidates), "Trying "+domain)
		log.Printf("[Resolver] Trying %s (%d/%d)", probeURL, i+1, len(r.candidates))

		manifest, err := r.probe(ctx, probeURL, domain)
		if err != nil {
			// The caller's cancellation is not a mirror failure.
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("[Resolver] ⚠️ %s: %v", domain, err)
			failed.Attempts = append(failed.Attempts, &ProbeError{Mirror: domain, URL: probeURL, Err: err})
			continue
		}

		log.Printf("[Resolver] ✓ %s returned %d images via %s", domain, len(manifest.Images), manifest.Strategy)
		models.Report(sink, models.StageResolve, len(r.candidates), len(r.candidates), "Resolved on "+domain)
		return manifest, nil
	}

	log.Printf("[Resolver] ✗ All %d mirrors failed for %s", len(r.candidates), chapterURL)
	return nil, failed
}

// errNoImagesOnPage marks a page that loaded but yielded no image list.
var errNoImagesOnPage = errors.New("page contains no image list")

// probe performs a single attempt against one mirror. It never retries.
func (r *Resolver) probe(ctx context.Context, probeURL, domain string) (*models.ChapterManifest, error) {
	probeCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	page, err := r.fetcher.FetchPage(probeCtx, probeURL)
	if err != nil {
		return nil, err
	}

	doc, err := parser.ParseDocument(page.Body)
	if err != nil {
		return nil, err
	}

	images, strategy := parser.ExtractImages(doc, r.strategies)
	if len(images) == 0 {
		return nil, errNoImagesOnPage
	}

	return &models.ChapterManifest{
		Title:          doc.Title(),
		Images:         mirrors.RewriteImageURLs(images),
		ResolvedMirror: domain,
		Strategy:       strategy,
	}, nil
}
