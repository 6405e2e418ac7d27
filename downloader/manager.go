package downloader

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"batodl/assembler"
	"batodl/models"
	"batodl/parser"
)

// ErrEmptyBatch is returned when no chapter of a bulk run produced a document.
var ErrEmptyBatch = errors.New("no chapter in the batch succeeded")

// Options configures a Manager. Zero values select the defaults.
type Options struct {
	Fetcher         PageFetcher
	Images          ImageGetter
	Writer          assembler.DocumentWriter
	Candidates      []string
	StagingRoot     string
	ChapterInterval time.Duration
	Sink            models.ProgressSink
}

// Manager runs the chapter pipeline: resolve, fetch, assemble.
// Chapters are processed strictly one after another.
type Manager struct {
	resolver    *Resolver
	pool        *Pool
	assembler   *assembler.Assembler
	stagingRoot string
	interval    time.Duration
	sink        models.ProgressSink
	removeAll   func(string) error
}

// NewManager creates a download manager
func NewManager(opts Options) *Manager {
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = NewCollyFetcher()
	}
	images := opts.Images
	if images == nil {
		images = NewHTTPClient()
	}

	var resolverOpts []ResolverOption
	if len(opts.Candidates) > 0 {
		resolverOpts = append(resolverOpts, WithCandidates(opts.Candidates))
	}

	return &Manager{
		resolver:    NewResolver(fetcher, resolverOpts...),
		pool:        NewPool(images),
		assembler:   assembler.New(opts.Writer),
		stagingRoot: opts.StagingRoot,
		interval:    opts.ChapterInterval,
		sink:        opts.Sink,
		removeAll:   os.RemoveAll,
	}
}

// Resolve returns the manifest for a chapter without downloading anything.
func (m *Manager) Resolve(ctx context.Context, chapterURL string) (*models.ChapterManifest, error) {
	return m.resolver.ResolveWithProgress(ctx, chapterURL, m.sink)
}

// DownloadChapter processes one chapter and writes "<title>.pdf" into outDir.
// Failures are reported in the result's Err as a *ChapterError.
func (m *Manager) DownloadChapter(ctx context.Context, chapterURL string, policy models.StitchPolicy, outDir string) *models.ChapterResult {
	return m.downloadChapter(ctx, chapterURL, policy, outDir, false)
}

func (m *Manager) downloadChapter(ctx context.Context, chapterURL string, policy models.StitchPolicy, outDir string, unique bool) *models.ChapterResult {
	start := time.Now()
	res := &models.ChapterResult{URL: chapterURL}
	defer func() { res.Elapsed = time.Since(start) }()

	log.Printf("[Manager] Starting chapter: %s", chapterURL)

	manifest, err := m.resolver.ResolveWithProgress(ctx, chapterURL, m.sink)
	if err != nil {
		res.Err = &ChapterError{Stage: models.StageResolve, URL: chapterURL, Err: err}
		log.Printf("[Manager] ✗ %v", res.Err)
		return res
	}
	res.Title = manifest.Title
	res.Mirror = manifest.ResolvedMirror
	res.Images = len(manifest.Images)

	staging, err := os.MkdirTemp(m.stagingRoot, "batodl-*")
	if err != nil {
		res.Err = fmt.Errorf("failed to create staging directory: %w", err)
		return res
	}
	defer func() {
		if err := m.removeAll(staging); err != nil {
			log.Printf("[Manager] ✗ Failed to clean up %s: %v", staging, err)
			if res.Err == nil {
				res.Err = fmt.Errorf("failed to clean up staging directory %s: %w", staging, err)
			}
		}
	}()

	report, err := m.pool.Fetch(ctx, manifest.Images, staging, m.sink)
	res.Downloaded = report.Succeeded
	if err != nil {
		res.Err = &ChapterError{Stage: models.StageFetch, URL: chapterURL, Err: err}
		log.Printf("[Manager] ✗ %v", res.Err)
		return res
	}

	outPath := filepath.Join(outDir, parser.SanitizeFilename(manifest.Title)+".pdf")
	if unique {
		outPath = uniquePath(outPath)
	}

	asm, err := m.assembler.Assemble(staging, policy, outPath, m.sink)
	if err != nil {
		res.Err = &ChapterError{Stage: models.StageAssemble, URL: chapterURL, Err: err}
		log.Printf("[Manager] ✗ %v", res.Err)
		return res
	}

	res.Pages = asm.Document.Pages
	res.Bytes = asm.Document.Bytes
	res.DocumentPath = asm.Document.Path

	log.Printf("[Manager] ✓ %s: %d/%d images, %d pages, %.2f MB from %s",
		res.Title, res.Downloaded, res.Images, res.Pages, res.SizeMB(), res.Mirror)
	return res
}

// DownloadBatch processes chapters sequentially and packs every produced
// document into a zip archive at archivePath. One chapter's failure does not
// stop the batch; the archive holds only successful documents.
func (m *Manager) DownloadBatch(ctx context.Context, urls []string, policy models.StitchPolicy, archivePath string) (batch *models.BatchResult, err error) {
	start := time.Now()
	batch = &models.BatchResult{}
	defer func() { batch.Elapsed = time.Since(start) }()

	workDir, err := os.MkdirTemp(m.stagingRoot, "batodl-batch-*")
	if err != nil {
		return batch, fmt.Errorf("failed to create batch directory: %w", err)
	}
	defer func() {
		if rmErr := m.removeAll(workDir); rmErr != nil {
			log.Printf("[Manager] ✗ Failed to clean up %s: %v", workDir, rmErr)
			if err == nil {
				err = fmt.Errorf("failed to clean up batch directory %s: %w", workDir, rmErr)
			}
		}
	}()

	limiter := parser.NewRateLimiter(m.interval)
	defer limiter.Stop()

	var docs []string
	for i, u := range urls {
		if err := limiter.Wait(ctx); err != nil {
			return batch, err
		}

		log.Printf("[Manager] Chapter %d/%d", i+1, len(urls))
		res := m.downloadChapter(ctx, u, policy, workDir, true)
		batch.Chapters = append(batch.Chapters, res)
		if res.Succeeded() {
			batch.Succeeded++
			docs = append(docs, res.DocumentPath)
		} else {
			batch.Failed++
		}
	}

	if len(docs) == 0 {
		return batch, ErrEmptyBatch
	}

	models.Report(m.sink, models.StagePackage, 0, len(docs), "Packaging archive")
	if err := writeArchive(archivePath, docs); err != nil {
		return batch, err
	}
	models.Report(m.sink, models.StagePackage, len(docs), len(docs), "Archive written")

	batch.ArchivePath = archivePath
	log.Printf("[Manager] ✓ Batch complete: %d succeeded, %d failed → %s", batch.Succeeded, batch.Failed, archivePath)
	return batch, nil
}

// uniquePath appends _2, _3, ... to the stem until the path is unused.
func uniquePath(path string) string {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return path
	}
	ext := filepath.Ext(path)
	stem := path[:len(path)-len(ext)]
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, n, ext)
		if _, err := os.Stat(candidate); errors.Is(err, os.ErrNotExist) {
			return candidate
		}
	}
}
