package downloader

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"

	"batodl/models"
	"batodl/parser"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultWorkers is the fixed width of the image worker pool.
	DefaultWorkers = 6

	// progressEvery controls how often completed downloads are reported.
	progressEvery = 5

	// largeChapterImages triggers a notice that the chapter will take a while.
	largeChapterImages = 100
)

// FetchResult is the outcome of one image download.
type FetchResult struct {
	models.StagedImage
	Err error
}

// OK reports whether the image was written to disk.
func (r FetchResult) OK() bool {
	return r.Err == nil && r.Path != ""
}

// FetchReport aggregates the per-image results of one chapter, in manifest order.
type FetchReport struct {
	Results   []FetchResult
	Succeeded int
	Failed    int
}

// Staged returns the successfully written images in index order.
func (r *FetchReport) Staged() []models.StagedImage {
	out := make([]models.StagedImage, 0, r.Succeeded)
	for _, res := range r.Results {
		if res.OK() {
			out = append(out, res.StagedImage)
		}
	}
	return out
}

// Pool downloads a manifest's images into a staging directory with bounded parallelism.
// A failed image is skipped; it never cancels the others.
type Pool struct {
	client  ImageGetter
	workers int
}

// NewPool creates a fetch pool with the fixed worker count.
func NewPool(client ImageGetter) *Pool {
	return &Pool{client: client, workers: DefaultWorkers}
}

// StagedName returns the file name for the image at the 1-based index.
func StagedName(index int, imageURL string) string {
	return fmt.Sprintf("page_%04d%s", index, parser.ImageExtension(imageURL))
}

// Fetch downloads every image into dir as page_NNNN.<ext>.
// It returns ErrZeroYield, along with the report, when nothing could be downloaded.
func (p *Pool) Fetch(ctx context.Context, images []string, dir string, sink models.ProgressSink) (*FetchReport, error) {
	total := len(images)
	report := &FetchReport{Results: make([]FetchResult, total)}
	if total == 0 {
		return report, ErrZeroYield
	}

	if total >= largeChapterImages {
		log.Printf("[Pool] Large chapter: %d images, this may take a while", total)
	}

	var done, succeeded atomic.Int64

	g := new(errgroup.Group)
	g.SetLimit(p.workers)

	for i, imageURL := range images {
		i, imageURL := i, imageURL // per-iteration copies (go 1.21 loopvar semantics)
		g.Go(func() error {
			res := p.fetchOne(ctx, i+1, imageURL, dir)
			report.Results[i] = res
			if res.OK() {
				succeeded.Add(1)
			} else {
				log.Printf("[Pool] ⚠️ Image %d/%d failed: %v", i+1, total, res.Err)
			}

			n := int(done.Add(1))
			if n%progressEvery == 0 || n == total {
				models.Report(sink, models.StageFetch, n, total,
					fmt.Sprintf("Downloaded %d/%d images", succeeded.Load(), total))
			}
			return nil
		})
	}
	g.Wait()

	report.Succeeded = int(succeeded.Load())
	report.Failed = total - report.Succeeded
	log.Printf("[Pool] Downloaded %d/%d images", report.Succeeded, total)

	if report.Succeeded == 0 {
		return report, ErrZeroYield
	}
	return report, nil
}

// fetchOne downloads a single image. The file is only created once the whole body is in memory.
func (p *Pool) fetchOne(ctx context.Context, index int, imageURL, dir string) FetchResult {
	res := FetchResult{StagedImage: models.StagedImage{Index: index, URL: imageURL}}

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	reqCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	data, err := p.client.Get(reqCtx, imageURL)
	if err != nil {
		res.Err = err
		return res
	}

	path := filepath.Join(dir, StagedName(index, imageURL))
	if err := os.WriteFile(path, data, 0644); err != nil {
		res.Err = fmt.Errorf("failed to write %s: %w", path, err)
		return res
	}

	res.Path = path
	return res
}
