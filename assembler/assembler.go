package assembler

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"

	"batodl/models"
	"batodl/parser"
)

// BatchSize is how many images are processed between skip-mode progress reports.
const BatchSize = 50

// Result is the outcome of one assembly.
type Result struct {
	Document models.AssembledDocument
	Skipped  []SkippedImage
}

// Assembler turns a directory of staged images into one paginated document.
type Assembler struct {
	writer    DocumentWriter
	batchSize int
}

// New creates an assembler. A nil writer selects the PDF writer.
func New(writer DocumentWriter) *Assembler {
	if writer == nil {
		writer = NewPDFWriter()
	}
	return &Assembler{writer: writer, batchSize: BatchSize}
}

// Assemble reads the images in dir in natural order, lays them out per policy
// and writes the document to outPath.
func (a *Assembler) Assemble(dir string, policy models.StitchPolicy, outPath string, sink models.ProgressSink) (*Result, error) {
	files, err := parser.LocalImageList(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list staged images: %w", err)
	}
	if len(files) == 0 {
		return nil, ErrNoImages
	}

	var (
		pages   []Page
		skipped []SkippedImage
	)
	if policy.Stitching() {
		log.Printf("[Assembler] Stitch mode: %d images, chunk height %d", len(files), policy.ChunkHeightPixels)
		pages, skipped = a.stitchPages(files, policy.ChunkHeightPixels, sink)
	} else {
		log.Printf("[Assembler] Skip mode: %d images", len(files))
		pages, skipped = a.skipPages(files, sink)
	}

	if len(pages) == 0 {
		return &Result{Skipped: skipped}, ErrNoPages
	}

	size, err := a.write(outPath, pages)
	if err != nil {
		return &Result{Skipped: skipped}, err
	}

	log.Printf("[Assembler] ✓ Wrote %s (%d pages, %d skipped)", outPath, len(pages), len(skipped))
	return &Result{
		Document: models.AssembledDocument{Path: outPath, Pages: len(pages), Bytes: size},
		Skipped:  skipped,
	}, nil
}

// write creates outPath and removes it again if the writer fails.
func (a *Assembler) write(outPath string, pages []Page) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return 0, &AssemblyError{Path: outPath, Err: err}
	}

	f, err := os.Create(outPath)
	if err != nil {
		return 0, &AssemblyError{Path: outPath, Err: err}
	}

	if err := a.writer.WriteDocument(f, pages); err != nil {
		f.Close()
		os.Remove(outPath)
		return 0, &AssemblyError{Path: outPath, Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(outPath)
		return 0, &AssemblyError{Path: outPath, Err: err}
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return 0, &AssemblyError{Path: outPath, Err: err}
	}
	return info.Size(), nil
}

// skipPages produces one page per image, in batches for progress reporting.
func (a *Assembler) skipPages(files []string, sink models.ProgressSink) ([]Page, []SkippedImage) {
	var (
		pages   []Page
		skipped []SkippedImage
	)

	batch := a.batchSize
	if batch <= 0 {
		batch = BatchSize
	}

	for start := 0; start < len(files); start += batch {
		end := min(start+batch, len(files))
		for _, path := range files[start:end] {
			page, err := loadPage(path)
			if err != nil {
				log.Printf("[Assembler] ⚠️ Skipping %s: %v", path, err)
				skipped = append(skipped, SkippedImage{Path: path, Err: err})
				continue
			}
			pages = append(pages, page)
		}
		models.Report(sink, models.StageAssemble, end, len(files),
			fmt.Sprintf("Processed %d/%d images", end, len(files)))
	}
	return pages, skipped
}

// loadPage prepares one image as a page. Baseline color JPEGs are embedded
// byte-for-byte; everything else is flattened onto white and stored as PNG.
func loadPage(path string) (Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Page{}, err
	}

	img, format, err := parser.DecodeImage(data)
	if err != nil {
		return Page{}, err
	}

	b := img.Bounds()
	if _, ok := img.(*image.YCbCr); ok && format == parser.FormatJPEG {
		return Page{Data: data, Width: b.Dx(), Height: b.Dy(), Sources: []string{path}}, nil
	}

	flat := parser.Flatten(img)
	encoded, err := parser.EncodePNG(flat)
	if err != nil {
		return Page{}, err
	}
	return Page{Data: encoded, Width: b.Dx(), Height: b.Dy(), Sources: []string{path}}, nil
}
