package assembler

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"
	"os"

	"batodl/models"
	"batodl/parser"

	"github.com/disintegration/imaging"
)

// PlanChunks groups consecutive image heights into pages of at most limit pixels.
// A chunk is closed before an image that would overflow it, unless the chunk is
// empty: an image taller than limit gets a page of its own.
// The result holds indices into heights.
func PlanChunks(heights []int, limit int) [][]int {
	var (
		chunks [][]int
		cur    []int
		acc    int
	)
	for i, h := range heights {
		if len(cur) > 0 && acc+h > limit {
			chunks = append(chunks, cur)
			cur, acc = nil, 0
		}
		cur = append(cur, i)
		acc += h
	}
	if len(cur) > 0 {
		chunks = append(chunks, cur)
	}
	return chunks
}

// scaledHeight mirrors the height imaging.Resize produces for width 0-preserving resizes.
func scaledHeight(w, h, targetW int) int {
	if w == targetW {
		return h
	}
	return int(math.Max(1, math.Floor(float64(targetW)*float64(h)/float64(w)+0.5)))
}

type measuredImage struct {
	path          string
	width, height int
}

// stitchPages measures every image, normalizes all of them to the narrowest
// width and concatenates them top-to-bottom into chunks of at most limit pixels.
func (a *Assembler) stitchPages(files []string, limit int, sink models.ProgressSink) ([]Page, []SkippedImage) {
	var (
		measured []measuredImage
		skipped  []SkippedImage
	)

	for _, path := range files {
		data, err := os.ReadFile(path)
		if err == nil {
			var cfg image.Config
			cfg, _, err = parser.DecodeImageConfig(data)
			if err == nil && (cfg.Width <= 0 || cfg.Height <= 0) {
				err = fmt.Errorf("invalid dimensions %dx%d", cfg.Width, cfg.Height)
			}
			if err == nil {
				measured = append(measured, measuredImage{path: path, width: cfg.Width, height: cfg.Height})
				continue
			}
		}
		log.Printf("[Assembler] ⚠️ Skipping %s: %v", path, err)
		skipped = append(skipped, SkippedImage{Path: path, Err: err})
	}
	if len(measured) == 0 {
		return nil, skipped
	}

	minWidth := measured[0].width
	for _, m := range measured[1:] {
		minWidth = min(minWidth, m.width)
	}

	heights := make([]int, len(measured))
	for i, m := range measured {
		heights[i] = scaledHeight(m.width, m.height, minWidth)
	}

	chunks := PlanChunks(heights, limit)
	log.Printf("[Assembler] Stitching %d images at width %d into %d pages", len(measured), minWidth, len(chunks))

	pages := make([]Page, 0, len(chunks))
	for ci, chunk := range chunks {
		var (
			strips  []*image.NRGBA
			sources []string
		)
		for _, idx := range chunk {
			path := measured[idx].path
			img, err := loadNormalized(path, minWidth)
			if err != nil {
				log.Printf("[Assembler] ⚠️ Skipping %s: %v", path, err)
				skipped = append(skipped, SkippedImage{Path: path, Err: err})
				continue
			}
			strips = append(strips, img)
			sources = append(sources, path)
		}

		if len(strips) > 0 {
			canvas := stitch(strips, minWidth)
			data, err := parser.EncodePNG(canvas)
			if err != nil {
				log.Printf("[Assembler] ⚠️ Failed to encode page %d: %v", ci+1, err)
				for _, src := range sources {
					skipped = append(skipped, SkippedImage{Path: src, Err: err})
				}
			} else {
				b := canvas.Bounds()
				pages = append(pages, Page{Data: data, Width: b.Dx(), Height: b.Dy(), Sources: sources})
			}
		}

		models.Report(sink, models.StageAssemble, ci+1, len(chunks),
			fmt.Sprintf("Stitched page %d/%d", ci+1, len(chunks)))
	}

	return pages, skipped
}

// loadNormalized decodes an image, flattens it to opaque RGB and downscales it to width.
func loadNormalized(path string, width int) (*image.NRGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, _, err := parser.DecodeImage(data)
	if err != nil {
		return nil, err
	}

	flat := parser.Flatten(img)
	if flat.Bounds().Dx() != width {
		flat = imaging.Resize(flat, width, 0, imaging.Lanczos)
	}
	return flat, nil
}

// stitch pastes strips top-to-bottom onto a white canvas with no gaps.
func stitch(strips []*image.NRGBA, width int) *image.NRGBA {
	total := 0
	for _, s := range strips {
		total += s.Bounds().Dy()
	}

	canvas := imaging.New(width, total, color.White)
	y := 0
	for _, s := range strips {
		h := s.Bounds().Dy()
		draw.Draw(canvas, image.Rect(0, y, width, y+h), s, s.Bounds().Min, draw.Src)
		y += h
	}
	return canvas
}
