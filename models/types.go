package models

import "time"

// ChapterManifest is the result of resolving one chapter page.
// Images holds the page order of the final document and is never reordered after resolution.
type ChapterManifest struct {
	Title          string   `json:"title"`           // Chapter title as shown on the page
	Images         []string `json:"images"`          // Ordered, CDN-corrected image URLs
	ResolvedMirror string   `json:"resolved_mirror"` // Mirror domain that produced the list
	Strategy       string   `json:"strategy"`        // Extraction strategy that matched
}

// StagedImage is one downloaded image on local disk.
// Index is 1-based and is encoded into the file name so order survives unordered completion.
type StagedImage struct {
	Index int    `json:"index"`
	URL   string `json:"url"`
	Path  string `json:"path"`
}

// StitchPolicy controls how staged images become output pages.
// ChunkHeightPixels == 0 keeps one image per page; any positive value is the maximum
// accumulated pixel height of a stitched page.
type StitchPolicy struct {
	ChunkHeightPixels int `json:"chunk_height_pixels" toml:"chunk_height_pixels"`
}

// Stitching reports whether the policy concatenates images into strips.
func (p StitchPolicy) Stitching() bool {
	return p.ChunkHeightPixels > 0
}

// Stitch presets offered to the operator.
const (
	PresetSkip   = "skip"
	PresetShort  = "short"
	PresetNormal = "normal"
	PresetTall   = "tall"
	PresetCustom = "custom"

	MinCustomHeight = 1000
	MaxCustomHeight = 50000
)

// PresetHeights maps the fixed presets to their chunk heights.
var PresetHeights = map[string]int{
	PresetSkip:   0,
	PresetShort:  5000,
	PresetNormal: 15000,
	PresetTall:   30000,
}

// AssembledDocument describes a written output document.
type AssembledDocument struct {
	Path  string `json:"path"`
	Pages int    `json:"pages"`
	Bytes int64  `json:"bytes"`
}

// ChapterResult is everything the front end needs to know about one processed chapter.
// It is returned per run instead of being accumulated in process-wide counters.
type ChapterResult struct {
	URL          string        `json:"url"`
	Title        string        `json:"title"`
	Mirror       string        `json:"mirror"`
	Images       int           `json:"images"`
	Downloaded   int           `json:"downloaded"`
	Pages        int           `json:"pages"`
	Bytes        int64         `json:"bytes"`
	DocumentPath string        `json:"document_path"`
	Elapsed      time.Duration `json:"elapsed"`
	Err          error         `json:"-"`
}

// Succeeded reports whether the chapter produced a document.
func (r *ChapterResult) Succeeded() bool {
	return r != nil && r.Err == nil && r.DocumentPath != ""
}

// SizeMB returns the document size in megabytes.
func (r *ChapterResult) SizeMB() float64 {
	return float64(r.Bytes) / (1024 * 1024)
}

// BatchResult summarises a bulk run.
type BatchResult struct {
	Chapters    []*ChapterResult `json:"chapters"`
	ArchivePath string           `json:"archive_path"`
	Succeeded   int              `json:"succeeded"`
	Failed      int              `json:"failed"`
	Elapsed     time.Duration    `json:"elapsed"`
}
