package assembler

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// DefaultDPI is the resolution recorded for embedded page images.
const DefaultDPI = 300

// Page is one encoded output page. Data is a complete JPEG or PNG file.
type Page struct {
	Data    []byte
	Width   int
	Height  int
	Sources []string
}

// DocumentWriter writes pages, in order, as one multi-page document.
type DocumentWriter interface {
	WriteDocument(w io.Writer, pages []Page) error
}

// PDFWriter writes pages as a PDF with every page sized to its image.
type PDFWriter struct {
	DPI int
}

// NewPDFWriter creates a PDF writer at DefaultDPI.
func NewPDFWriter() *PDFWriter {
	return &PDFWriter{DPI: DefaultDPI}
}

// WriteDocument implements DocumentWriter. Each page's media box is the image
// size at DPI, so a 300 DPI page of 1200 pixels is 288 points tall.
func (p *PDFWriter) WriteDocument(w io.Writer, pages []Page) error {
	if len(pages) == 0 {
		return ErrNoPages
	}

	dpi := p.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	dims := make([]*types.Dim, len(pages))
	for i, page := range pages {
		dim, err := pageDim(page, dpi)
		if err != nil {
			return fmt.Errorf("page %d: %w", i+1, err)
		}
		dims[i] = dim
	}

	conf := model.NewDefaultConfiguration()
	conf.Cmd = model.IMPORTIMAGES

	ctx, err := pdfcpu.CreateContextWithXRefTable(conf, dims[0])
	if err != nil {
		return fmt.Errorf("failed to create pdf context: %w", err)
	}
	pagesIndRef, err := ctx.Pages()
	if err != nil {
		return err
	}
	pagesDict, err := ctx.DereferenceDict(*pagesIndRef)
	if err != nil {
		return err
	}

	for i, page := range pages {
		indRef, err := pdfcpu.NewPageForImage(ctx.XRefTable, bytes.NewReader(page.Data), pagesIndRef, pageImport(dims[i], dpi))
		if err != nil {
			return fmt.Errorf("page %d: pdf import failed: %w", i+1, err)
		}
		if err := ctx.SetValid(*indRef); err != nil {
			return err
		}
		if err := model.AppendPageTree(indRef, 1, pagesDict); err != nil {
			return err
		}
		ctx.PageCount++
	}

	return api.Write(ctx, w, conf)
}

// pageDim converts a page's pixel size to points at dpi.
func pageDim(page Page, dpi int) (*types.Dim, error) {
	width, height := page.Width, page.Height
	if width <= 0 || height <= 0 {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(page.Data))
		if err != nil {
			return nil, fmt.Errorf("cannot read image size: %w", err)
		}
		width, height = cfg.Width, cfg.Height
	}
	scale := 72 / float64(dpi)
	return &types.Dim{Width: float64(width) * scale, Height: float64(height) * scale}, nil
}

// pageImport places the image at its DPI size in the bottom-left corner of a
// page of exactly that size.
func pageImport(dim *types.Dim, dpi int) *pdfcpu.Import {
	imp := pdfcpu.DefaultImportConfig()
	imp.PageDim = dim
	imp.UserDim = true
	imp.DPI = dpi
	imp.Pos = types.BottomLeft
	imp.Scale = 1
	imp.ScaleAbs = true
	return imp
}
