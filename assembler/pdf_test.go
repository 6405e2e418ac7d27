package assembler

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngPage(t *testing.T, w, h int) Page {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.NRGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return Page{Data: buf.Bytes(), Width: w, Height: h}
}

func TestPDFWriter(t *testing.T) {
	var out bytes.Buffer
	err := NewPDFWriter().WriteDocument(&out, []Page{pngPage(t, 20, 30), pngPage(t, 20, 60)})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out.Bytes(), []byte("%PDF")))

	n, err := api.PageCount(bytes.NewReader(out.Bytes()), model.NewDefaultConfiguration())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestPDFWriterNoPages(t *testing.T) {
	var out bytes.Buffer
	assert.ErrorIs(t, NewPDFWriter().WriteDocument(&out, nil), ErrNoPages)
}

func TestPDFWriterPageSizeFollowsDPI(t *testing.T) {
	pageDims := func(t *testing.T, w *PDFWriter, pages ...Page) []types.Dim {
		t.Helper()
		var out bytes.Buffer
		require.NoError(t, w.WriteDocument(&out, pages))
		dims, err := api.PageDims(bytes.NewReader(out.Bytes()), model.NewDefaultConfiguration())
		require.NoError(t, err)
		return dims
	}

	t.Run("DefaultDPI", func(t *testing.T) {
		dims := pageDims(t, NewPDFWriter(), pngPage(t, 800, 1200), pngPage(t, 300, 600))
		require.Len(t, dims, 2)
		assert.InDelta(t, 192, dims[0].Width, 0.01)
		assert.InDelta(t, 288, dims[0].Height, 0.01)
		assert.InDelta(t, 72, dims[1].Width, 0.01)
		assert.InDelta(t, 144, dims[1].Height, 0.01)
	})

	t.Run("CustomDPI", func(t *testing.T) {
		dims := pageDims(t, &PDFWriter{DPI: 72}, pngPage(t, 50, 80))
		require.Len(t, dims, 1)
		assert.InDelta(t, 50, dims[0].Width, 0.01)
		assert.InDelta(t, 80, dims[0].Height, 0.01)
	})

	t.Run("TallStitchedPageStaysWithinPDFLimit", func(t *testing.T) {
		dims := pageDims(t, NewPDFWriter(), pngPage(t, 50, 40000))
		require.Len(t, dims, 1)
		assert.InDelta(t, 9600, dims[0].Height, 0.01)
		assert.Less(t, dims[0].Height, 14400.0)
	})

	t.Run("SizeReadFromDataWhenUnset", func(t *testing.T) {
		page := pngPage(t, 600, 900)
		page.Width, page.Height = 0, 0
		dims := pageDims(t, NewPDFWriter(), page)
		assert.InDelta(t, 216, dims[0].Height, 0.01)
	})
}
