package parser

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func TestDetectImageFormat(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(0, 0, 4, 4))

	format, err := DetectImageFormat(encodePNG(t, rgba))
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, format)

	format, err = DetectImageFormat(encodeJPEG(t, rgba))
	require.NoError(t, err)
	assert.Equal(t, FormatJPEG, format)

	var gbuf bytes.Buffer
	pal := image.NewPaletted(image.Rect(0, 0, 4, 4), color.Palette{color.Black, color.White})
	require.NoError(t, gif.Encode(&gbuf, pal, nil))
	format, err = DetectImageFormat(gbuf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, FormatGIF, format)

	webpHeader := []byte("RIFF\x00\x00\x00\x00WEBPVP8 ")
	format, err = DetectImageFormat(webpHeader)
	require.NoError(t, err)
	assert.Equal(t, FormatWebP, format)

	_, err = DetectImageFormat([]byte("<html>not an image</html>"))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = DetectImageFormat([]byte("short"))
	assert.Error(t, err)
}

func TestFlatten(t *testing.T) {
	t.Run("TransparentBecomesWhite", func(t *testing.T) {
		src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
		src.Set(0, 0, color.NRGBA{R: 255, A: 255})
		src.Set(1, 0, color.NRGBA{})

		out := Flatten(src)
		assert.Equal(t, color.NRGBA{R: 255, A: 255}, out.NRGBAAt(0, 0))
		assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, out.NRGBAAt(1, 0))
	})

	t.Run("PaletteWithTransparency", func(t *testing.T) {
		pal := image.NewPaletted(image.Rect(0, 0, 2, 1), color.Palette{color.Transparent, color.Black})
		pal.SetColorIndex(0, 0, 0)
		pal.SetColorIndex(1, 0, 1)

		out := Flatten(pal)
		assert.Equal(t, uint8(255), out.NRGBAAt(0, 0).R)
		assert.Equal(t, color.NRGBA{A: 255}, out.NRGBAAt(1, 0))
	})

	t.Run("OpaqueKeepsBounds", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(5, 5, 15, 25))
		out := Flatten(src)
		assert.Equal(t, 10, out.Bounds().Dx())
		assert.Equal(t, 20, out.Bounds().Dy())
		assert.True(t, out.Opaque())
	})
}

func TestDecodeRoundTripThroughEncodePNG(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 7))
	data, err := EncodePNG(Flatten(src))
	require.NoError(t, err)

	img, format, err := DecodeImage(data)
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, format)
	assert.Equal(t, image.Rect(0, 0, 3, 7), img.Bounds())

	cfg, _, err := DecodeImageConfig(data)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Width)
	assert.Equal(t, 7, cfg.Height)
}

func TestImageExtension(t *testing.T) {
	assert.Equal(t, ".webp", ImageExtension("https://n1.a/x/1.WEBP?token=abc"))
	assert.Equal(t, ".png", ImageExtension("https://n1.a/x/1.png#frag"))
	assert.Equal(t, ".jpg", ImageExtension("https://n1.a/x/image"))
	assert.Equal(t, ".jpg", ImageExtension("https://n1.a/x/1.php"))
	assert.True(t, IsImageFile("page_0001.JPEG"))
	assert.False(t, IsImageFile("page_0001.txt"))
}
