package parser

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/webp"
)

// Image formats recognised by magic bytes.
const (
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
	FormatGIF  = "gif"
	FormatWebP = "webp"
)

var imageExtensions = map[string]string{
	".jpg":  ".jpg",
	".jpeg": ".jpeg",
	".png":  ".png",
	".webp": ".webp",
	".gif":  ".gif",
}

// ErrUnknownFormat is returned when the bytes do not look like a supported image.
var ErrUnknownFormat = errors.New("unknown image format")

// DetectImageFormat reads the magic bytes and returns the image format string
func DetectImageFormat(data []byte) (string, error) {
	if len(data) < 12 {
		return "", errors.New("data too short to determine format")
	}

	if data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return FormatJPEG, nil
	}
	if data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 {
		return FormatPNG, nil
	}
	if string(data[0:6]) == "GIF87a" || string(data[0:6]) == "GIF89a" {
		return FormatGIF, nil
	}
	if string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP" {
		return FormatWebP, nil
	}

	return "", ErrUnknownFormat
}

// DecodeImage decodes image bytes in any supported format.
func DecodeImage(data []byte) (image.Image, string, error) {
	format, err := DetectImageFormat(data)
	if err != nil {
		return nil, "", err
	}

	var img image.Image
	reader := bytes.NewReader(data)

	switch format {
	case FormatJPEG:
		img, err = jpeg.Decode(reader)
	case FormatPNG:
		img, err = png.Decode(reader)
	case FormatGIF:
		img, err = gif.Decode(reader)
	case FormatWebP:
		img, err = webp.Decode(reader)
	}
	if err != nil {
		return nil, format, fmt.Errorf("failed to decode %s image: %w", format, err)
	}
	return img, format, nil
}

// DecodeImageConfig returns dimensions and color model without decoding pixels.
func DecodeImageConfig(data []byte) (image.Config, string, error) {
	format, err := DetectImageFormat(data)
	if err != nil {
		return image.Config{}, "", err
	}

	var cfg image.Config
	reader := bytes.NewReader(data)

	switch format {
	case FormatJPEG:
		cfg, err = jpeg.DecodeConfig(reader)
	case FormatPNG:
		cfg, err = png.DecodeConfig(reader)
	case FormatGIF:
		cfg, err = gif.DecodeConfig(reader)
	case FormatWebP:
		cfg, err = webp.DecodeConfig(reader)
	}
	if err != nil {
		return image.Config{}, format, fmt.Errorf("failed to read %s header: %w", format, err)
	}
	return cfg, format, nil
}

// Flatten returns a fully opaque RGB copy of img.
// Transparent pixels are composited onto a white background; palette images
// are expanded to full color with their alpha honoured.
func Flatten(img image.Image) *image.NRGBA {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return imaging.Clone(img)
	}

	b := img.Bounds()
	dst := imaging.New(b.Dx(), b.Dy(), color.White)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

// EncodePNG encodes img losslessly.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.DefaultCompression)); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// IsImageFile reports whether the file name carries a supported image extension.
func IsImageFile(name string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// ImageExtension returns the image extension of a URL path, or ".jpg" when
// the path carries no recognised extension.
func ImageExtension(rawURL string) string {
	p := rawURL
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if ext, ok := imageExtensions[strings.ToLower(path.Ext(p))]; ok {
		return ext
	}
	return ".jpg"
}
