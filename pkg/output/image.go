package output

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// ErrUnsupportedFormat is returned for an output file extension with no encoder
var ErrUnsupportedFormat = errors.New("output: unsupported image format")

// Format identifies an image encoding
type Format string

const (
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatBMP:
		return "image/bmp"
	case FormatTIFF:
		return "image/tiff"
	default:
		return "image/png"
	}
}

// Extension returns the file extension of the format, including the dot
func (f Format) Extension() string {
	switch f {
	case FormatBMP:
		return ".bmp"
	case FormatTIFF:
		return ".tif"
	default:
		return ".png"
	}
}

// FormatFromPath picks the encoder from a file name's extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".bmp":
		return FormatBMP, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ToImage converts an unclamped frame to 8-bit RGBA. Components are clamped to
// [0, 255] and rounded.
func ToImage(frame *renderer.Frame) *image.RGBA {
	dc := gg.NewContext(frame.Width, frame.Height)
	for y := 0; y < frame.Height; y++ {
		for x, c := range frame.Row(y) {
			c = c.Clamp(0, 255)
			dc.SetRGB255(int(math.Round(c.X)), int(math.Round(c.Y)), int(math.Round(c.Z)))
			dc.SetPixel(x, y)
		}
	}
	return dc.Image().(*image.RGBA)
}

// Scale resizes the image by factor using Lanczos resampling. A factor of 1 or
// less than or equal to zero returns the image unchanged.
func Scale(img image.Image, factor float64) image.Image {
	if factor <= 0 || factor == 1 {
		return img
	}
	bounds := img.Bounds()
	width := max(1, int(math.Round(float64(bounds.Dx())*factor)))
	height := max(1, int(math.Round(float64(bounds.Dy())*factor)))
	return resize.Resize(uint(width), uint(height), img, resize.Lanczos3)
}

// Encode writes the image in the given format
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatPNG:
		return gg.NewContextForImage(img).EncodePNG(w)
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// EncodeFrame converts, scales and encodes a frame in memory
func EncodeFrame(frame *renderer.Frame, scale float64, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, Scale(ToImage(frame), scale), format); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

// Save writes a frame to path, choosing the encoder from the extension
func Save(path string, frame *renderer.Frame, scale float64) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	data, err := EncodeFrame(frame, scale, format)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
