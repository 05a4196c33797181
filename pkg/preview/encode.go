package preview

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	cerrors "github.com/matzehuels/cropsy/pkg/errors"
)

// Output formats.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatWebP = "webp"
)

// DefaultQuality is used for lossy JPEG and WebP output.
const DefaultQuality = 90

// EncodeOptions control lossy output.
type EncodeOptions struct {
	Quality  int
	Lossless bool
}

// FormatFromPath derives the output format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".webp":
		return FormatWebP, nil
	default:
		return "", cerrors.New(cerrors.ErrCodeInvalidFormat,
			"unsupported image extension %q (must be one of: .png, .jpg, .jpeg, .webp)", filepath.Ext(path))
	}
}

// Encode writes img to w in format.
func Encode(w io.Writer, img image.Image, format string, opts EncodeOptions) error {
	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}

	switch format {
	case FormatWebP:
		return webp.Encode(w, img, &webp.Options{Lossless: opts.Lossless, Quality: float32(quality)})
	case FormatPNG:
		return imaging.Encode(w, img, imaging.PNG)
	case FormatJPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	default:
		return cerrors.New(cerrors.ErrCodeInvalidFormat, "unsupported image format %q", format)
	}
}

// Save writes img to path, choosing the format from the extension.
func Save(img image.Image, path string, opts EncodeOptions) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, img, format, opts); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// Load reads a PNG, JPEG, GIF or WebP screenshot.
func Load(path string) (image.Image, error) {
	if img, err := imaging.Open(path); err == nil {
		return img, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := webp.Decode(f)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidFormat, err, "decode %s", path)
	}
	return img, nil
}

// TilePath names the file for tile i (0-based) next to base:
// "gallery.png" becomes "gallery-001.png".
func TilePath(base string, i int) string {
	ext := filepath.Ext(base)
	return fmt.Sprintf("%s-%03d%s", strings.TrimSuffix(base, ext), i+1, ext)
}
