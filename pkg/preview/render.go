package preview

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/cropsy/pkg/crop"
)

// Style controls how boxes are drawn.
type Style struct {
	Background color.NRGBA
	Outline    color.NRGBA
	Fill       color.NRGBA
	Label      color.NRGBA

	// FillOpacity is applied to Fill over the base image, in [0, 1].
	FillOpacity float64
	Stroke      int
	Labels      bool
}

// DefaultStyle returns gold outlines with numbered, lightly tinted boxes on
// a dark background.
func DefaultStyle() Style {
	return Style{
		Background:  color.NRGBA{R: 26, G: 26, B: 26, A: 255},
		Outline:     color.NRGBA{R: 255, G: 204, B: 0, A: 255},
		Fill:        color.NRGBA{R: 0, G: 170, B: 255, A: 255},
		Label:       color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		FillOpacity: 0.2,
		Stroke:      2,
		Labels:      true,
	}
}

// Canvas returns a blank image of the given size filled with the style's
// background.
func Canvas(width, height int, style Style) *image.NRGBA {
	return imaging.New(width, height, style.Background)
}

// FitScreen resizes a screenshot to the screen size the rects were computed
// for. Images already at that size are copied unchanged.
func FitScreen(src image.Image, width, height int) *image.NRGBA {
	b := src.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return imaging.Clone(src)
	}
	return imaging.Resize(src, width, height, imaging.Lanczos)
}

// Render draws rects over base and returns the result; base is not
// modified.
func Render(base image.Image, rects []crop.Rect, style Style) *image.NRGBA {
	img := imaging.Clone(base)
	stroke := max(style.Stroke, 1)

	for i, r := range rects {
		px := PixelRect(r)
		if px.Empty() {
			continue
		}
		if style.FillOpacity > 0 {
			tint := imaging.New(px.Dx(), px.Dy(), style.Fill)
			img = imaging.Overlay(img, tint, px.Min, style.FillOpacity)
		}
		drawOutline(img, px, style.Outline, stroke)
		if style.Labels {
			drawLabel(img, px, strconv.Itoa(i+1), style.Label, stroke)
		}
	}
	return img
}

// PixelRect rounds a rect outward to whole pixels.
func PixelRect(r crop.Rect) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X)),
		int(math.Floor(r.Y)),
		int(math.Ceil(r.X+r.Width)),
		int(math.Ceil(r.Y+r.Height)),
	)
}

func drawOutline(img *image.NRGBA, r image.Rectangle, c color.NRGBA, stroke int) {
	for s := 0; s < stroke; s++ {
		drawHLine(img, r.Min.Y+s, r.Min.X, r.Max.X, c)
		drawHLine(img, r.Max.Y-1-s, r.Min.X, r.Max.X, c)
		drawVLine(img, r.Min.X+s, r.Min.Y, r.Max.Y, c)
		drawVLine(img, r.Max.X-1-s, r.Min.Y, r.Max.Y, c)
	}
}

func drawLabel(img *image.NRGBA, r image.Rectangle, text string, c color.NRGBA, stroke int) {
	face := basicfont.Face7x13
	pad := stroke + 4
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(r.Min.X+pad, r.Min.Y+pad+face.Ascent),
	}
	d.DrawString(text)
}

func drawHLine(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	b := img.Bounds()
	if y < b.Min.Y || y >= b.Max.Y {
		return
	}
	x0, x1 = max(x0, b.Min.X), min(x1, b.Max.X)
	for x := x0; x < x1; x++ {
		img.SetNRGBA(x, y, c)
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	b := img.Bounds()
	if x < b.Min.X || x >= b.Max.X {
		return
	}
	y0, y1 = max(y0, b.Min.Y), min(y1, b.Max.Y)
	for y := y0; y < y1; y++ {
		img.SetNRGBA(x, y, c)
	}
}

// Tiles cuts every rect out of src. Rects are clipped to the image; a rect
// entirely outside src yields an empty image.
func Tiles(src image.Image, rects []crop.Rect) []*image.NRGBA {
	tiles := make([]*image.NRGBA, len(rects))
	for i, r := range rects {
		tiles[i] = imaging.Crop(src, PixelRect(r))
	}
	return tiles
}
