package layout

import (
	"math"

	cerrors "github.com/matzehuels/cropsy/pkg/errors"
)

// Quantization units for the 16:9 family of box sizes.
const (
	WidthQuantum  = 16.0
	HeightQuantum = 9.0
)

// Layout describes the best grid partition found for a box count.
// Width and Height are the size of a single box; Area is Width*Height.
type Layout struct {
	Area   float64 `json:"area"`
	Cols   int     `json:"cols"`
	Rows   int     `json:"rows"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Degenerate reports whether a box dimension quantized to zero.
func (l Layout) Degenerate() bool { return l.Width <= 0 || l.Height <= 0 }

// Cells returns the number of grid slots, Cols*Rows.
func (l Layout) Cells() int { return l.Cols * l.Rows }

// LastRowCols returns how many boxes sit in the last row when count boxes
// are placed row-major.
func (l Layout) LastRowCols(count int) int {
	return l.Cols - (l.Cells() - count)
}

// FloorTo rounds v down to the nearest multiple of q.
func FloorTo(v, q float64) float64 {
	return math.Floor(v/q) * q
}

// Solve returns the partition of boxCount boxes that maximizes box area in a
// frameWidth x frameHeight frame, reserving spacing between adjacent boxes on
// both axes. aspectRatio is box width divided by box height.
func Solve(frameWidth, frameHeight float64, boxCount int, aspectRatio, spacing float64) (Layout, error) {
	if err := cerrors.ValidateFrame(frameWidth, frameHeight); err != nil {
		return Layout{}, err
	}
	if err := cerrors.ValidateCount(boxCount, 1); err != nil {
		return Layout{}, err
	}
	if err := cerrors.ValidateAspectRatio(aspectRatio); err != nil {
		return Layout{}, err
	}
	if err := cerrors.ValidateSpacing(spacing); err != nil {
		return Layout{}, err
	}

	best := candidate(frameWidth, frameHeight, boxCount, 1, aspectRatio, spacing)
	for cols := 2; cols <= boxCount; cols++ {
		if c := candidate(frameWidth, frameHeight, boxCount, cols, aspectRatio, spacing); c.Area > best.Area {
			best = c
		}
	}
	return best, nil
}

// Candidates evaluates every column count in [1, boxCount] without picking a
// winner. Index i holds the layout for cols = i+1. Inputs are not validated.
func Candidates(frameWidth, frameHeight float64, boxCount int, aspectRatio, spacing float64) []Layout {
	if boxCount < 1 {
		return nil
	}
	out := make([]Layout, boxCount)
	for cols := 1; cols <= boxCount; cols++ {
		out[cols-1] = candidate(frameWidth, frameHeight, boxCount, cols, aspectRatio, spacing)
	}
	return out
}

func candidate(frameWidth, frameHeight float64, boxCount, cols int, aspectRatio, spacing float64) Layout {
	rows := (boxCount + cols - 1) / cols
	packedWidth := frameWidth - spacing*float64(cols-1)
	packedHeight := frameHeight - spacing*float64(rows-1)

	hScale := packedWidth / (float64(cols) * aspectRatio)
	vScale := packedHeight / float64(rows)

	var width, height float64
	if hScale <= vScale {
		width = FloorTo(packedWidth/float64(cols), WidthQuantum)
		height = FloorTo(width/aspectRatio, HeightQuantum)
	} else {
		height = FloorTo(packedHeight/float64(rows), HeightQuantum)
		width = FloorTo(height*aspectRatio, WidthQuantum)
	}
	// Spacing can eat the whole frame for large counts.
	width = math.Max(width, 0)
	height = math.Max(height, 0)

	return Layout{
		Area:   width * height,
		Cols:   cols,
		Rows:   rows,
		Width:  width,
		Height: height,
	}
}
