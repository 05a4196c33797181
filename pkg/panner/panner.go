package panner

import (
	"github.com/matzehuels/cropsy/pkg/crop"
	cerrors "github.com/matzehuels/cropsy/pkg/errors"
)

// Params are the Panner values for every box of one gallery size.
type Params struct {
	// WidthPercent is the box width as a percentage of the screen width.
	WidthPercent float64 `json:"width_percent"`

	// HeightPercent is the box height as a percentage of the screen height.
	HeightPercent float64 `json:"height_percent"`

	// CropPercents holds one (horizontal, vertical) pan pair per box.
	CropPercents []float64 `json:"crop_percents"`

	// BoxWidth and BoxHeight are the box size in screen pixels.
	BoxWidth  float64 `json:"box_width"`
	BoxHeight float64 `json:"box_height"`
}

// Count returns the number of boxes described by p.
func (p Params) Count() int { return len(p.CropPercents) / 2 }

// Degenerate reports whether the boxes have no usable size. Such params are
// still finite and can be sent, but show nothing.
func (p Params) Degenerate() bool { return p.BoxWidth <= 0 || p.BoxHeight <= 0 }

// Pan returns the horizontal and vertical pan of box i (0-based).
func (p Params) Pan(i int) (h, v float64) {
	return p.CropPercents[2*i], p.CropPercents[2*i+1]
}

// Calculator computes Panner values for a fixed gallery geometry.
type Calculator struct {
	crops *crop.Calculator
}

// NewCalculator creates a calculator; opts adjust the default geometry.
func NewCalculator(opts ...crop.Option) *Calculator {
	return &Calculator{crops: crop.NewCalculator(opts...)}
}

// Config returns the gallery geometry used by the calculator.
func (c *Calculator) Config() crop.Config { return c.crops.Config() }

// Compute returns Panner values for count boxes on a width x height screen
// using the default geometry adjusted by opts.
func Compute(width, height float64, count int, opts ...crop.Option) (Params, error) {
	return NewCalculator(opts...).Compute(width, height, count)
}

// Compute returns Panner values for count boxes on a width x height screen.
//
// A count of zero yields WidthPercent = HeightPercent = 100 and no pan
// values. A layout whose boxes quantize to zero size returns the computed
// params together with a DEGENERATE_LAYOUT error; callers decide whether to
// use them.
func (c *Calculator) Compute(width, height float64, count int) (Params, error) {
	res, err := c.crops.Compute(width, height, count)
	if err != nil {
		return Params{}, err
	}
	p, err := FromCrops(width, height, res.Crops, c.crops.Config().AspectRatio)
	if err != nil {
		return Params{}, err
	}
	if count > 0 && res.Layout.Degenerate() {
		return p, cerrors.New(cerrors.ErrCodeDegenerateLayout,
			"%d boxes do not fit a %vx%v screen", count, width, height)
	}
	return p, nil
}

// FromCrops derives Panner values from crops produced for a width x height
// screen. The first crop stands in for the box size: every box of a layout
// has the same dimensions.
func FromCrops(width, height float64, crops []crop.Values, aspectRatio float64) (Params, error) {
	if len(crops) == 0 {
		return Params{
			WidthPercent:  Round6(100),
			HeightPercent: Round6(100),
			CropPercents:  []float64{},
		}, nil
	}

	boxWidth := width - crops[0].Left - crops[0].Right
	boxHeight := boxWidth / aspectRatio

	travelH := width - boxWidth
	travelV := height - boxHeight
	if travelH == 0 || travelV == 0 {
		return Params{}, cerrors.New(cerrors.ErrCodeZeroTravelRange,
			"a %vx%v box has no travel range on a %vx%v screen", boxWidth, boxHeight, width, height)
	}

	centerH := width / 2
	centerV := height / 2

	percents := make([]float64, 0, 2*len(crops))
	for _, c := range crops {
		panH := centerH - (c.Left + boxWidth/2)
		panV := centerV - (c.Top + boxHeight/2)
		percents = append(percents,
			Round6((0.5-panH/travelH)*100),
			Round6((0.5-panV/travelV)*100),
		)
	}

	return Params{
		WidthPercent:  Round6(boxWidth / width * 100),
		HeightPercent: Round6(boxHeight / height * 100),
		CropPercents:  percents,
		BoxWidth:      boxWidth,
		BoxHeight:     boxHeight,
	}, nil
}
