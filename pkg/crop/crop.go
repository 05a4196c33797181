package crop

import (
	cerrors "github.com/matzehuels/cropsy/pkg/errors"
	"github.com/matzehuels/cropsy/pkg/layout"
)

// Values are pixel margins trimmed from each edge of the full frame to leave
// one box.
type Values struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// Result is a solved layout together with the crops derived from it.
type Result struct {
	Layout layout.Layout `json:"layout"`
	Crops  []Values      `json:"crops"`
}

// Calculator computes crops for a fixed gallery geometry.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a calculator starting from [DefaultConfig].
func NewCalculator(opts ...Option) *Calculator {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Calculator{cfg: cfg}
}

// Config returns the geometry used by the calculator.
func (c *Calculator) Config() Config { return c.cfg }

// AutoCrop computes crop values for itemCount boxes in a
// sourceWidth x sourceHeight frame using the default geometry adjusted by opts.
func AutoCrop(sourceWidth, sourceHeight float64, itemCount int, opts ...Option) ([]Values, error) {
	return NewCalculator(opts...).AutoCrop(sourceWidth, sourceHeight, itemCount)
}

// AutoCrop computes crop values for itemCount boxes, in row-major order.
// A count of zero yields an empty slice.
func (c *Calculator) AutoCrop(sourceWidth, sourceHeight float64, itemCount int) ([]Values, error) {
	res, err := c.Compute(sourceWidth, sourceHeight, itemCount)
	if err != nil {
		return nil, err
	}
	return res.Crops, nil
}

// Compute solves the layout for the usable area of the frame and derives one
// crop per box. For itemCount == 0 the layout is the zero value.
func (c *Calculator) Compute(sourceWidth, sourceHeight float64, itemCount int) (Result, error) {
	if err := cerrors.ValidateFrame(sourceWidth, sourceHeight); err != nil {
		return Result{}, err
	}
	if err := cerrors.ValidateCount(itemCount, 0); err != nil {
		return Result{}, err
	}
	if err := c.cfg.Validate(); err != nil {
		return Result{}, err
	}
	if itemCount == 0 {
		return Result{Crops: []Values{}}, nil
	}

	cfg := c.cfg
	innerWidth := sourceWidth - cfg.LeftMargin - cfg.RightMargin
	innerHeight := sourceHeight - cfg.TopMargin - cfg.BottomMargin
	if innerWidth <= 0 || innerHeight <= 0 {
		return Result{}, cerrors.New(cerrors.ErrCodeInvalidDimension,
			"margins leave no usable area in a %vx%v frame", sourceWidth, sourceHeight)
	}

	l, err := layout.Solve(innerWidth, innerHeight, itemCount, cfg.AspectRatio, cfg.Spacing)
	if err != nil {
		return Result{}, err
	}

	centerV := (sourceHeight-cfg.TopMargin-cfg.BottomMargin)/2 + cfg.TopMargin
	lastRow := l.Rows - 1
	lastRowCols := l.LastRowCols(itemCount)
	heightSum := float64(l.Rows)*l.Height + cfg.Spacing*float64(l.Rows-1)

	crops := make([]Values, itemCount)
	for i := range crops {
		col := i % l.Cols
		row := i / l.Cols
		rowSize := l.Cols
		if row == lastRow {
			rowSize = lastRowCols
		}

		widthSum := float64(rowSize)*l.Width + cfg.Spacing*float64(rowSize-1)
		hMargin := (sourceWidth - widthSum) / 2

		left := hMargin + float64(col)*(l.Width+cfg.Spacing)
		right := sourceWidth - (left + l.Width)
		top := centerV - heightSum/2 + float64(row)*(l.Height+cfg.Spacing)
		bottom := sourceHeight - (top + l.Height)

		crops[i] = Values{
			Left:   left + cfg.Inset,
			Right:  right + cfg.Inset,
			Top:    top + cfg.Inset,
			Bottom: bottom + cfg.Inset,
		}
	}

	return Result{Layout: l, Crops: crops}, nil
}
