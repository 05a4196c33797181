package panner

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/cropsy/pkg/crop"
	cerrors "github.com/matzehuels/cropsy/pkg/errors"
)

func TestComputeKnownValues(t *testing.T) {
	tests := []struct {
		name  string
		count int
		width float64
		pans  []float64
	}{
		{
			name:  "single box",
			count: 1,
			width: 89.895833,
			pans:  []float64{50, 44.444444},
		},
		{
			name:  "two boxes",
			count: 2,
			width: 49.0625,
			pans:  []float64{1.431493, 48.897978, 98.568507, 48.897978},
		},
		{
			name:  "three boxes",
			count: 3,
			width: 44.0625,
			pans:  []float64{10.242086, 9.021312, 89.757914, 9.021312, 50, 88.971653},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compute(1920, 1080, tt.count)
			require.NoError(t, err)

			assert.InDelta(t, tt.width, p.WidthPercent, 1e-9)
			// 16:9 boxes on a 16:9 screen fill the same share on both axes.
			assert.InDelta(t, tt.width, p.HeightPercent, 1e-9)
			assert.InDeltaSlice(t, tt.pans, p.CropPercents, 1e-9)
			assert.Equal(t, tt.count, p.Count())
		})
	}
}

func TestComputeZeroCount(t *testing.T) {
	p, err := Compute(1920, 1080, 0)
	require.NoError(t, err)

	assert.Equal(t, 100.0, p.WidthPercent)
	assert.Equal(t, 100.0, p.HeightPercent)
	assert.NotNil(t, p.CropPercents)
	assert.Empty(t, p.CropPercents)
	assert.Zero(t, p.BoxWidth)
}

func TestComputeLength(t *testing.T) {
	c := NewCalculator()
	for n := 1; n <= 30; n++ {
		p, err := c.Compute(1920, 1080, n)
		require.NoError(t, err)
		assert.Len(t, p.CropPercents, 2*n)
		for _, v := range p.CropPercents {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		}
	}
}

func TestComputeMirrorSymmetry(t *testing.T) {
	// Full 2x2 grid: left/right and top/bottom pairs mirror around the center.
	p, err := Compute(1920, 1080, 4)
	require.NoError(t, err)

	h0, v0 := p.Pan(0)
	h1, v1 := p.Pan(1)
	h2, v2 := p.Pan(2)

	assert.InDelta(t, 0, (h0-50)+(h1-50), 1e-6)
	assert.Less(t, h0-50, 0.0)
	assert.Greater(t, h1-50, 0.0)
	assert.Equal(t, v0, v1)

	assert.Equal(t, h0, h2)
	assert.Less(t, v0, v2)
}

func TestComputeSingleBoxRoughlyCentered(t *testing.T) {
	p, err := Compute(1920, 1080, 1)
	require.NoError(t, err)

	h, v := p.Pan(0)
	assert.Equal(t, 50.0, h)
	// The top margin is smaller than the bottom one, so the box sits high.
	assert.Less(t, v, 50.0)
	assert.Greater(t, v, 40.0)
	assert.Equal(t, 1726.0, p.BoxWidth)
}

func TestComputeDegenerate(t *testing.T) {
	p, err := Compute(40, 120, 8)
	require.Error(t, err)
	assert.True(t, cerrors.Is(err, cerrors.ErrCodeDegenerateLayout), "got %v", err)

	// The computed values come back with the error.
	assert.True(t, p.Degenerate())
	require.Len(t, p.CropPercents, 16)
	for i, v := range p.CropPercents {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "pan %d = %v", i, v)
	}
}

func TestParamsDegenerate(t *testing.T) {
	p, err := Compute(1920, 1080, 4)
	require.NoError(t, err)
	assert.False(t, p.Degenerate())
	assert.True(t, Params{}.Degenerate())
}

func TestComputeInvalid(t *testing.T) {
	_, err := Compute(0, 1080, 1)
	assert.True(t, cerrors.Is(err, cerrors.ErrCodeInvalidDimension))

	_, err = Compute(1920, 1080, -1)
	assert.True(t, cerrors.Is(err, cerrors.ErrCodeInvalidDimension))
}

func TestFromCropsZeroTravelRange(t *testing.T) {
	// A box spanning the whole screen width cannot pan.
	crops := []crop.Values{{Left: 0, Right: 0, Top: 0, Bottom: 0}}
	_, err := FromCrops(1920, 1080, crops, 16.0/9.0)
	require.Error(t, err)
	assert.True(t, cerrors.Is(err, cerrors.ErrCodeZeroTravelRange))
}

func TestCustomGeometry(t *testing.T) {
	c := NewCalculator(crop.WithMargins(0, 0, 0, 0), crop.WithSpacing(0))
	assert.Equal(t, 0.0, c.Config().Spacing)

	p, err := c.Compute(1920, 1080, 4)
	require.NoError(t, err)
	// 2x2 without gaps: each box is 960 wide minus the 2px inset.
	assert.Equal(t, 958.0, p.BoxWidth)
	assert.Equal(t, Round6(958.0/1920*100), p.WidthPercent)
}
