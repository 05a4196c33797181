package crop

// Rect is the absolute rectangle a crop leaves inside the frame.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CenterX returns the horizontal center of the rectangle.
func (r Rect) CenterX() float64 { return r.X + r.Width/2 }

// CenterY returns the vertical center of the rectangle.
func (r Rect) CenterY() float64 { return r.Y + r.Height/2 }

// ToRect converts a crop to the rectangle it leaves in a frame.
func (v Values) ToRect(frameWidth, frameHeight float64) Rect {
	return Rect{
		X:      v.Left,
		Y:      v.Top,
		Width:  (frameWidth - v.Right) - v.Left,
		Height: (frameHeight - v.Bottom) - v.Top,
	}
}

// ToRects converts crops to absolute rectangles, preserving order.
func ToRects(frameWidth, frameHeight float64, crops []Values) []Rect {
	rects := make([]Rect, len(crops))
	for i, c := range crops {
		rects[i] = c.ToRect(frameWidth, frameHeight)
	}
	return rects
}
