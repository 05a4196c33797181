// Package crop turns a solved gallery layout into per-box crop margins.
//
// Each box is described by [Values]: how many pixels to trim from the left,
// right, top and bottom edges of the full frame so that only that box
// remains. The grid is centered horizontally in the frame and vertically
// around the middle of the usable area (the frame minus its margins). A short
// last row is centered on its own.
//
// Every margin is inset by [Config.Inset] (one pixel by default) so that the
// tile border never shows, absorbing rounding error.
//
// # Configuration
//
// The margins reproduce a Zoom gallery view at any resolution and are fixed
// per deployment. [DefaultConfig] returns the tuned values; options override
// individual fields:
//
//	crops, err := crop.AutoCrop(1920, 1080, 4,
//	    crop.WithMargins(40, 60, 0, 0),
//	    crop.WithSpacing(4),
//	)
//
// Use [ToRects] when absolute rectangles are easier to consume than margins.
package crop
