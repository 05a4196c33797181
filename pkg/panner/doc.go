// Package panner converts gallery crops into Isadora Panner values.
//
// A Panner crops its input to a region of interest described by a size
// (percent of the screen) and a horizontal/vertical position (percent of the
// travel range the region's center can move through). For a gallery layout
// all boxes share one size, so [Params] carries a single WidthPercent and
// HeightPercent plus a flattened list of (horizontal, vertical) positions:
//
//	[panH1, panV1, panH2, panV2, ..., panHn, panVn]
//
// A box centered on the screen sits at 50% on both axes.
//
// All values are percentages rounded to six decimals by [Round6], which keeps
// OSC float payloads short and stable.
//
// # Preconditions
//
// The normalization divides by (screen size - box size). A box as large as
// the screen on either axis has no travel range; [Compute] returns a
// ZERO_TRAVEL_RANGE error instead of non-finite values.
package panner
