// Package preview draws a gallery layout as a raster image.
//
// A preview is either a blank canvas the size of the screen or a screenshot
// of the gallery, with every box outlined and numbered in row-major order.
// Checking a preview against a real Zoom screenshot is the quickest way to
// tune margins and spacing for a new display.
//
// Tiles cuts each box out of a screenshot, which shows exactly what the
// Panner will frame for each participant.
//
// Images are written as PNG, JPEG or WebP.
package preview
