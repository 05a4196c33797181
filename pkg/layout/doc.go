// Package layout finds the grid partition that gives same-aspect-ratio boxes
// the most area inside a frame.
//
// # Overview
//
// A gallery of n boxes can be arranged as cols columns and ceil(n/cols) rows
// for any cols in [1, n]. For each candidate the solver removes the spacing
// gaps, decides which axis binds (the boxes either fill the width or the
// height first), derives the other dimension from the aspect ratio and
// quantizes both: widths to multiples of 16, heights to multiples of 9. The
// candidate with the strictly largest box area wins; ties keep the lowest
// column count.
//
// # Solving
//
//	l, err := layout.Solve(1908, 973, 4, 16.0/9.0, 6)
//	// l.Cols == 2, l.Rows == 2, l.Width == 848, l.Height == 477
//
// A returned layout always satisfies Rows == ceil(n/Cols). When the frame is
// too small for the requested count the box size quantizes to zero; such a
// layout is returned without error and [Layout.Degenerate] reports it.
package layout
