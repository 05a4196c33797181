package layout_test

import (
	"fmt"

	"github.com/matzehuels/cropsy/pkg/layout"
)

func ExampleSolve() {
	// Four 16:9 boxes with 6px gaps in the usable part of a 1080p frame.
	l, err := layout.Solve(1908, 973, 4, 16.0/9.0, 6)
	if err != nil {
		panic(err)
	}

	fmt.Println("Grid:", l.Cols, "x", l.Rows)
	fmt.Println("Box:", l.Width, "x", l.Height)
	// Output:
	// Grid: 2 x 2
	// Box: 848 x 477
}

func ExampleLayout_LastRowCols() {
	l, _ := layout.Solve(1908, 973, 5, 16.0/9.0, 6)

	fmt.Println("Grid:", l.Cols, "x", l.Rows)
	fmt.Println("Last row:", l.LastRowCols(5))
	// Output:
	// Grid: 3 x 2
	// Last row: 2
}
