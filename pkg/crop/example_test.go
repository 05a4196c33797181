package crop_test

import (
	"fmt"

	"github.com/matzehuels/cropsy/pkg/crop"
)

func ExampleAutoCrop() {
	crops, err := crop.AutoCrop(1920, 1080, 2)
	if err != nil {
		panic(err)
	}

	for i, c := range crops {
		fmt.Printf("box %d: left=%v right=%v top=%v bottom=%v\n", i+1, c.Left, c.Right, c.Top, c.Bottom)
	}
	// Output:
	// box 1: left=14 right=964 top=269 bottom=282
	// box 2: left=964 right=14 top=269 bottom=282
}

func ExampleToRects() {
	crops, _ := crop.AutoCrop(1920, 1080, 1)
	r := crop.ToRects(1920, 1080, crops)[0]

	fmt.Println("Origin:", r.X, r.Y)
	fmt.Println("Size:", r.Width, "x", r.Height)
	// Output:
	// Origin: 97 48.5
	// Size: 1726 x 970
}
