package panner

import "math"

// machineEpsilon is the gap between 1 and the next representable float64.
const machineEpsilon = 2.220446049250313e-16

// Round6 rounds x to six decimal digits, half away from zero. A machine
// epsilon is added first so values like 0.1234565, stored just below the
// half, still round up.
func Round6(x float64) float64 {
	return math.Round((x+machineEpsilon)*1e6) / 1e6
}
