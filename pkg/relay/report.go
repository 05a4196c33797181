package relay

import (
	"fmt"
	"time"

	cerrors "github.com/matzehuels/cropsy/pkg/errors"
)

// Report summarizes one fan-out.
type Report struct {
	BatchID  string        `json:"batch_id"`
	Sent     []int         `json:"sent"`
	Skipped  []Failure     `json:"skipped,omitempty"`
	Failed   []Failure     `json:"failed,omitempty"`
	Duration time.Duration `json:"duration_ns"`

	// Degenerate lists sent counts whose boxes have no usable size.
	Degenerate []int `json:"degenerate,omitempty"`
}

// Failure records why a count was not sent.
type Failure struct {
	Count int    `json:"count"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

func newFailure(count int, err error) Failure {
	return Failure{Count: count, Code: string(cerrors.GetCode(err)), Error: err.Error()}
}

// OK reports whether every computable count was sent.
func (r Report) OK() bool { return len(r.Failed) == 0 }

func formatScreen(width, height float64) string {
	return fmt.Sprintf("%vx%v", width, height)
}
