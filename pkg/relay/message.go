package relay

import (
	"context"
	"fmt"
	"math"

	cerrors "github.com/matzehuels/cropsy/pkg/errors"
	"github.com/matzehuels/cropsy/pkg/panner"
)

// Default OSC addresses.
const (
	DefaultInboundAddress = "/zgc/cropValues"
	DefaultOutboundPrefix = "/izzy/cropValues/"
)

// Message is one OSC message. Outbound arguments are float32; inbound
// arguments keep whatever numeric type the sender used.
type Message struct {
	Address string
	Args    []any
}

// Handler processes an inbound message.
type Handler func(ctx context.Context, msg Message)

// Transport moves messages between the relay and the network.
type Transport interface {
	// Listen receives messages and dispatches them to registered handlers
	// until ctx is cancelled.
	Listen(ctx context.Context) error

	// Send delivers one message to the configured destination.
	Send(ctx context.Context, msg Message) error

	// OnMessage registers h for messages sent to address.
	OnMessage(address string, h Handler)
}

// Request asks for Panner values for every gallery size up to MaxCount.
type Request struct {
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	MaxCount int     `json:"max_count"`
}

// ParseRequest reads [width, height, maxCount] from an inbound message.
// Arguments may be any OSC numeric type. A fractional count is floored, so
// 2.5 asks for counts 1 and 2.
func ParseRequest(msg Message) (Request, error) {
	if len(msg.Args) < 3 {
		return Request{}, cerrors.New(cerrors.ErrCodeInvalidMessage,
			"%s expects [width, height, maxCount], got %d arguments", msg.Address, len(msg.Args))
	}

	var vals [3]float64
	for i := range vals {
		v, ok := toFloat(msg.Args[i])
		if !ok {
			return Request{}, cerrors.New(cerrors.ErrCodeInvalidMessage,
				"argument %d of %s is %T, want a number", i, msg.Address, msg.Args[i])
		}
		vals[i] = v
	}

	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Request{}, cerrors.New(cerrors.ErrCodeInvalidMessage,
				"argument %d of %s is not finite", i, msg.Address)
		}
	}

	count := math.Max(math.Min(math.Floor(vals[2]), math.MaxInt32), -1)
	return Request{Width: vals[0], Height: vals[1], MaxCount: int(count)}, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// Address returns the outbound address for count: the prefix followed by
// the count padded to three digits (1 -> "001"; 1000 stays "1000").
func Address(prefix string, count int) string {
	return fmt.Sprintf("%s%03d", prefix, count)
}

// Args lays out Panner values as outbound arguments:
//
//	[widthPercent, widthPercent, panH1, panV1, ..., panHn, panVn]
//
// The second slot repeats the width unless sendHeight is set, in which case
// it carries HeightPercent.
func Args(p panner.Params, sendHeight bool) []any {
	second := p.WidthPercent
	if sendHeight {
		second = p.HeightPercent
	}
	args := make([]any, 0, 2+len(p.CropPercents))
	args = append(args, float32(p.WidthPercent), float32(second))
	for _, v := range p.CropPercents {
		args = append(args, float32(v))
	}
	return args
}
