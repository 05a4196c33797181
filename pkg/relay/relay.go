package relay

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	cerrors "github.com/matzehuels/cropsy/pkg/errors"
	"github.com/matzehuels/cropsy/pkg/observability"
	"github.com/matzehuels/cropsy/pkg/pipeline"
)

// Options configures a [Relay].
type Options struct {
	// InboundAddress is the control message address the relay answers.
	InboundAddress string

	// OutboundPrefix is prepended to the padded count of each outbound message.
	OutboundPrefix string

	// SendHeightPercent puts the height percentage in the second argument
	// slot. By default both slots carry the width percentage, which is what
	// existing Isadora patches expect.
	SendHeightPercent bool

	// SkipDegenerate drops counts whose boxes quantize to zero size instead
	// of sending them like any other count.
	SkipDegenerate bool
}

// DefaultOptions returns the addresses used by ZoomOSC and the Isadora patch.
func DefaultOptions() Options {
	return Options{
		InboundAddress: DefaultInboundAddress,
		OutboundPrefix: DefaultOutboundPrefix,
	}
}

// Relay answers control messages with Panner value fan-outs.
// Batches are serialized: the messages of one batch are never interleaved
// with another's.
type Relay struct {
	transport Transport
	runner    *pipeline.Runner
	opts      Options
	logger    *log.Logger

	mu sync.Mutex
}

// New creates a relay sending through t and computing with runner.
// Empty option fields fall back to [DefaultOptions].
func New(t Transport, runner *pipeline.Runner, logger *log.Logger, opts Options) *Relay {
	def := DefaultOptions()
	if opts.InboundAddress == "" {
		opts.InboundAddress = def.InboundAddress
	}
	if opts.OutboundPrefix == "" {
		opts.OutboundPrefix = def.OutboundPrefix
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, nil, logger)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Relay{
		transport: t,
		runner:    runner,
		opts:      opts,
		logger:    logger,
	}
}

// Options returns the relay configuration.
func (r *Relay) Options() Options { return r.opts }

// Run registers the control message handler and listens until ctx is
// cancelled.
func (r *Relay) Run(ctx context.Context) error {
	r.transport.OnMessage(r.opts.InboundAddress, func(ctx context.Context, msg Message) {
		_, _ = r.Handle(ctx, msg)
	})
	r.logger.Info("waiting for control messages", "address", r.opts.InboundAddress)
	return r.transport.Listen(ctx)
}

// Handle parses a control message and runs the fan-out it asks for.
func (r *Relay) Handle(ctx context.Context, msg Message) (Report, error) {
	observability.Relay().OnRequest(ctx, msg.Address, len(msg.Args))

	req, err := ParseRequest(msg)
	if err == nil {
		err = r.runner.Validate(req.Width, req.Height, req.MaxCount)
	}
	if err != nil {
		observability.Relay().OnRejected(ctx, msg.Address, err)
		r.logger.Warn("rejected control message", "address", msg.Address, "args", msg.Args, "error", err)
		return Report{}, err
	}

	r.logger.Info("control message", "width", req.Width, "height", req.Height, "max", req.MaxCount)
	return r.EmitAll(ctx, req.Width, req.Height, req.MaxCount)
}

// EmitAll sends Panner values for every count from 1 to maxCount.
// Failures are collected in the report; only cancellation returns an error.
func (r *Relay) EmitAll(ctx context.Context, width, height float64, maxCount int) (Report, error) {
	if err := r.runner.Validate(width, height, maxCount); err != nil {
		return Report{}, err
	}
	return r.emit(ctx, width, height, 1, maxCount)
}

// EmitOne sends Panner values for a single count.
func (r *Relay) EmitOne(ctx context.Context, width, height float64, count int) (Report, error) {
	if err := r.runner.Validate(width, height, count); err != nil {
		return Report{}, err
	}
	if err := cerrors.ValidateCount(count, 1); err != nil {
		return Report{}, err
	}
	return r.emit(ctx, width, height, count, count)
}

func (r *Relay) emit(ctx context.Context, width, height float64, first, last int) (Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	report := Report{BatchID: uuid.NewString(), Sent: []int{}}
	logger := r.logger.With("batch", report.BatchID[:8])

	observability.Relay().OnBatchStart(ctx, report.BatchID, last)
	logger.Debug("batch started", "first", first, "last", last, "screen", formatScreen(width, height))

	for step := range r.runner.Stream(ctx, width, height, first, last) {
		degenerate := cerrors.Is(step.Err, cerrors.ErrCodeDegenerateLayout) && step.Params.Count() == step.Count
		if degenerate && !r.opts.SkipDegenerate {
			logger.Warn("sending degenerate layout", "count", step.Count)
		} else if step.Err != nil {
			f := newFailure(step.Count, step.Err)
			if cerrors.IsUnusable(step.Err) {
				report.Skipped = append(report.Skipped, f)
				logger.Warn("skipped count", "count", step.Count, "reason", f.Code)
			} else {
				report.Failed = append(report.Failed, f)
				logger.Error("compute failed", "count", step.Count, "error", step.Err)
			}
			continue
		}

		msg := Message{
			Address: Address(r.opts.OutboundPrefix, step.Count),
			Args:    Args(step.Params, r.opts.SendHeightPercent),
		}
		sendStart := time.Now()
		err := r.transport.Send(ctx, msg)
		observability.Relay().OnSend(ctx, msg.Address, len(msg.Args), time.Since(sendStart), err)
		if err != nil {
			report.Failed = append(report.Failed, newFailure(step.Count, err))
			logger.Error("send failed", "address", msg.Address, "error", err)
			continue
		}
		report.Sent = append(report.Sent, step.Count)
		if degenerate {
			report.Degenerate = append(report.Degenerate, step.Count)
		}
		logger.Debug("sent", "address", msg.Address, "args", len(msg.Args), "cached", step.Hit)
	}

	report.Duration = time.Since(start)
	observability.Relay().OnBatchComplete(ctx, report.BatchID, len(report.Sent), len(report.Failed), report.Duration)

	if err := ctx.Err(); err != nil {
		logger.Warn("batch cancelled", "sent", len(report.Sent))
		return report, err
	}
	logger.Info("batch complete",
		"sent", len(report.Sent),
		"skipped", len(report.Skipped),
		"degenerate", len(report.Degenerate),
		"failed", len(report.Failed),
		"duration", report.Duration)
	return report, nil
}
