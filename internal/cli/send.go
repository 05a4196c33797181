package cli

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	cerrors "github.com/matzehuels/cropsy/pkg/errors"
	"github.com/matzehuels/cropsy/pkg/observability"
	"github.com/matzehuels/cropsy/pkg/pipeline"
	"github.com/matzehuels/cropsy/pkg/relay"
	"github.com/matzehuels/cropsy/pkg/transport/osc"
)

// sendCommand creates the send command which pushes Panner values once
// without waiting for a control message.
func (c *CLI) sendCommand() *cobra.Command {
	var (
		opts calcOptions
		host string
		port int
		skip bool
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send Panner values to Isadora once",
		Long: `Send the same messages the relay would send for a control message, without
listening for one. Use --max for a full fan-out or --count for a single size.`,
		Example: `  cropsy send --max 9
  cropsy send --count 4 --izzy-host 10.0.0.5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config()
			if cmd.Flags().Changed("izzy-host") {
				cfg.Izzy.Host = host
			}
			if cmd.Flags().Changed("izzy-port") {
				cfg.Izzy.Port = port
			}
			if cmd.Flags().Changed("skip-degenerate") {
				cfg.OSC.SkipDegenerate = skip
			}
			if err := cerrors.ValidateHost(cfg.Izzy.Host); err != nil {
				return err
			}
			if err := cerrors.ValidatePort(cfg.Izzy.Port); err != nil {
				return err
			}
			single := cmd.Flags().Changed("count")
			return c.runSend(cmd.Context(), cmd.OutOrStdout(), opts, single)
		},
	}

	addScreenFlags(cmd, &opts)
	cmd.Flags().IntVarP(&opts.count, "count", "n", 0, "send a single gallery size")
	cmd.Flags().IntVar(&opts.max, "max", pipeline.DefaultCount, "send every gallery size from 1 to max")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the batch report as JSON")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&host, "izzy-host", "", "override the Isadora host")
	cmd.Flags().IntVar(&port, "izzy-port", 0, "override the Isadora port")
	cmd.Flags().BoolVar(&skip, "skip-degenerate", false, "do not send gallery sizes whose boxes have no usable size")
	cmd.MarkFlagsMutuallyExclusive("count", "max")

	return cmd
}

func (c *CLI) runSend(ctx context.Context, out io.Writer, opts calcOptions, single bool) error {
	cfg := c.config()

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	rel := relay.New(osc.New(cfg.OSCTransport(), c.Logger), runner, c.Logger, cfg.RelayOptions())

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Sending to %s", cfg.OSCTransport().SendAddr()))
	progress := &sendProgress{spinner: spinner, single: single}
	observability.SetRelayHooks(progress)
	defer observability.Reset()

	spinner.Start()
	var report relay.Report
	if single {
		report, err = rel.EmitOne(ctx, opts.width, opts.height, opts.count)
	} else {
		report, err = rel.EmitAll(ctx, opts.width, opts.height, opts.max)
	}
	spinner.Stop()
	if err != nil {
		return err
	}

	if opts.json {
		if err := writeJSON(out, report); err != nil {
			return err
		}
	} else {
		printReport(report)
	}
	if !report.OK() {
		return cerrors.New(cerrors.ErrCodeTransport, "%d of %d messages failed",
			len(report.Failed), len(report.Failed)+len(report.Sent))
	}
	return nil
}

// printReport prints the outcome of one batch.
func printReport(r relay.Report) {
	printSuccess("Sent %d messages in %s", len(r.Sent), r.Duration.Round(time.Millisecond))
	printDetail("Batch: %s", r.BatchID)
	if len(r.Degenerate) > 0 {
		printWarning("Sent degenerate layouts for %v boxes", r.Degenerate)
	}
	for _, f := range r.Skipped {
		printWarning("Skipped %d boxes: %s", f.Count, f.Error)
	}
	for _, f := range r.Failed {
		printError("Failed %d boxes: %s", f.Count, f.Error)
	}
}

// sendProgress reports fan-out progress on a spinner.
type sendProgress struct {
	observability.NoopRelayHooks

	spinner *Spinner
	single  bool
	total   atomic.Int64
	sent    atomic.Int64
}

func (p *sendProgress) OnBatchStart(_ context.Context, _ string, maxCount int) {
	if p.single {
		maxCount = 1
	}
	p.total.Store(int64(maxCount))
	p.sent.Store(0)
}

func (p *sendProgress) OnSend(_ context.Context, address string, _ int, _ time.Duration, _ error) {
	n := p.sent.Add(1)
	p.spinner.SetMessage("Sending %s (%d/%d)", address, n, p.total.Load())
}
