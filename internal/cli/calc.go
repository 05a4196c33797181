package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cropsy/pkg/crop"
	cerrors "github.com/matzehuels/cropsy/pkg/errors"
	"github.com/matzehuels/cropsy/pkg/panner"
	"github.com/matzehuels/cropsy/pkg/pipeline"
)

// calcOptions holds the flags shared by calc and send.
type calcOptions struct {
	width   float64
	height  float64
	count   int
	max     int
	json    bool
	noCache bool
}

// calcCommand creates the calc command which prints crop and Panner values.
func (c *CLI) calcCommand() *cobra.Command {
	opts := calcOptions{}

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Print crop and Panner values for a gallery",
		Long: `Solve the gallery layout for a screen and print the crop and Panner values of
every box. With --max, print a summary of every gallery size from 1 to max.`,
		Example: `  cropsy calc --count 4
  cropsy calc --width 1440 --height 900 --count 6 --json
  cropsy calc --max 25`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("max") {
				return c.runCalcRange(cmd, opts)
			}
			return c.runCalc(cmd, opts)
		},
	}

	addScreenFlags(cmd, &opts)
	cmd.Flags().IntVarP(&opts.count, "count", "n", pipeline.DefaultCount, "number of boxes")
	cmd.Flags().IntVar(&opts.max, "max", 0, "print every gallery size from 1 to max")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print JSON")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.MarkFlagsMutuallyExclusive("count", "max")

	return cmd
}

func addScreenFlags(cmd *cobra.Command, opts *calcOptions) {
	cmd.Flags().Float64VarP(&opts.width, "width", "W", pipeline.DefaultWidth, "screen width in pixels")
	cmd.Flags().Float64VarP(&opts.height, "height", "H", pipeline.DefaultHeight, "screen height in pixels")
}

// calcResult is the JSON shape printed by calc.
type calcResult struct {
	Width  float64       `json:"width"`
	Height float64       `json:"height"`
	Count  int           `json:"count"`
	Layout crop.Result   `json:"layout"`
	Panner panner.Params `json:"panner"`
}

func (c *CLI) runCalc(cmd *cobra.Command, opts calcOptions) error {
	ctx := cmd.Context()
	req := pipeline.Options{Width: opts.width, Height: opts.height, Count: opts.count, MaxCount: c.config().OSC.MaxCount}
	if err := req.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Layout(ctx, req.Width, req.Height, req.Count)
	if err != nil {
		return err
	}
	params, cached, err := runner.PannerWithCacheInfo(ctx, req.Width, req.Height, req.Count)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.json {
		return writeJSON(out, calcResult{
			Width: req.Width, Height: req.Height, Count: req.Count,
			Layout: res, Panner: params,
		})
	}

	printKeyValue("Screen", fmt.Sprintf("%vx%v", req.Width, req.Height))
	printKeyValue("Grid", fmt.Sprintf("%d x %d", res.Layout.Cols, res.Layout.Rows))
	printKeyValue("Box", fmt.Sprintf("%vx%v px", params.BoxWidth, params.BoxHeight))
	printKeyValue("Panner", fmt.Sprintf("%v%% x %v%%", params.WidthPercent, params.HeightPercent))
	printCacheStatus(cached)
	printNewline()
	fmt.Fprintln(out, renderBoxTable(res, params))
	return nil
}

func (c *CLI) runCalcRange(cmd *cobra.Command, opts calcOptions) error {
	ctx := cmd.Context()
	if err := pipeline.ValidateRequestWithLimit(opts.width, opts.height, opts.max, c.config().OSC.MaxCount); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	steps, err := runner.Range(ctx, opts.width, opts.height, opts.max)
	if err != nil {
		return err
	}
	prog.done("computed gallery sizes", "max", opts.max)

	out := cmd.OutOrStdout()
	if opts.json {
		return writeJSON(out, rangeJSON(steps))
	}
	fmt.Fprintln(out, renderRangeTable(steps))
	return nil
}

// =============================================================================
// Rendering
// =============================================================================

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...)
}

// renderBoxTable lists the crop and pan of every box in row-major order.
func renderBoxTable(res crop.Result, p panner.Params) string {
	rows := make([][]string, 0, len(res.Crops))
	for i, v := range res.Crops {
		h, vv := p.Pan(i)
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			formatFloat(v.Left), formatFloat(v.Right),
			formatFloat(v.Top), formatFloat(v.Bottom),
			formatFloat(h), formatFloat(vv),
		})
	}

	return newTable("#", "Left", "Right", "Top", "Bottom", "Pan H", "Pan V").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			if col >= 5 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// renderRangeTable summarizes one row per gallery size.
func renderRangeTable(steps []pipeline.Step) string {
	rows := make([][]string, 0, len(steps))
	for _, s := range steps {
		if s.Err != nil {
			rows = append(rows, []string{strconv.Itoa(s.Count), "-", "-", "-", string(cerrors.GetCode(s.Err))})
			continue
		}
		rows = append(rows, []string{
			strconv.Itoa(s.Count),
			fmt.Sprintf("%vx%v", s.Params.BoxWidth, s.Params.BoxHeight),
			formatFloat(s.Params.WidthPercent),
			formatFloat(s.Params.HeightPercent),
			cacheLabel(s.Hit),
		})
	}

	return newTable("Count", "Box", "Width %", "Height %", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			if row < len(steps) && steps[row].Err != nil {
				return lipgloss.NewStyle().Foreground(colorYellow)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// rangeEntry is the JSON shape of one gallery size printed by calc --max.
type rangeEntry struct {
	Count  int            `json:"count"`
	Panner *panner.Params `json:"panner,omitempty"`
	Code   string         `json:"code,omitempty"`
	Error  string         `json:"error,omitempty"`
}

func rangeJSON(steps []pipeline.Step) []rangeEntry {
	entries := make([]rangeEntry, 0, len(steps))
	for _, s := range steps {
		e := rangeEntry{Count: s.Count}
		if s.Err != nil {
			e.Code = string(cerrors.GetCode(s.Err))
			e.Error = cerrors.UserMessage(s.Err)
		} else {
			p := s.Params
			e.Panner = &p
		}
		entries = append(entries, e)
	}
	return entries
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
