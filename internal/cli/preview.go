package cli

import (
	"context"
	"image"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cropsy/pkg/crop"
	cerrors "github.com/matzehuels/cropsy/pkg/errors"
	"github.com/matzehuels/cropsy/pkg/pipeline"
	"github.com/matzehuels/cropsy/pkg/preview"
)

// previewOptions holds flags for the preview command.
type previewOptions struct {
	calcOptions
	source   string
	output   string
	tiles    bool
	quality  int
	lossless bool
	noLabels bool
}

// previewCommand creates the preview command which draws the computed boxes.
func (c *CLI) previewCommand() *cobra.Command {
	opts := previewOptions{}

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Draw the computed gallery boxes to an image",
		Long: `Render the computed boxes over a blank screen or a gallery screenshot, to check
the geometry against what Zoom actually shows. With --tiles, every box is also
cut out of the screenshot into its own file.

The output format follows the file extension: .png, .jpg or .webp.`,
		Example: `  cropsy preview --count 6 -o gallery.png
  cropsy preview --source screenshot.png --count 9 --tiles -o boxes.webp`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.tiles && opts.source == "" {
				return cerrors.New(cerrors.ErrCodeInvalidInput, "--tiles needs a --source screenshot")
			}
			sizeSet := cmd.Flags().Changed("width") || cmd.Flags().Changed("height")
			return c.runPreview(cmd.Context(), opts, sizeSet)
		},
	}

	addScreenFlags(cmd, &opts.calcOptions)
	cmd.Flags().IntVarP(&opts.count, "count", "n", pipeline.DefaultCount, "number of boxes")
	cmd.Flags().StringVarP(&opts.source, "source", "s", "", "gallery screenshot to draw over")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "gallery.png", "output file")
	cmd.Flags().BoolVar(&opts.tiles, "tiles", false, "also write one image per box")
	cmd.Flags().IntVar(&opts.quality, "quality", preview.DefaultQuality, "JPEG and WebP quality")
	cmd.Flags().BoolVar(&opts.lossless, "lossless", false, "lossless WebP")
	cmd.Flags().BoolVar(&opts.noLabels, "no-labels", false, "do not number the boxes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, opts previewOptions, sizeSet bool) error {
	if _, err := preview.FormatFromPath(opts.output); err != nil {
		return err
	}

	style := preview.DefaultStyle()
	style.Labels = !opts.noLabels

	var base image.Image
	if opts.source != "" {
		src, err := preview.Load(opts.source)
		if err != nil {
			return err
		}
		if !sizeSet {
			b := src.Bounds()
			opts.width, opts.height = float64(b.Dx()), float64(b.Dy())
		}
		base = preview.FitScreen(src, int(opts.width), int(opts.height))
	}

	req := pipeline.Options{Width: opts.width, Height: opts.height, Count: opts.count, MaxCount: c.config().OSC.MaxCount}
	if err := req.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if base == nil {
		base = preview.Canvas(int(req.Width), int(req.Height), style)
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	res, err := runner.Layout(ctx, req.Width, req.Height, req.Count)
	if err != nil {
		return err
	}
	rects := crop.ToRects(req.Width, req.Height, res.Crops)

	enc := preview.EncodeOptions{Quality: opts.quality, Lossless: opts.lossless}
	if err := preview.Save(preview.Render(base, rects, style), opts.output, enc); err != nil {
		return err
	}
	printSuccess("Rendered %d boxes on %vx%v", len(rects), req.Width, req.Height)
	printFile(opts.output)

	if opts.tiles {
		for i, tile := range preview.Tiles(base, rects) {
			path := preview.TilePath(opts.output, i)
			if err := preview.Save(tile, path, enc); err != nil {
				return err
			}
			printFile(path)
		}
	}
	prog.done("preview written", "boxes", len(rects))
	return nil
}
