package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/retouch"
	"github.com/gogpu/retouch/crop"
)

func newCropCmd(a *app) *cobra.Command {
	var (
		in, out string
		zoom    float64
		panX    float64
		panY    float64
		expand  bool
	)
	cmd := &cobra.Command{
		Use:   "crop",
		Short: "Crop an image through a zoomed and panned window",
		Long: `Places the image behind a crop window sized by crop.width and crop.height,
then replays a pinch and a pan the way a touch screen would. The image is
filled into the window unless --expand shows it whole.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := loadImage(in)
			if err != nil {
				return err
			}
			c, err := retouch.BeginCrop(src, crop.Size{W: a.cfg.Crop.Width, H: a.cfg.Crop.Height},
				crop.WithMaxZoom(a.cfg.Crop.MaxZoom),
				crop.WithAnimationDuration(time.Duration(a.cfg.Crop.AnimateMS)*time.Millisecond))
			if err != nil {
				return err
			}
			if expand {
				c.ToggleCropAspect()
			}
			for _, ev := range replay(zoom, crop.Point{X: panX, Y: panY}) {
				c.UpdateCropGesture(ev)
			}
			a.log.Info("retouch: crop", "rect", c.CropRect().String(), "edges", c.Geometry().Edges().String())
			return c.Finish(cmd.Context(), fileSink{image: out})
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "source image")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output image")
	cmd.Flags().Float64Var(&zoom, "zoom", 1, "pinch scale around the window center")
	cmd.Flags().Float64Var(&panX, "pan-x", 0, "horizontal pan in window points")
	cmd.Flags().Float64Var(&panY, "pan-y", 0, "vertical pan in window points")
	cmd.Flags().BoolVar(&expand, "expand", false, "fit the whole image in the window")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

// replay returns a pinch followed by a pan as gesture events.
func replay(zoom float64, pan crop.Point) []crop.GestureEvent {
	var evs []crop.GestureEvent
	if zoom != 1 {
		evs = append(evs,
			crop.PinchEvent{Phase: crop.Began, Scale: 1},
			crop.PinchEvent{Phase: crop.Changed, Scale: zoom},
			crop.PinchEvent{Phase: crop.Ended, Scale: zoom},
		)
	}
	if pan != (crop.Point{}) {
		evs = append(evs,
			crop.PanEvent{Phase: crop.Began},
			crop.PanEvent{Phase: crop.Changed, Translation: pan},
			crop.PanEvent{Phase: crop.Ended, Translation: pan},
		)
	}
	return evs
}

