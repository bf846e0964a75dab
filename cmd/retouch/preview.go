package main

import (
	"fmt"

	"github.com/gogpu/gg"
	"github.com/spf13/cobra"

	"github.com/gogpu/retouch/render"
)

func newPreviewCmd(a *app) *cobra.Command {
	var (
		in, out       string
		width, height int
		filters       []string
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render the edited image as a display of the given size would show it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, done, err := a.beginEditing(cmd.Context(), in)
			if err != nil {
				return err
			}
			defer done()
			for _, arg := range filters {
				if err := applyFilter(s, arg); err != nil {
					return err
				}
			}

			mode := render.AspectFit
			if a.cfg.Render.Fit == "fill" {
				mode = render.AspectFill
			}
			surface := render.NewPixmapSurface(width, height)
			p := render.NewPipeline(s, surface, render.InlineQueue{},
				render.WithFitMode(mode),
				render.WithBackground(gg.Hex(a.cfg.Render.Background)))
			if r := p.Tick(); r.Skipped() {
				return fmt.Errorf("preview skipped: %v (%v)", r, p.Stats().LastError)
			}
			return saveImage(surface.Frame(), out)
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "source image")
	cmd.Flags().StringVarP(&out, "out", "o", "preview.png", "output image")
	cmd.Flags().IntVar(&width, "width", 800, "display width")
	cmd.Flags().IntVar(&height, "height", 600, "display height")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "kind=value, confirmed in the order given")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}
