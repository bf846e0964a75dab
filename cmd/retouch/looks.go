package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newLooksCmd(a *app) *cobra.Command {
	var in, dir string
	cmd := &cobra.Command{
		Use:   "looks",
		Short: "Render a thumbnail of every style look",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, done, err := a.beginEditing(cmd.Context(), in)
			if err != nil {
				return err
			}
			defer done()

			thumbs, err := s.Thumbnails(cmd.Context(), a.cfg.Looks.Thumbnail)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			for _, th := range thumbs {
				path := filepath.Join(dir, string(th.Kind)+".png")
				if err := saveImage(th.Image, path); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "source image")
	cmd.Flags().StringVarP(&dir, "dir", "d", "looks", "output directory")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}
