package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/retouch"
	"github.com/gogpu/retouch/filter"
)

func newApplyCmd(a *app) *cobra.Command {
	var (
		in, out      string
		recipe, save string
		filters      []string
	)
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply a recipe and filter values to an image",
		Example: `  retouch apply -i photo.jpg -o out.png --filter exposure=0.2 --filter chrome=0.6
  retouch apply -i photo.jpg -o out.png --filter contrast@0.75
  retouch apply -i photo.jpg -o out.png --recipe look.yaml --save-recipe edited.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, done, err := a.beginEditing(cmd.Context(), in)
			if err != nil {
				return err
			}
			defer done()

			if recipe != "" {
				f, err := os.Open(recipe)
				if err != nil {
					return err
				}
				err = s.LoadRecipe(f)
				f.Close()
				if err != nil {
					return fmt.Errorf("recipe %s: %w", recipe, err)
				}
			}
			for _, arg := range filters {
				if err := applyFilter(s, arg); err != nil {
					return err
				}
			}
			return s.Finish(cmd.Context(), fileSink{image: out, recipe: save})
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "source image")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output image; format from extension")
	cmd.Flags().StringVar(&recipe, "recipe", "", "YAML recipe to start from")
	cmd.Flags().StringVar(&save, "save-recipe", "", "write the final recipe here")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "kind=value or kind@position (0..1 along the slider), confirmed in the order given")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

// applyFilter parses kind=value or kind@position and confirms it on s.
// Values outside the filter's range are clamped. A position is a fraction
// of the slider track; it is dragged to and released, so positions inside
// the deadzone snap to the default.
func applyFilter(s *retouch.EditingSession, arg string) error {
	i := strings.IndexAny(arg, "=@")
	if i < 0 {
		return fmt.Errorf("filter %q: want kind=value or kind@position", arg)
	}
	name, raw, byPosition := arg[:i], arg[i+1:], arg[i] == '@'
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("filter %q: %w", arg, err)
	}
	kind := filter.Kind(strings.ToLower(strings.TrimSpace(name)))
	spec, err := s.Catalogue().Lookup(kind)
	if err != nil {
		return err
	}
	if spec.IsAdjustment() {
		err = s.SelectAdjustmentFilter(kind)
	} else {
		err = s.SelectStyleFilter(kind)
	}
	if err != nil {
		return err
	}

	if byPosition {
		sl, err := s.Slider()
		if err != nil {
			return err
		}
		sl.Drag(v, 1)
		sl.Release()
	} else if _, err := s.UpdateActiveFilterValue(v); err != nil {
		return err
	}
	return s.ConfirmActiveFilter()
}
