package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/gogpu/gg"

	"github.com/gogpu/retouch"
	"github.com/gogpu/retouch/filter"
	"github.com/gogpu/retouch/internal/pixmap"
)

// fileProvider loads an image file, honoring EXIF orientation.
type fileProvider string

func (p fileProvider) Image(context.Context) (*gg.Pixmap, error) {
	img, err := imaging.Open(string(p), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	return pixmap.FromImage(img), nil
}

func loadImage(path string) (*gg.Pixmap, error) {
	return fileProvider(path).Image(context.Background())
}

func saveImage(pm *gg.Pixmap, path string) error {
	if pm == nil {
		return errors.New("no image to save")
	}
	if err := imaging.Save(pixmap.View(pm), path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// fileSink writes the delivered image and, for editing sessions, the
// recipe next to it.
type fileSink struct {
	image  string
	recipe string
}

func (s fileSink) Deliver(_ context.Context, out retouch.Output) error {
	if err := saveImage(out.Image, s.image); err != nil {
		return err
	}
	if s.recipe == "" || out.Recipe == nil {
		return nil
	}
	f, err := os.Create(filepath.Clean(s.recipe))
	if err != nil {
		return err
	}
	if err := filter.WriteRecipe(f, out.Recipe); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
