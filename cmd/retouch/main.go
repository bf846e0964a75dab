// Command retouch applies filter recipes, crops and style looks to images
// from the command line.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/retouch"
	"github.com/gogpu/retouch/config"
	"github.com/gogpu/retouch/internal/gpu"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "retouch:", err)
		os.Exit(1)
	}
}

// app carries state shared by every subcommand.
type app struct {
	configPath string
	cfg        *config.Config
	log        *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "retouch",
		Short:         "Non-destructive photo adjustments, looks and crops",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
			retouch.SetLogger(a.log)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file (RETOUCH_* env overrides)")

	root.AddCommand(
		newApplyCmd(a),
		newCropCmd(a),
		newLooksCmd(a),
		newCatalogueCmd(a),
		newPreviewCmd(a),
	)
	return root
}

// sessionOptions maps configuration to editing session options. release
// must be called after the session is closed.
func (a *app) sessionOptions() (opts []retouch.Option, release func()) {
	opts = []retouch.Option{
		retouch.WithLogger(a.log),
		retouch.WithThumbnailWorkers(a.cfg.Looks.Workers),
		retouch.WithLookCacheSize(a.cfg.Looks.CacheSize),
		retouch.WithSliderDeadzone(a.cfg.Slider.DeadzonePercent),
	}
	release = func() {}
	if !a.cfg.Accelerate {
		return opts, release
	}
	dev, err := gpu.OpenDevice()
	if err != nil {
		a.log.Warn("retouch: no GPU device, using CPU", "err", err)
		return opts, release
	}
	return append(opts, retouch.WithAccelerator(dev)), dev.Close
}

// beginEditing loads path and starts a session configured from a.
func (a *app) beginEditing(ctx context.Context, path string) (*retouch.EditingSession, func(), error) {
	opts, release := a.sessionOptions()
	s, err := retouch.BeginEditingFrom(ctx, fileProvider(path), opts...)
	if err != nil {
		release()
		return nil, nil, err
	}
	return s, func() {
		s.Close()
		release()
	}, nil
}
