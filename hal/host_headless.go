package hal

import (
	"context"
	"fmt"
	"time"

	"tandem/core/geom"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled   bool
	Hz        int
	Ticks     uint64
	Placement geom.Rect
	Scale     float64
}

// RunHeadless runs the app without opening a window, stepping it Hz times per
// second until ctx is done or Ticks steps have run. The app is closed on
// return.
func RunHeadless(ctx context.Context, newApp func(HAL) (App, error), cfg HeadlessConfig) (err error) {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	if cfg.Placement.Empty() {
		cfg.Placement.W, cfg.Placement.H = 640, 480
	}

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	h := newHost(cfg.Placement, cfg.Scale)
	app, err := newApp(h)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); err == nil {
			err = cerr
		}
	}()

	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if err := app.Step(); err != nil {
				return err
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return nil
			}
		}
	}
}
