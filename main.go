package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"tandem/app"
	"tandem/core/geom"
	"tandem/core/peers"
	"tandem/hal"
	"tandem/internal/config"
)

func main() {
	var (
		hcfg       hal.HeadlessConfig
		configPath string
		session    string
		dir        string
		meta       string
		clearSess  bool
		win        geom.Rect
		scale      float64
	)
	flag.BoolVar(&hcfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&hcfg.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&hcfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.StringVar(&session, "session", config.DefaultSession, "Session name shared by all windows.")
	flag.StringVar(&dir, "dir", "", "Directory holding session files (default: user cache dir).")
	flag.StringVar(&configPath, "config", "", "Optional YAML scene file.")
	flag.StringVar(&meta, "meta", "", `Window metadata as key=value pairs, e.g. 'role=left "label=big one"'.`)
	flag.BoolVar(&clearSess, "clear", false, "Delete the session file and exit.")
	flag.IntVar(&win.X, "x", 0, "Window X in headless mode.")
	flag.IntVar(&win.Y, "y", 0, "Window Y in headless mode.")
	flag.IntVar(&win.W, "w", 640, "Window width.")
	flag.IntVar(&win.H, "h", 480, "Window height.")
	flag.Float64Var(&scale, "scale", 1, "Device scale in headless mode.")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fatal(err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "session":
			cfg.Session.Name = session
		case "dir":
			cfg.Session.Dir = dir
		case "x":
			cfg.Window.X = win.X
		case "y":
			cfg.Window.Y = win.Y
		case "w":
			cfg.Window.W = win.W
		case "h":
			cfg.Window.H = win.H
		case "scale":
			cfg.Scale = scale
		}
	})
	if meta != "" {
		m, err := config.ParseMeta(meta)
		if err != nil {
			fatal(err)
		}
		cfg.Meta = config.MergeMeta(cfg.Meta, m)
	}
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}

	if clearSess {
		st, err := peers.OpenStore(cfg.Session.Dir, cfg.Session.Name)
		if err != nil {
			fatal(err)
		}
		if err := st.Clear(); err != nil {
			fatal(err)
		}
		fmt.Println("cleared", st.Path())
		return
	}

	acfg := app.Config{Session: cfg.SessionConfig(), Scene: cfg.SceneConfig()}
	newApp := func(h hal.HAL) (hal.App, error) {
		sys, err := app.New(h, acfg)
		if err != nil {
			return nil, err
		}
		return sys, nil
	}

	if hcfg.Enabled {
		hcfg.Placement = cfg.Window
		hcfg.Scale = cfg.Scale
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, newApp, hcfg); err != nil && !errors.Is(err, context.Canceled) {
			fatal(err)
		}
		return
	}

	if err := hal.RunWindow(newApp, hal.WindowConfig{Title: "Tandem", W: cfg.Window.W, H: cfg.Window.H}); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
