// Command viewer shows a scene's grid, obstacles and planned path in a
// window. Left click sets the target and right click the follower.
// Keys: E expand obstacles, Space step, P walk, C copy waypoints, R reload,
// G toggle shape outlines.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/gridpath/config"
	"go.uber.org/zap"
	"golang.design/x/clipboard"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "TOML run configuration")
	sceneName := flag.String("scene", "", "scene file on disk or embedded scene name")
	watch := flag.Bool("watch", false, "reload when the scene or its script changes")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *sceneName != "" {
		cfg.Planner.Scene = *sceneName
	}
	if *watch {
		cfg.Planner.Watch = true
	}

	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	clipboardOK := true
	if err := clipboard.Init(); err != nil {
		log.Warn("clipboard unavailable", zap.Error(err))
		clipboardOK = false
	}

	v, err := NewViewer(cfg, cfg.Planner.Scene, clipboardOK, log)
	if err != nil {
		return err
	}
	defer v.Close()

	w, h := v.Layout(0, 0)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("gridpath: " + cfg.Planner.Scene)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	return ebiten.RunGame(v)
}
