// Command gridpath plans a path through a scene and simulates a follower
// walking it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/milk9111/gridpath/agent"
	"github.com/milk9111/gridpath/common"
	"github.com/milk9111/gridpath/config"
	"github.com/milk9111/gridpath/scene"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	from, to *common.Vector3
	showMap  bool
}

func run() error {
	configPath := flag.String("config", "", "TOML run configuration")
	sceneName := flag.String("scene", "", "scene file on disk or embedded scene name")
	watch := flag.Bool("watch", false, "replan when the scene or its script changes")
	from := flag.String("from", "", "follower position as x,y,z (defaults to the scene's)")
	to := flag.String("to", "", "target position as x,y,z (defaults to the scene's)")
	showMap := flag.Bool("map", false, "print the grid with the planned path")
	list := flag.Bool("list", false, "list the embedded scenes and exit")
	flag.Parse()

	if *list {
		for _, name := range scene.Names() {
			fmt.Println(name)
		}
		return nil
	}

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

	opts := options{showMap: *showMap}
	if opts.from, err = parseOptionalVec3(*from); err != nil {
		return fmt.Errorf("-from: %w", err)
	}
	if opts.to, err = parseOptionalVec3(*to); err != nil {
		return fmt.Errorf("-to: %w", err)
	}

	sc, err := plan(cfg, opts, log)
	if err != nil {
		return err
	}
	if !cfg.Planner.Watch {
		return nil
	}

	files := sc.WatchFiles()
	if len(files) == 0 {
		log.Warn("embedded scenes cannot be watched", zap.String("scene", cfg.Planner.Scene))
		return nil
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchLoop(ctx, cfg, opts, files, log)
}

// plan loads the scene, plans once and walks the follower along the path.
func plan(cfg *config.Config, opts options, log *zap.Logger) (*scene.Scene, error) {
	sc, err := scene.Open(cfg.Planner.Scene, log)
	if err != nil {
		return nil, err
	}
	start, target := sc.Spec.Follower, sc.Spec.Target
	if opts.from != nil {
		start = *opts.from
	}
	if opts.to != nil {
		target = *opts.to
	}

	a, err := sc.NewAgent(agent.StaticPosition(start), agent.StaticPosition(target), log)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", cfg.Planner.Scene, err)
	}
	st := a.Finder().Stats()
	log.Info("planned",
		zap.String("scene", cfg.Planner.Scene),
		zap.Stringer("from", start),
		zap.Stringer("to", target),
		zap.Bool("found", st.Found),
		zap.Int("length", st.Length),
		zap.Int("expanded", st.Expanded),
		zap.Int("obstacles", len(a.ObstacleCells())),
	)
	if opts.showMap {
		fmt.Print(render(a))
	}
	if !a.HasPath() {
		return sc, nil
	}

	end, steps := walk(a, start, cfg.Planner.Step, cfg.Planner.MaxSteps, log)
	log.Info("walk finished",
		zap.Stringer("at", end),
		zap.Int("steps", steps),
		zap.Bool("arrived", steps < cfg.Planner.MaxSteps),
	)
	return sc, nil
}

// walk advances from start toward the end of the agent's path, step units at
// a time, logging each new waypoint it heads for. It returns the final
// position and the number of steps taken.
func walk(a *agent.Agent, start common.Vector3, step float64, maxSteps int, log *zap.Logger) (common.Vector3, int) {
	pos := start
	heading := pos
	n := 0
	for i := 0; i < maxSteps; i++ {
		waypoint := a.NextWaypoint(pos)
		if waypoint == pos {
			return pos, i
		}
		if waypoint != heading {
			heading = waypoint
			n++
			log.Info("waypoint",
				zap.Int("n", n),
				zap.Stringer("at", waypoint),
				zap.Int("step", i),
			)
		}
		pos = a.Advance(pos, step)
	}
	return pos, maxSteps
}

func watchLoop(ctx context.Context, cfg *config.Config, opts options, files []string, log *zap.Logger) error {
	w, err := scene.NewWatcher(cfg.Planner.Debounce, files...)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()
	log.Info("watching", zap.Strings("files", files))

	for {
		select {
		case <-ctx.Done():
			return nil
		case name, ok := <-w.Events:
			if !ok {
				return nil
			}
			log.Info("scene changed", zap.String("file", name))
			if _, err := plan(cfg, opts, log); err != nil {
				log.Warn("reload failed", zap.Error(err))
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		}
	}
}

var errVecFormat = errors.New("want x,y,z")

func parseOptionalVec3(s string) (*common.Vector3, error) {
	if s == "" {
		return nil, nil
	}
	v, err := parseVec3(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// parseVec3 reads "x,y,z". Two components are read as x,z on the ground.
func parseVec3(s string) (common.Vector3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 && len(parts) != 3 {
		return common.Vector3{}, fmt.Errorf("%q: %w", s, errVecFormat)
	}
	vals := make([]float64, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return common.Vector3{}, fmt.Errorf("%q: %w", s, err)
		}
		vals[i] = f
	}
	if len(vals) == 2 {
		return common.Vec3(vals[0], 0, vals[1]), nil
	}
	return common.Vec3(vals[0], vals[1], vals[2]), nil
}
