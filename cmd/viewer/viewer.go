package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/gridpath/agent"
	"github.com/milk9111/gridpath/common"
	"github.com/milk9111/gridpath/config"
	"github.com/milk9111/gridpath/scene"
	"go.uber.org/zap"
	"golang.design/x/clipboard"
)

// Viewer is the ebiten game that shows a scene's grid and lets the user move
// the follower and target around.
type Viewer struct {
	cfg       *config.Config
	log       *zap.Logger
	sceneName string

	sc          *scene.Scene
	agent       *agent.Agent
	view        view
	shapeColors map[*cp.Shape]color.Color

	follower common.Vector3
	target   common.Vector3

	watcher    *scene.Watcher
	ui         *ebitenui.UI
	status     *widget.Text
	clipboard  bool
	showShapes bool
	walking    bool
	message    string
}

// NewViewer loads the scene and plans once. clipboardOK reports whether the
// system clipboard could be initialised.
func NewViewer(cfg *config.Config, sceneName string, clipboardOK bool, log *zap.Logger) (*Viewer, error) {
	v := &Viewer{
		cfg:        cfg,
		log:        log,
		sceneName:  sceneName,
		clipboard:  clipboardOK,
		showShapes: true,
	}
	if err := v.load(true); err != nil {
		return nil, err
	}
	v.ui, v.status = newPanel(v, cfg.Viewer.PanelWidth, v.view.height)

	if cfg.Planner.Watch {
		files := v.sc.WatchFiles()
		if len(files) == 0 {
			log.Warn("embedded scenes cannot be watched", zap.String("scene", sceneName))
		} else {
			w, err := scene.NewWatcher(cfg.Planner.Debounce, files...)
			if err != nil {
				return nil, fmt.Errorf("watch: %w", err)
			}
			v.watcher = w
		}
	}
	return v, nil
}

// load builds the scene and a new agent. The scene's endpoints are used on
// the first load; reloads keep the current ones.
func (v *Viewer) load(first bool) error {
	sc, err := scene.Open(v.sceneName, v.log)
	if err != nil {
		return err
	}
	if first {
		v.follower, v.target = sc.Spec.Follower, sc.Spec.Target
	}
	a, err := sc.NewAgent(
		agent.PositionFunc(func() common.Vector3 { return v.follower }),
		agent.PositionFunc(func() common.Vector3 { return v.target }),
		v.log,
	)
	if err != nil {
		return fmt.Errorf("scene %s: %w", v.sceneName, err)
	}

	colors := make(map[*cp.Shape]color.Color)
	shapes := sc.World.Shapes()
	for i, sh := range sc.Spec.Shapes {
		if sh.Color != nil && sh.Color.Color != nil && i < len(shapes) {
			colors[shapes[i]] = sh.Color.Color
		}
	}

	v.sc = sc
	v.agent = a
	v.shapeColors = colors
	v.view = newView(a.Grid(), v.cfg.Viewer.CellPixels)
	return nil
}

// Close stops the scene watcher.
func (v *Viewer) Close() error {
	if v.watcher == nil {
		return nil
	}
	return v.watcher.Close()
}

func (v *Viewer) Update() error {
	v.pollWatcher()
	v.ui.Update()
	v.handleInput()
	if v.walking {
		v.step()
	}
	v.agent.Update()
	v.status.Label = v.statusText()
	return nil
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	drawCells(screen, v.view, v.agent.Grid())
	if v.showShapes {
		drawShapes(screen, v.view, v.sc.World.Space(), v.shapeColors)
	}
	drawPath(screen, v.view, v.follower, v.agent.Remaining(v.follower))
	drawHeadings(screen, v.view, v.agent.Waypoints(), v.agent.Directions(), v.cfg.Viewer.CellPixels)
	drawMarker(screen, v.view, v.target, v.cfg.Viewer.CellPixels, colorTarget)
	drawMarker(screen, v.view, v.follower, v.cfg.Viewer.CellPixels, colorFollower)
	v.ui.Draw(screen)
}

func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.view.width + v.cfg.Viewer.PanelWidth, v.view.height
}

func (v *Viewer) handleInput() {
	x, y := ebiten.CursorPosition()
	if v.view.contains(x, y) {
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			v.target = v.agent.CellAt(v.view.toWorld(x, y)).World
		}
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
			v.follower = v.agent.CellAt(v.view.toWorld(x, y)).World
			v.walking = false
		}
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		v.toggleExpand()
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		v.step()
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		v.toggleWalk()
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		v.copyWaypoints()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		v.reload()
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		v.showShapes = !v.showShapes
	}
}

func (v *Viewer) pollWatcher() {
	if v.watcher == nil {
		return
	}
	select {
	case name, ok := <-v.watcher.Events:
		if !ok {
			v.watcher = nil
			return
		}
		v.log.Info("scene changed", zap.String("file", name))
		v.reload()
	case err, ok := <-v.watcher.Errors:
		if ok {
			v.log.Warn("watch error", zap.Error(err))
		}
	default:
	}
}

func (v *Viewer) replan() {
	found := v.agent.Replan()
	v.message = fmt.Sprintf("replanned: found=%v", found)
}

func (v *Viewer) toggleExpand() {
	o := v.agent.Options()
	o.ExpandObstacles = !o.ExpandObstacles
	v.agent.Configure(o)
	v.message = fmt.Sprintf("expand obstacles: %v", o.ExpandObstacles)
}

// step moves the follower one configured step along the path.
func (v *Viewer) step() {
	next := v.agent.Advance(v.follower, v.cfg.Planner.Step)
	if next == v.follower {
		v.walking = false
		return
	}
	v.follower = next
}

func (v *Viewer) toggleWalk() {
	v.walking = !v.walking
}

func (v *Viewer) copyWaypoints() {
	if !v.clipboard {
		v.message = "clipboard unavailable"
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(formatWaypoints(v.agent.Waypoints())))
	v.message = fmt.Sprintf("copied %d waypoints", len(v.agent.Waypoints()))
}

func (v *Viewer) reload() {
	if err := v.load(false); err != nil {
		v.log.Warn("reload failed", zap.Error(err))
		v.message = "reload failed: " + err.Error()
		return
	}
	v.message = "reloaded " + v.sceneName
}

func (v *Viewer) statusText() string {
	st := v.agent.Finder().Stats()
	o := v.agent.Options()
	var b strings.Builder
	fmt.Fprintf(&b, "scene: %s\n", v.sceneName)
	fmt.Fprintf(&b, "follower: %v\n", v.follower)
	fmt.Fprintf(&b, "target: %v\n", v.target)
	fmt.Fprintf(&b, "path: found=%v length=%d\n", st.Found, st.Length)
	fmt.Fprintf(&b, "expanded: %d searches: %d\n", st.Expanded, v.agent.Searches())
	fmt.Fprintf(&b, "obstacles: %d ignored: %d\n", len(v.agent.ObstacleCells()), len(v.agent.IgnoredCells()))
	fmt.Fprintf(&b, "expand: %v\n", o.ExpandObstacles)
	if v.message != "" {
		b.WriteString("\n" + v.message)
	}
	return b.String()
}

// formatWaypoints writes one "x,y,z" line per waypoint.
func formatWaypoints(ws []common.Vector3) string {
	var b strings.Builder
	for _, w := range ws {
		fmt.Fprintf(&b, "%g,%g,%g\n", w.X, w.Y, w.Z)
	}
	return b.String()
}
