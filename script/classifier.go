// Package script lets a tengo script decide which cells are obstacles and how
// high the ground is.
//
// A script must define
//
//	overlaps := func(layer, x, y, z, r) { ... }
//
// returning a truthy value when a sphere of radius r at (x, y, z) touches
// something on layer. It may also define
//
//	height := func(x, z) { ... }
//
// returning the ground height at (x, z), or undefined when there is none.
// Every stdlib module is importable.
package script

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/gridpath/common"
	"github.com/milk9111/gridpath/grid"
	"go.uber.org/zap"
)

var ErrMissingOverlaps = errors.New("script: overlaps function not defined")

const overlapsDispatch = `
if __call == "overlaps" {
	__result = overlaps(__layer, __x, __y, __z, __r)
}
`

const heightDispatch = `
if __call == "height" {
	__result = height(__x, __z)
}
`

// Classifier runs a compiled script for every query. It satisfies
// grid.Classifier and grid.Surface and is safe for concurrent use.
type Classifier struct {
	path      string
	compiled  *tengo.Compiled
	hasHeight bool
	log       *zap.Logger

	mu      sync.Mutex
	lastErr error
}

type Option func(*Classifier)

func WithLogger(log *zap.Logger) Option {
	return func(c *Classifier) {
		if log != nil {
			c.log = log
		}
	}
}

// Load reads and compiles the script at path.
func Load(path string, opts ...Option) (*Classifier, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script: read %s: %w", path, err)
	}
	c, err := New(src, opts...)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", path, err)
	}
	c.path = path
	return c, nil
}

// New compiles src. It fails with ErrMissingOverlaps when src does not define
// overlaps.
func New(src []byte, opts ...Option) (*Classifier, error) {
	c := &Classifier{log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}

	// run the bare script once to learn which hooks it defines
	probe := newScript(src)
	probeCompiled, err := probe.Compile()
	if err != nil {
		return nil, err
	}
	if err := probeCompiled.Run(); err != nil {
		return nil, err
	}
	if !probeCompiled.IsDefined("overlaps") {
		return nil, ErrMissingOverlaps
	}
	c.hasHeight = probeCompiled.IsDefined("height")

	full := string(src) + "\n" + overlapsDispatch
	if c.hasHeight {
		full += heightDispatch
	}
	compiled, err := newScript([]byte(full)).Compile()
	if err != nil {
		return nil, err
	}
	c.compiled = compiled
	return c, nil
}

func newScript(src []byte) *tengo.Script {
	s := tengo.NewScript(src)
	_ = s.Add("__call", "")
	_ = s.Add("__layer", 0)
	_ = s.Add("__x", 0.0)
	_ = s.Add("__y", 0.0)
	_ = s.Add("__z", 0.0)
	_ = s.Add("__r", 0.0)
	_ = s.Add("__result", false)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	return s
}

// Path returns the file the script was loaded from, if any.
func (c *Classifier) Path() string {
	return c.path
}

// HasHeight reports whether the script defines height.
func (c *Classifier) HasHeight() bool {
	return c.hasHeight
}

// Err returns the most recent script runtime error, or nil.
func (c *Classifier) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Overlaps calls the script's overlaps function. A runtime error counts as no
// overlap and is kept for Err.
func (c *Classifier) Overlaps(pos common.Vector3, radius float64, layer grid.Layer) bool {
	res, err := c.call("overlaps", map[string]any{
		"__layer": int(layer),
		"__x":     pos.X,
		"__y":     pos.Y,
		"__z":     pos.Z,
		"__r":     radius,
	})
	if err != nil {
		return false
	}
	return res.Bool()
}

// SurfaceHeight calls the script's height function. It reports false when the
// script defines none, returns undefined, or fails.
func (c *Classifier) SurfaceHeight(x, z float64) (float64, bool) {
	if !c.hasHeight {
		return 0, false
	}
	res, err := c.call("height", map[string]any{
		"__x": x,
		"__z": z,
	})
	if err != nil || res.IsUndefined() {
		return 0, false
	}
	switch res.ValueType() {
	case "int", "float":
		return res.Float(), true
	}
	return 0, false
}

func (c *Classifier) call(name string, args map[string]any) (*tengo.Variable, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.compiled.Set("__call", name)
	for k, v := range args {
		if err != nil {
			break
		}
		err = c.compiled.Set(k, v)
	}
	if err == nil {
		err = c.compiled.Set("__result", tengo.UndefinedValue)
	}
	if err == nil {
		err = c.compiled.Run()
	}
	if err != nil {
		c.lastErr = err
		c.log.Warn("script call failed",
			zap.String("call", name),
			zap.String("path", c.path),
			zap.Error(err),
		)
		return nil, err
	}
	return c.compiled.Get("__result"), nil
}

var (
	_ grid.Classifier = (*Classifier)(nil)
	_ grid.Surface    = (*Classifier)(nil)
)
