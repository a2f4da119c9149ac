package main

import (
	"strings"

	"github.com/milk9111/gridpath/agent"
	"github.com/milk9111/gridpath/grid"
)

const (
	glyphFree     = '.'
	glyphObstacle = '#'
	glyphIgnored  = '~'
	glyphExcluded = 'x'
	glyphPath     = '*'
	glyphFollower = 'S'
	glyphTarget   = 'T'
)

// render draws the agent's grid as text, highest Z row first.
func render(a *agent.Agent) string {
	g := a.Grid()
	onPath := make(map[grid.Coord]bool, len(a.Path()))
	for _, c := range a.Path() {
		onPath[c.Coord] = true
	}
	start := g.CoordAt(a.Follower().Position())
	target := g.CoordAt(a.Target().Position())

	var b strings.Builder
	for z := g.SizeZ() - 1; z >= 0; z-- {
		for x := 0; x < g.SizeX(); x++ {
			coord := grid.Coord{X: x, Z: z}
			c, _ := g.Cell(coord)
			b.WriteRune(glyph(c, coord == start, coord == target, onPath[coord]))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func glyph(c *grid.Cell, start, target, path bool) rune {
	switch {
	case start:
		return glyphFollower
	case target:
		return glyphTarget
	case c.Obstacle:
		return glyphObstacle
	case c.Excluded:
		return glyphExcluded
	case path:
		return glyphPath
	case c.Ignorable:
		return glyphIgnored
	}
	return glyphFree
}
