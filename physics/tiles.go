package physics

import (
	"github.com/milk9111/gridpath/common"
	"github.com/milk9111/gridpath/grid"
	"go.uber.org/zap"
)

// TileMap is a character map of obstacles. Row 0 is the back-most row (lowest
// Z); each character is one Size×Size tile whose layer comes from Legend.
// Characters missing from Legend are empty.
type TileMap struct {
	Rows   []string
	Origin common.Vector3 // back-left corner of tile (0,0)
	Size   float64
	Legend map[rune]grid.Layer
}

// AddTiles adds the tiles of m as boxes. Runs of tiles with the same character
// are merged into larger rectangles, widest first, so the space holds fewer
// shapes. It returns the number of boxes added.
func (w *World) AddTiles(m TileMap) int {
	if m.Size <= 0 || len(m.Rows) == 0 {
		return 0
	}

	height := len(m.Rows)
	width := 0
	cells := make([][]rune, height)
	for z, row := range m.Rows {
		cells[z] = []rune(row)
		if len(cells[z]) > width {
			width = len(cells[z])
		}
	}
	at := func(x, z int) rune {
		if x >= len(cells[z]) {
			return ' '
		}
		return cells[z][x]
	}

	processed := make([]bool, width*height)
	added := 0
	for z := 0; z < height; z++ {
		for x := 0; x < width; x++ {
			idx := z*width + x
			if processed[idx] {
				continue
			}
			ch := at(x, z)
			layer, ok := m.Legend[ch]
			if !ok || layer == 0 {
				processed[idx] = true
				continue
			}

			sx := 1
			for x+sx < width {
				i := z*width + x + sx
				if processed[i] || at(x+sx, z) != ch {
					break
				}
				sx++
			}

			sz := 1
		grow:
			for z+sz < height {
				for xi := x; xi < x+sx; xi++ {
					i := (z+sz)*width + xi
					if processed[i] || at(xi, z+sz) != ch {
						break grow
					}
				}
				sz++
			}

			for zi := z; zi < z+sz; zi++ {
				for xi := x; xi < x+sx; xi++ {
					processed[zi*width+xi] = true
				}
			}

			bw := float64(sx) * m.Size
			bd := float64(sz) * m.Size
			center := common.Vector3{
				X: m.Origin.X + float64(x)*m.Size + bw/2,
				Y: m.Origin.Y,
				Z: m.Origin.Z + float64(z)*m.Size + bd/2,
			}
			w.AddBox(center, bw, bd, layer)
			added++
		}
	}
	w.log.Debug("tile map merged",
		zap.Int("rows", height),
		zap.Int("columns", width),
		zap.Int("boxes", added),
	)
	return added
}
