// Package render draws a solved maze: walls, endpoints, the path and the
// cells the search expanded.
package render

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"maze-server/config"
	"maze-server/pathfinding"

	"github.com/fogleman/gg"
)

// Cell classifies a grid cell for drawing. Earlier kinds win when a cell
// belongs to several sets.
type Cell int

const (
	CellOpen Cell = iota
	CellWall
	CellStart
	CellGoal
	CellPath
	CellExplored
)

// Classify decides how every cell of g is drawn.
func Classify(g *pathfinding.Grid, path, explored []pathfinding.Position) [][]Cell {
	onPath := make(map[pathfinding.Position]bool, len(path))
	for _, p := range path {
		onPath[p] = true
	}
	seen := make(map[pathfinding.Position]bool, len(explored))
	for _, p := range explored {
		seen[p] = true
	}

	cells := make([][]Cell, g.Height())
	for r := range cells {
		cells[r] = make([]Cell, g.Width())
		for c := range cells[r] {
			p := pathfinding.Position{Row: r, Col: c}
			switch {
			case g.IsWall(p):
				cells[r][c] = CellWall
			case p == g.Start():
				cells[r][c] = CellStart
			case p == g.Goal():
				cells[r][c] = CellGoal
			case onPath[p]:
				cells[r][c] = CellPath
			case seen[p]:
				cells[r][c] = CellExplored
			default:
				cells[r][c] = CellOpen
			}
		}
	}
	return cells
}

// ASCII renders the maze as text using the layout glyphs plus '*' for the
// path and '.' for explored cells.
func ASCII(g *pathfinding.Grid, path, explored []pathfinding.Position) string {
	var b strings.Builder
	for _, row := range Classify(g, path, explored) {
		for _, cell := range row {
			b.WriteByte(glyph(cell))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func glyph(c Cell) byte {
	switch c {
	case CellWall:
		return pathfinding.WallChar
	case CellStart:
		return pathfinding.StartChar
	case CellGoal:
		return pathfinding.GoalChar
	case CellPath:
		return config.PathGlyph
	case CellExplored:
		return config.ExploredGlyph
	}
	return pathfinding.OpenChar
}

// Palette returns the fill color of a cell kind.
func Palette(c Cell) color.RGBA {
	var col config.Color
	switch c {
	case CellWall:
		col = config.WallColor
	case CellStart:
		col = config.StartColor
	case CellGoal:
		col = config.GoalColor
	case CellPath:
		col = config.PathColor
	case CellExplored:
		col = config.ExploredColor
	default:
		col = config.OpenColor
	}
	return color.RGBA{R: col.R, G: col.G, B: col.B, A: col.A}
}

// PNG draws the maze as a raster image, cellSize pixels per cell.
func PNG(w io.Writer, g *pathfinding.Grid, path, explored []pathfinding.Position, cellSize int) error {
	if cellSize <= 0 {
		return fmt.Errorf("cell size must be positive, got %d", cellSize)
	}
	dc := gg.NewContext(g.Width()*cellSize, g.Height()*cellSize)
	dc.SetColor(Palette(CellOpen))
	dc.Clear()

	size := float64(cellSize)
	for r, row := range Classify(g, path, explored) {
		for c, cell := range row {
			if cell == CellOpen {
				continue
			}
			dc.SetColor(Palette(cell))
			dc.DrawRectangle(float64(c)*size, float64(r)*size, size, size)
			dc.Fill()
		}
	}
	return dc.EncodePNG(w)
}
