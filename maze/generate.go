package maze

import (
	"fmt"
	"math/rand"

	"maze-server/pathfinding"
)

// Generate builds a random bordered maze with the start in the top-left
// interior corner and the goal in the bottom-right one. Interior cells become
// walls with probability density; a random monotone corridor from start to
// goal is carved afterwards so every generated maze is solvable.
func Generate(height, width int, density float64, seed int64) ([]string, error) {
	if height < 3 || width < 3 || (height == 3 && width == 3) {
		return nil, fmt.Errorf("maze must be larger than 3x3, got %dx%d", height, width)
	}
	if density < 0 || density >= 1 {
		return nil, fmt.Errorf("density must be in [0,1), got %v", density)
	}
	rng := rand.New(rand.NewSource(seed))

	cells := make([][]byte, height)
	for r := range cells {
		cells[r] = make([]byte, width)
		for c := range cells[r] {
			border := r == 0 || c == 0 || r == height-1 || c == width-1
			if border || rng.Float64() < density {
				cells[r][c] = pathfinding.WallChar
			} else {
				cells[r][c] = pathfinding.OpenChar
			}
		}
	}

	start := pathfinding.Position{Row: 1, Col: 1}
	goal := pathfinding.Position{Row: height - 2, Col: width - 2}

	// Carve the corridor with a random interleaving of south and east steps.
	p := start
	for p != goal {
		cells[p.Row][p.Col] = pathfinding.OpenChar
		switch {
		case p.Row == goal.Row:
			p.Col++
		case p.Col == goal.Col:
			p.Row++
		case rng.Intn(2) == 0:
			p.Row++
		default:
			p.Col++
		}
	}
	cells[start.Row][start.Col] = pathfinding.StartChar
	cells[goal.Row][goal.Col] = pathfinding.GoalChar

	rows := make([]string, height)
	for r := range cells {
		rows[r] = string(cells[r])
	}
	return rows, nil
}
