package pathfinding

import "fmt"

// Position is a cell coordinate in the maze grid.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Action is the move that led from a parent cell to a child cell.
type Action int8

const (
	NoAction Action = iota // Root node only
	North
	South
	West
	East
)

// moveOrder fixes neighbor generation order. Tie-breaking depends on it.
var moveOrder = [...]struct {
	action     Action
	dRow, dCol int
}{
	{North, -1, 0},
	{South, 1, 0},
	{West, 0, -1},
	{East, 0, 1},
}

func (a Action) String() string {
	switch a {
	case North:
		return "N"
	case South:
		return "S"
	case West:
		return "W"
	case East:
		return "E"
	}
	return ""
}

// Move pairs a reachable neighbor with the action that reaches it.
type Move struct {
	Action Action
	To     Position
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
