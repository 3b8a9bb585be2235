package pathfinding

import "strings"

// Maze layout glyphs.
const (
	WallChar  byte = '#'
	StartChar byte = 'A'
	GoalChar  byte = 'B'
	OpenChar  byte = ' '
)

// Grid is an immutable rectangular maze. It is safe for concurrent use by
// any number of searches.
type Grid struct {
	height, width int
	walls         []bool // Row-major, len == height*width
	start, goal   Position
}

// NewGrid validates and builds a grid from explicit dimensions and cells.
func NewGrid(height, width int, walls []Position, start, goal Position) (*Grid, error) {
	if height <= 0 || width <= 0 {
		return nil, invalidMaze("dimensions must be positive, got %dx%d", height, width)
	}
	g := &Grid{
		height: height,
		width:  width,
		walls:  make([]bool, height*width),
		start:  start,
		goal:   goal,
	}
	for _, w := range walls {
		if !g.InBounds(w) {
			return nil, invalidMaze("wall %s is out of bounds", w)
		}
		g.walls[g.index(w)] = true
	}
	if !g.InBounds(start) {
		return nil, invalidMaze("start %s is out of bounds", start)
	}
	if !g.InBounds(goal) {
		return nil, invalidMaze("goal %s is out of bounds", goal)
	}
	if start == goal {
		return nil, invalidMaze("start and goal share cell %s", start)
	}
	if g.IsWall(start) {
		return nil, invalidMaze("start %s is a wall", start)
	}
	if g.IsWall(goal) {
		return nil, invalidMaze("goal %s is a wall", goal)
	}
	return g, nil
}

// ParseGrid builds a grid from one string per row. '#' is a wall, 'A' the
// start, 'B' the goal and any other byte an open cell.
func ParseGrid(rows []string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, invalidMaze("no rows")
	}
	width := len(rows[0])
	if width == 0 {
		return nil, invalidMaze("row 0 is empty")
	}

	var (
		walls                 []Position
		start, goal           Position
		startCount, goalCount int
	)
	for r, row := range rows {
		if len(row) != width {
			return nil, invalidMaze("row %d has length %d, want %d", r, len(row), width)
		}
		for c := 0; c < len(row); c++ {
			switch row[c] {
			case WallChar:
				walls = append(walls, Position{r, c})
			case StartChar:
				start = Position{r, c}
				startCount++
			case GoalChar:
				goal = Position{r, c}
				goalCount++
			}
		}
	}
	if startCount != 1 {
		return nil, invalidMaze("want exactly one start marker %q, found %d", StartChar, startCount)
	}
	if goalCount != 1 {
		return nil, invalidMaze("want exactly one goal marker %q, found %d", GoalChar, goalCount)
	}
	return NewGrid(len(rows), width, walls, start, goal)
}

// ParseGridString parses a newline separated layout. Windows line endings and
// trailing blank lines are tolerated.
func ParseGridString(s string) (*Grid, error) {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return ParseGrid(lines)
}

func (g *Grid) index(p Position) int { return p.Row*g.width + p.Col }

func (g *Grid) Height() int     { return g.height }
func (g *Grid) Width() int      { return g.width }
func (g *Grid) Start() Position { return g.start }
func (g *Grid) Goal() Position  { return g.goal }

// InBounds reports whether p lies inside the grid.
func (g *Grid) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < g.height && p.Col >= 0 && p.Col < g.width
}

// IsWall reports whether p is an in-bounds wall cell.
func (g *Grid) IsWall(p Position) bool {
	return g.InBounds(p) && g.walls[g.index(p)]
}

// Passable reports whether p is in bounds and not a wall.
func (g *Grid) Passable(p Position) bool {
	return g.InBounds(p) && !g.walls[g.index(p)]
}

// Successors returns the passable 4-connected neighbors of p in north, south,
// west, east order.
func (g *Grid) Successors(p Position) []Move {
	moves := make([]Move, 0, len(moveOrder))
	for _, m := range moveOrder {
		next := Position{p.Row + m.dRow, p.Col + m.dCol}
		if g.Passable(next) {
			moves = append(moves, Move{Action: m.action, To: next})
		}
	}
	return moves
}

// Neighbors is Successors without the actions.
func (g *Grid) Neighbors(p Position) []Position {
	moves := g.Successors(p)
	out := make([]Position, len(moves))
	for i, m := range moves {
		out[i] = m.To
	}
	return out
}

// Walls returns the wall cells in row-major order.
func (g *Grid) Walls() []Position {
	var out []Position
	for i, w := range g.walls {
		if w {
			out = append(out, Position{i / g.width, i % g.width})
		}
	}
	return out
}

// Rows renders the grid back into its character layout.
func (g *Grid) Rows() []string {
	rows := make([]string, g.height)
	buf := make([]byte, g.width)
	for r := 0; r < g.height; r++ {
		for c := 0; c < g.width; c++ {
			p := Position{r, c}
			switch {
			case p == g.start:
				buf[c] = StartChar
			case p == g.goal:
				buf[c] = GoalChar
			case g.walls[g.index(p)]:
				buf[c] = WallChar
			default:
				buf[c] = OpenChar
			}
		}
		rows[r] = string(buf)
	}
	return rows
}
