package pathfinding

import (
	"fmt"
	"strings"
)

// Heuristic estimates the remaining cost from a to b. A* keeps its optimality
// guarantee only for heuristics that never overestimate and satisfy
// h(n) <= 1 + h(n') across every grid edge.
type Heuristic func(a, b Position) int

// Manhattan is the L1 distance. Admissible and consistent on a 4-connected
// unit-cost grid since one move changes it by exactly one.
func Manhattan(a, b Position) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

// Zero ignores the goal. Under A* this degrades to uniform-cost search.
func Zero(a, b Position) int { return 0 }

// HeuristicByName resolves "manhattan" or "zero". An empty name selects Manhattan.
func HeuristicByName(name string) (Heuristic, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "manhattan", "l1":
		return Manhattan, nil
	case "zero", "none":
		return Zero, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownHeuristic, name)
}
