package pathfinding

import (
	"fmt"
	"strings"
)

// Policy selects how frontier priorities are computed. Both policies share
// the same search driver.
type Policy int8

const (
	// Greedy orders the frontier by heuristic alone. Fast, not optimal.
	Greedy Policy = iota
	// AStar orders the frontier by path cost plus heuristic.
	AStar
)

// Policies lists every supported policy in a stable order.
var Policies = []Policy{Greedy, AStar}

// Priority combines the accumulated cost and heuristic estimate of a node.
func (p Policy) Priority(cost, h int) int {
	if p == AStar {
		return cost + h
	}
	return h
}

func (p Policy) String() string {
	switch p {
	case Greedy:
		return "greedy"
	case AStar:
		return "astar"
	}
	return fmt.Sprintf("Policy(%d)", int8(p))
}

// MarshalText lets policies appear by name in JSON payloads.
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Policy) UnmarshalText(b []byte) error {
	parsed, err := ParsePolicy(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePolicy accepts "greedy"/"gbfs" and "astar"/"a*", case-insensitively.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "greedy", "gbfs", "best-first":
		return Greedy, nil
	case "astar", "a*", "a-star":
		return AStar, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}
