package pathfinding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ctxPollInterval is how many pops happen between context checks.
const ctxPollInterval = 256

// Status is the terminal state of a search.
type Status int8

const (
	StatusFound Status = iota
	StatusNotFound
	StatusBudgetExceeded
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not_found"
	case StatusBudgetExceeded:
		return "budget_exceeded"
	}
	return fmt.Sprintf("Status(%d)", int8(s))
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "found":
		*s = StatusFound
	case "not_found":
		*s = StatusNotFound
	case "budget_exceeded":
		*s = StatusBudgetExceeded
	default:
		return fmt.Errorf("unknown search status %q", b)
	}
	return nil
}

// Result is the outcome of one search. Path and Actions are set only when
// Status is StatusFound; Explored is always populated.
type Result struct {
	Status     Status     `json:"status"`
	Policy     Policy     `json:"policy"`
	Path       []Position `json:"path"`     // First step after start through goal
	Actions    []Action   `json:"-"`        // Aligned with Path
	Cost       int        `json:"cost"`     // len(Path) on a unit-cost grid
	Explored   []Position `json:"explored"` // Unique, in first-expansion order
	Expansions int        `json:"expansions"`
	Generated  int        `json:"generated"`
}

// Found reports whether the goal was reached.
func (r *Result) Found() bool { return r.Status == StatusFound }

// Err maps the status to a sentinel error, nil on success.
func (r *Result) Err() error {
	switch r.Status {
	case StatusFound:
		return nil
	case StatusNotFound:
		return ErrPathNotFound
	}
	return ErrBudgetExceeded
}

// ExploredSet returns the explored positions as a set.
func (r *Result) ExploredSet() map[Position]struct{} {
	set := make(map[Position]struct{}, len(r.Explored))
	for _, p := range r.Explored {
		set[p] = struct{}{}
	}
	return set
}

// Moves renders Actions as a compact "EESS..." string.
func (r *Result) Moves() string {
	var b strings.Builder
	for _, a := range r.Actions {
		b.WriteString(a.String())
	}
	return b.String()
}

type options struct {
	heuristic     Heuristic
	maxExpansions int
	skipExplored  bool
}

// Option tunes a search.
type Option func(*options)

// WithHeuristic replaces the default Manhattan heuristic.
func WithHeuristic(h Heuristic) Option {
	return func(o *options) {
		if h != nil {
			o.heuristic = h
		}
	}
}

// WithMaxExpansions caps how many nodes may be expanded. Zero or less means
// no cap.
func WithMaxExpansions(n int) Option {
	return func(o *options) { o.maxExpansions = n }
}

// WithSkipExplored stops re-queueing neighbors that were already expanded.
// With a consistent heuristic this does not change the A* path cost.
func WithSkipExplored(skip bool) Option {
	return func(o *options) { o.skipExplored = skip }
}

// Solve runs best-first search from grid.Start() to grid.Goal() under policy.
//
// Reaching the goal and exhausting the frontier are both reported through
// Result.Status. A deadline on ctx acts as a time budget and yields
// StatusBudgetExceeded; the returned error is non-nil only when ctx is
// cancelled or the arguments are unusable.
func Solve(ctx context.Context, grid *Grid, policy Policy, opts ...Option) (*Result, error) {
	if grid == nil {
		return nil, errors.New("pathfinding: nil grid")
	}
	if policy != Greedy && policy != AStar {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPolicy, policy)
	}
	o := options{heuristic: Manhattan}
	for _, opt := range opts {
		opt(&o)
	}

	start, goal := grid.Start(), grid.Goal()
	h := o.heuristic

	var (
		nodes    arena
		open     frontier
		best     = map[Position]int{start: 0}
		explored = make(map[Position]struct{})
		res      = &Result{Policy: policy}
		pops     int
	)

	root := nodes.add(searchNode{state: start, parent: noParent, action: NoAction, cost: 0})
	open.push(policy.Priority(0, h(start, goal)), root)
	res.Generated++

	for open.len() > 0 {
		if pops%ctxPollInterval == 0 {
			if err := ctx.Err(); err != nil {
				if errors.Is(err, context.DeadlineExceeded) {
					res.Status = StatusBudgetExceeded
					return res, nil
				}
				return nil, err
			}
		}
		pops++

		entry := open.pop()
		current := nodes.at(entry.handle)

		if current.state == goal {
			res.Status = StatusFound
			res.Path, res.Actions = nodes.reconstruct(entry.handle)
			res.Cost = current.cost
			return res, nil
		}

		if o.maxExpansions > 0 && res.Expansions >= o.maxExpansions {
			res.Status = StatusBudgetExceeded
			return res, nil
		}

		if _, seen := explored[current.state]; !seen {
			explored[current.state] = struct{}{}
			res.Explored = append(res.Explored, current.state)
		}
		res.Expansions++

		for _, move := range grid.Successors(current.state) {
			if o.skipExplored {
				if _, done := explored[move.To]; done {
					continue
				}
			}
			newCost := current.cost + 1
			if known, ok := best[move.To]; ok && newCost >= known {
				continue
			}
			best[move.To] = newCost
			child := nodes.add(searchNode{
				state:  move.To,
				parent: entry.handle,
				action: move.Action,
				cost:   newCost,
			})
			open.push(policy.Priority(newCost, h(move.To, goal)), child)
			res.Generated++
		}
	}

	res.Status = StatusNotFound
	return res, nil
}

// Comparison holds the results of running every policy on one grid.
type Comparison struct {
	Greedy *Result `json:"greedy"`
	AStar  *Result `json:"astar"`
}

// Compare runs greedy and A* concurrently on the same grid. The grid is only
// read, so both searches share it.
func Compare(ctx context.Context, grid *Grid, opts ...Option) (*Comparison, error) {
	var (
		wg      sync.WaitGroup
		results [2]*Result
		errs    [2]error
	)
	for i, p := range [2]Policy{Greedy, AStar} {
		wg.Add(1)
		go func(i int, p Policy) {
			defer wg.Done()
			results[i], errs[i] = Solve(ctx, grid, p, opts...)
		}(i, p)
	}
	wg.Wait()
	if err := errors.Join(errs[0], errs[1]); err != nil {
		return nil, err
	}
	return &Comparison{Greedy: results[0], AStar: results[1]}, nil
}
