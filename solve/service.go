// Package solve turns transport requests into searches against the maze
// registry and keeps running counters for the metrics endpoint.
package solve

import (
	"context"
	"errors"
	"fmt"
	"time"

	"maze-server/config"
	"maze-server/maze"
	"maze-server/pathfinding"
)

// ErrNoMaze is returned when a request names neither a maze nor a layout.
var ErrNoMaze = errors.New("request needs maze_id or rows")

// Request selects a maze and tunes the search. Exactly one of MazeID and Rows
// is expected; MazeID may be an id or a registered name.
type Request struct {
	MazeID        string   `json:"maze_id,omitempty"`
	Rows          []string `json:"rows,omitempty"`
	Policy        string   `json:"policy,omitempty"`
	Heuristic     string   `json:"heuristic,omitempty"`
	MaxExpansions int      `json:"max_expansions,omitempty"`
	SkipExplored  *bool    `json:"skip_explored,omitempty"`
}

// Response is the wire form of a search result.
type Response struct {
	MazeID     string                 `json:"maze_id,omitempty"`
	Policy     pathfinding.Policy     `json:"policy"`
	Status     pathfinding.Status     `json:"status"`
	Path       []pathfinding.Position `json:"path"`
	Moves      string                 `json:"moves"`
	Cost       int                    `json:"cost"`
	Explored   []pathfinding.Position `json:"explored"`
	Expansions int                    `json:"expansions"`
	Generated  int                    `json:"generated"`
	ElapsedMS  float64                `json:"elapsed_ms"`
}

// Comparison is the wire form of running both policies.
type Comparison struct {
	MazeID string    `json:"maze_id,omitempty"`
	Greedy *Response `json:"greedy"`
	AStar  *Response `json:"astar"`
}

// Service runs searches with the configured budgets.
type Service struct {
	cfg   config.Config
	store *maze.Store
	stats *Stats
}

// NewService wires a service to a registry.
func NewService(cfg config.Config, store *maze.Store) *Service {
	return &Service{cfg: cfg, store: store, stats: NewStats()}
}

func (s *Service) Store() *maze.Store    { return s.store }
func (s *Service) Stats() *Stats         { return s.stats }
func (s *Service) Config() config.Config { return s.cfg }

// Resolve returns the grid a request refers to.
func (s *Service) Resolve(req Request) (string, *pathfinding.Grid, error) {
	switch {
	case req.MazeID != "":
		e, err := s.store.Lookup(req.MazeID)
		if err != nil {
			return "", nil, err
		}
		return e.ID, e.Grid, nil
	case len(req.Rows) > 0:
		if len(req.Rows) > config.MaxMazeHeight || len(req.Rows[0]) > config.MaxMazeWidth {
			return "", nil, fmt.Errorf("%w: limit is %dx%d", maze.ErrTooLarge, config.MaxMazeHeight, config.MaxMazeWidth)
		}
		g, err := pathfinding.ParseGrid(req.Rows)
		if err != nil {
			return "", nil, err
		}
		return "", g, nil
	}
	return "", nil, ErrNoMaze
}

// options merges request overrides with the configured defaults.
func (s *Service) options(req Request) ([]pathfinding.Option, error) {
	name := req.Heuristic
	if name == "" {
		name = config.DefaultHeuristic
	}
	h, err := pathfinding.HeuristicByName(name)
	if err != nil {
		return nil, err
	}
	budget := s.cfg.MaxExpansions
	if req.MaxExpansions > 0 && (budget == 0 || req.MaxExpansions < budget) {
		budget = req.MaxExpansions
	}
	skip := s.cfg.SkipExplored
	if req.SkipExplored != nil {
		skip = *req.SkipExplored
	}
	return []pathfinding.Option{
		pathfinding.WithHeuristic(h),
		pathfinding.WithMaxExpansions(budget),
		pathfinding.WithSkipExplored(skip),
	}, nil
}

func (s *Service) withBudget(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.SolveTimeout > 0 {
		return context.WithTimeout(ctx, s.cfg.SolveTimeout)
	}
	return context.WithCancel(ctx)
}

// Solve runs one search.
func (s *Service) Solve(ctx context.Context, req Request) (*Response, error) {
	id, _, res, elapsed, err := s.run(ctx, req)
	if err != nil {
		return nil, err
	}
	return newResponse(id, res, elapsed), nil
}

// Run is Solve returning the grid and raw result, for renderers.
func (s *Service) Run(ctx context.Context, req Request) (*pathfinding.Grid, *pathfinding.Result, error) {
	_, grid, res, _, err := s.run(ctx, req)
	return grid, res, err
}

func (s *Service) run(ctx context.Context, req Request) (string, *pathfinding.Grid, *pathfinding.Result, time.Duration, error) {
	name := req.Policy
	if name == "" {
		name = config.DefaultPolicy
	}
	policy, err := pathfinding.ParsePolicy(name)
	if err != nil {
		return "", nil, nil, 0, err
	}
	id, grid, err := s.Resolve(req)
	if err != nil {
		return "", nil, nil, 0, err
	}
	opts, err := s.options(req)
	if err != nil {
		return "", nil, nil, 0, err
	}

	ctx, cancel := s.withBudget(ctx)
	defer cancel()

	began := time.Now()
	res, err := pathfinding.Solve(ctx, grid, policy, opts...)
	if err != nil {
		return "", nil, nil, 0, fmt.Errorf("solving with %s: %w", policy, err)
	}
	elapsed := time.Since(began)
	s.stats.Record(res, elapsed)
	return id, grid, res, elapsed, nil
}

// Compare runs greedy and A* side by side on the same grid.
func (s *Service) Compare(ctx context.Context, req Request) (*Comparison, error) {
	id, grid, err := s.Resolve(req)
	if err != nil {
		return nil, err
	}
	opts, err := s.options(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withBudget(ctx)
	defer cancel()

	began := time.Now()
	cmp, err := pathfinding.Compare(ctx, grid, opts...)
	if err != nil {
		return nil, fmt.Errorf("comparing policies: %w", err)
	}
	elapsed := time.Since(began)
	s.stats.Record(cmp.Greedy, elapsed)
	s.stats.Record(cmp.AStar, elapsed)
	return &Comparison{
		MazeID: id,
		Greedy: newResponse(id, cmp.Greedy, elapsed),
		AStar:  newResponse(id, cmp.AStar, elapsed),
	}, nil
}

func newResponse(id string, res *pathfinding.Result, elapsed time.Duration) *Response {
	path, explored := res.Path, res.Explored
	if path == nil {
		path = []pathfinding.Position{}
	}
	if explored == nil {
		explored = []pathfinding.Position{}
	}
	return &Response{
		MazeID:     id,
		Policy:     res.Policy,
		Status:     res.Status,
		Path:       path,
		Moves:      res.Moves(),
		Cost:       res.Cost,
		Explored:   explored,
		Expansions: res.Expansions,
		Generated:  res.Generated,
		ElapsedMS:  float64(elapsed.Microseconds()) / 1000,
	}
}

// IsClientError reports whether err stems from a bad request rather than a
// server fault.
func IsClientError(err error) bool {
	return errors.Is(err, pathfinding.ErrInvalidMaze) ||
		errors.Is(err, pathfinding.ErrUnknownPolicy) ||
		errors.Is(err, pathfinding.ErrUnknownHeuristic) ||
		errors.Is(err, maze.ErrInvalidName) ||
		errors.Is(err, maze.ErrTooLarge) ||
		errors.Is(err, ErrNoMaze)
}
