package solve

import (
	"context"
	"errors"
	"testing"
	"time"

	"maze-server/config"
	"maze-server/maze"
	"maze-server/pathfinding"
)

func newTestService(t *testing.T, cfg config.Config) (*Service, *maze.Entry) {
	t.Helper()
	store := maze.NewStore()
	e, err := store.Add(config.DefaultMazeName, config.DefaultMaze)
	if err != nil {
		t.Fatal(err)
	}
	return NewService(cfg, store), e
}

func TestServiceSolveByIDAndName(t *testing.T) {
	svc, e := newTestService(t, config.Config{SolveTimeout: time.Second})
	for _, ref := range []string{e.ID, config.DefaultMazeName} {
		resp, err := svc.Solve(context.Background(), Request{MazeID: ref})
		if err != nil {
			t.Fatalf("Solve(%s): %v", ref, err)
		}
		if resp.MazeID != e.ID {
			t.Errorf("maze id: got %q, want %q", resp.MazeID, e.ID)
		}
		if resp.Policy != pathfinding.AStar || resp.Status != pathfinding.StatusFound {
			t.Errorf("got %s/%s, want astar/found", resp.Policy, resp.Status)
		}
		if resp.Cost != 9 || resp.Moves != "EESSEEEEE" {
			t.Errorf("got cost %d moves %q", resp.Cost, resp.Moves)
		}
	}
}

func TestServiceSolveInlineRows(t *testing.T) {
	svc, _ := newTestService(t, config.Config{})
	resp, err := svc.Solve(context.Background(), Request{
		Rows:   []string{"A  ", "# #", "  B"},
		Policy: "greedy",
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.MazeID != "" || resp.Policy != pathfinding.Greedy || len(resp.Path) != 4 {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestServiceUnreachableHasEmptyPath(t *testing.T) {
	svc, _ := newTestService(t, config.Config{})
	resp, err := svc.Solve(context.Background(), Request{Rows: []string{"A#B"}})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Status != pathfinding.StatusNotFound {
		t.Errorf("status: got %s", resp.Status)
	}
	if resp.Path == nil || len(resp.Path) != 0 {
		t.Errorf("path should be an empty slice, got %#v", resp.Path)
	}
}

func TestServiceBudgets(t *testing.T) {
	svc, e := newTestService(t, config.Config{MaxExpansions: 5})
	resp, err := svc.Solve(context.Background(), Request{MazeID: e.ID})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Status != pathfinding.StatusBudgetExceeded || resp.Expansions != 5 {
		t.Errorf("configured cap: got %s after %d expansions", resp.Status, resp.Expansions)
	}

	// Requests may tighten the cap but never loosen it.
	resp, _ = svc.Solve(context.Background(), Request{MazeID: e.ID, MaxExpansions: 2})
	if resp.Expansions != 2 {
		t.Errorf("tightened cap: got %d expansions, want 2", resp.Expansions)
	}
	resp, _ = svc.Solve(context.Background(), Request{MazeID: e.ID, MaxExpansions: 500})
	if resp.Expansions != 5 {
		t.Errorf("loosened cap: got %d expansions, want 5", resp.Expansions)
	}
}

func TestServiceSkipExploredOverride(t *testing.T) {
	svc, e := newTestService(t, config.Config{SkipExplored: true})
	off := false
	a, err := svc.Solve(context.Background(), Request{MazeID: e.ID})
	if err != nil {
		t.Fatal(err)
	}
	b, err := svc.Solve(context.Background(), Request{MazeID: e.ID, SkipExplored: &off})
	if err != nil {
		t.Fatal(err)
	}
	if a.Cost != b.Cost {
		t.Errorf("pruning changed the A* cost: %d vs %d", a.Cost, b.Cost)
	}
}

func TestServiceErrors(t *testing.T) {
	svc, e := newTestService(t, config.Config{})
	tests := []struct {
		name   string
		req    Request
		target error
		client bool
	}{
		{"no maze", Request{}, ErrNoMaze, true},
		{"unknown id", Request{MazeID: "missing"}, maze.ErrNotFound, false},
		{"bad policy", Request{MazeID: e.ID, Policy: "dfs"}, pathfinding.ErrUnknownPolicy, true},
		{"bad heuristic", Request{MazeID: e.ID, Heuristic: "cosine"}, pathfinding.ErrUnknownHeuristic, true},
		{"bad rows", Request{Rows: []string{"AA", "B "}}, pathfinding.ErrInvalidMaze, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Solve(context.Background(), tt.req)
			if !errors.Is(err, tt.target) {
				t.Fatalf("got %v, want %v", err, tt.target)
			}
			if IsClientError(err) != tt.client {
				t.Errorf("IsClientError: got %v, want %v", !tt.client, tt.client)
			}
		})
	}
}

func TestServiceCompareAndStats(t *testing.T) {
	svc, e := newTestService(t, config.Config{})
	cmp, err := svc.Compare(context.Background(), Request{MazeID: e.ID})
	if err != nil {
		t.Fatal(err)
	}
	if cmp.Greedy.Policy != pathfinding.Greedy || cmp.AStar.Policy != pathfinding.AStar {
		t.Fatalf("policies: got %s/%s", cmp.Greedy.Policy, cmp.AStar.Policy)
	}
	if cmp.AStar.Cost > cmp.Greedy.Cost {
		t.Errorf("A* cost %d exceeds greedy %d", cmp.AStar.Cost, cmp.Greedy.Cost)
	}
	if _, err := svc.Solve(context.Background(), Request{Rows: []string{"A#B"}, Policy: "greedy"}); err != nil {
		t.Fatal(err)
	}

	snap := svc.Stats().Snapshot()
	if snap.Total != 3 || snap.LastSolved == nil {
		t.Fatalf("snapshot: %+v", snap)
	}
	greedy := snap.Policies[0]
	if greedy.Policy != "greedy" || greedy.Total != 2 || greedy.Found != 1 || greedy.NotFound != 1 {
		t.Errorf("greedy stats: %+v", greedy)
	}
	astar := snap.Policies[1]
	if astar.Total != 1 || astar.AvgPathLength != 9 || astar.AvgExpansions != 13 {
		t.Errorf("astar stats: %+v", astar)
	}
}

func TestServiceRun(t *testing.T) {
	svc, e := newTestService(t, config.Config{})
	g, res, err := svc.Run(context.Background(), Request{MazeID: e.ID, Policy: "greedy"})
	if err != nil {
		t.Fatal(err)
	}
	if g != e.Grid || !res.Found() {
		t.Errorf("Run returned grid %p result %s", g, res.Status)
	}
}
