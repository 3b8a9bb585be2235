package pathfinding

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want Policy
	}{
		{"greedy", Greedy},
		{"GBFS", Greedy},
		{"astar", AStar},
		{" A* ", AStar},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParsePolicy(%q): got %s, %v; want %s", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParsePolicy("dijkstra"); !errors.Is(err, ErrUnknownPolicy) {
		t.Errorf("got %v, want ErrUnknownPolicy", err)
	}
}

func TestPolicyPriority(t *testing.T) {
	if got := Greedy.Priority(7, 3); got != 3 {
		t.Errorf("greedy priority: got %d, want 3", got)
	}
	if got := AStar.Priority(7, 3); got != 10 {
		t.Errorf("astar priority: got %d, want 10", got)
	}
}

func TestPolicyJSON(t *testing.T) {
	var in struct {
		Policy Policy `json:"policy"`
	}
	if err := json.Unmarshal([]byte(`{"policy":"a*"}`), &in); err != nil {
		t.Fatal(err)
	}
	if in.Policy != AStar {
		t.Errorf("got %s, want astar", in.Policy)
	}
	out, _ := json.Marshal(in)
	if string(out) != `{"policy":"astar"}` {
		t.Errorf("got %s", out)
	}
}

func TestHeuristicByName(t *testing.T) {
	a, b := Position{1, 1}, Position{4, 5}
	h, err := HeuristicByName("")
	if err != nil || h(a, b) != 7 {
		t.Errorf("default heuristic: got %v", err)
	}
	h, err = HeuristicByName("zero")
	if err != nil || h(a, b) != 0 {
		t.Errorf("zero heuristic: got %v", err)
	}
	if _, err := HeuristicByName("euclid"); !errors.Is(err, ErrUnknownHeuristic) {
		t.Errorf("got %v, want ErrUnknownHeuristic", err)
	}
}

func TestFrontierTieBreakIsFIFO(t *testing.T) {
	var f frontier
	f.push(5, 10)
	f.push(1, 11)
	f.push(5, 12)
	f.push(1, 13)
	var got []int
	for f.len() > 0 {
		got = append(got, f.pop().handle)
	}
	want := []int{11, 13, 10, 12}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pop order: got %v, want %v", got, want)
		}
	}
}

func TestReconstructExcludesStart(t *testing.T) {
	var a arena
	root := a.add(searchNode{state: Position{0, 0}, parent: noParent})
	mid := a.add(searchNode{state: Position{0, 1}, parent: root, action: East, cost: 1})
	leaf := a.add(searchNode{state: Position{1, 1}, parent: mid, action: South, cost: 2})
	path, actions := a.reconstruct(leaf)
	if len(path) != 2 || path[0] != (Position{0, 1}) || path[1] != (Position{1, 1}) {
		t.Errorf("path: got %v", path)
	}
	if len(actions) != 2 || actions[0] != East || actions[1] != South {
		t.Errorf("actions: got %v", actions)
	}
	if p, _ := a.reconstruct(root); len(p) != 0 {
		t.Errorf("root path: got %v, want empty", p)
	}
}
