package solve

import (
	"sync"
	"time"

	"maze-server/pathfinding"
)

// PolicyStats aggregates the searches run under one policy.
type PolicyStats struct {
	Policy         string  `json:"policy"`
	Total          int     `json:"total"`
	Found          int     `json:"found"`
	NotFound       int     `json:"not_found"`
	BudgetExceeded int     `json:"budget_exceeded"`
	Expansions     int64   `json:"expansions"`
	AvgExpansions  float64 `json:"avg_expansions"`
	AvgPathLength  float64 `json:"avg_path_length"`
	AvgElapsedMS   float64 `json:"avg_elapsed_ms"`

	pathSteps int64
	elapsed   time.Duration
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Total      int           `json:"total"`
	Policies   []PolicyStats `json:"policies"`
	LastSolved *time.Time    `json:"last_solved,omitempty"`
}

// Stats counts finished searches. Safe for concurrent use.
type Stats struct {
	mu         sync.RWMutex
	byPolicy   map[pathfinding.Policy]*PolicyStats
	lastSolved time.Time
}

func NewStats() *Stats {
	s := &Stats{byPolicy: make(map[pathfinding.Policy]*PolicyStats)}
	for _, p := range pathfinding.Policies {
		s.byPolicy[p] = &PolicyStats{Policy: p.String()}
	}
	return s
}

// Record adds one finished search.
func (s *Stats) Record(res *pathfinding.Result, elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps, ok := s.byPolicy[res.Policy]
	if !ok {
		return
	}
	ps.Total++
	switch res.Status {
	case pathfinding.StatusFound:
		ps.Found++
		ps.pathSteps += int64(len(res.Path))
	case pathfinding.StatusNotFound:
		ps.NotFound++
	case pathfinding.StatusBudgetExceeded:
		ps.BudgetExceeded++
	}
	ps.Expansions += int64(res.Expansions)
	ps.elapsed += elapsed
	s.lastSolved = time.Now()
}

// Snapshot copies the counters and fills in the averages.
func (s *Stats) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var snap Snapshot
	for _, p := range pathfinding.Policies {
		ps := *s.byPolicy[p]
		if ps.Total > 0 {
			ps.AvgExpansions = float64(ps.Expansions) / float64(ps.Total)
			ps.AvgElapsedMS = float64(ps.elapsed.Microseconds()) / 1000 / float64(ps.Total)
		}
		if ps.Found > 0 {
			ps.AvgPathLength = float64(ps.pathSteps) / float64(ps.Found)
		}
		snap.Total += ps.Total
		snap.Policies = append(snap.Policies, ps)
	}
	if !s.lastSolved.IsZero() {
		t := s.lastSolved
		snap.LastSolved = &t
	}
	return snap
}
