package maze

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"maze-server/config"
	"maze-server/pathfinding"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned for unknown maze ids or names.
	ErrNotFound = errors.New("maze not found")
	// ErrNameTaken is returned when registering a name twice.
	ErrNameTaken = errors.New("maze name already registered")
	// ErrInvalidName is returned for empty or overlong names.
	ErrInvalidName = errors.New("invalid maze name")
	// ErrTooLarge is returned for layouts beyond the registry limits.
	ErrTooLarge = errors.New("maze too large")
)

// Entry is a registered maze. The grid is immutable and may be searched
// concurrently.
type Entry struct {
	ID        string
	Name      string
	Grid      *pathfinding.Grid
	CreatedAt time.Time
}

// Summary is the wire form of an Entry.
type Summary struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Height    int                  `json:"height"`
	Width     int                  `json:"width"`
	Start     pathfinding.Position `json:"start"`
	Goal      pathfinding.Position `json:"goal"`
	Walls     int                  `json:"walls"`
	Rows      []string             `json:"rows,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

// Summary describes the entry, optionally including its layout.
func (e *Entry) Summary(withRows bool) Summary {
	s := Summary{
		ID:        e.ID,
		Name:      e.Name,
		Height:    e.Grid.Height(),
		Width:     e.Grid.Width(),
		Start:     e.Grid.Start(),
		Goal:      e.Grid.Goal(),
		Walls:     len(e.Grid.Walls()),
		CreatedAt: e.CreatedAt,
	}
	if withRows {
		s.Rows = e.Grid.Rows()
	}
	return s
}

// Store is an in-memory registry of mazes, safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	byID   map[string]*Entry
	byName map[string]string // name -> id
	now    func() time.Time
}

// NewStore returns an empty registry.
func NewStore() *Store {
	return &Store{
		byID:   make(map[string]*Entry),
		byName: make(map[string]string),
		now:    time.Now,
	}
}

// Add parses rows and registers the resulting grid under name.
func (s *Store) Add(name string, rows []string) (*Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > config.MaxNameLength {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if len(rows) > config.MaxMazeHeight || (len(rows) > 0 && len(rows[0]) > config.MaxMazeWidth) {
		return nil, fmt.Errorf("%w: limit is %dx%d", ErrTooLarge, config.MaxMazeHeight, config.MaxMazeWidth)
	}
	grid, err := pathfinding.ParseGrid(rows)
	if err != nil {
		return nil, err
	}
	return s.AddGrid(name, grid)
}

// AddGrid registers an already built grid.
func (s *Store) AddGrid(name string, grid *pathfinding.Grid) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byName[name]; taken {
		return nil, fmt.Errorf("%w: %q", ErrNameTaken, name)
	}
	e := &Entry{
		ID:        uuid.New().String(),
		Name:      name,
		Grid:      grid,
		CreatedAt: s.now(),
	}
	s.byID[e.ID] = e
	s.byName[name] = e.ID
	log.Printf("Registered maze %q (%s) %dx%d", name, e.ID, grid.Height(), grid.Width())
	return e, nil
}

// Get looks a maze up by id.
func (s *Store) Get(id string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, nil
}

// GetByName looks a maze up by its registered name.
func (s *Store) GetByName(name string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return s.byID[id], nil
}

// Lookup accepts either an id or a name.
func (s *Store) Lookup(ref string) (*Entry, error) {
	if e, err := s.Get(ref); err == nil {
		return e, nil
	}
	return s.GetByName(ref)
}

// List returns every entry ordered by creation time, then name.
func (s *Store) List() []*Entry {
	s.mu.RLock()
	out := make([]*Entry, 0, len(s.byID))
	for _, e := range s.byID {
		out = append(out, e)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Delete removes a maze by id.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.byID, id)
	delete(s.byName, e.Name)
	log.Printf("Removed maze %q (%s)", e.Name, id)
	return nil
}

// Len reports how many mazes are registered.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
